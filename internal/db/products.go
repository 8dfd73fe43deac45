package db

import (
	"context"
	"time"
)

type Product struct {
	ParentASIN  string    `json:"parent_asin"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	AvgRating   float64   `json:"avg_rating"`
	ReviewCount int64     `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListProductsParams struct {
	Search string
	Limit  int32
	Offset int32
}

func (q *Queries) ListProducts(ctx context.Context, params ListProductsParams) ([]Product, error) {
	const query = `
		SELECT parent_asin, title, category, avg_rating, review_count, created_at
		FROM products
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR parent_asin = $1)
		ORDER BY review_count DESC, parent_asin
		LIMIT $2 OFFSET $3`

	rows, err := q.db.Query(ctx, query, params.Search, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ParentASIN, &p.Title, &p.Category, &p.AvgRating, &p.ReviewCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (q *Queries) GetProduct(ctx context.Context, parentASIN string) (Product, error) {
	const query = `
		SELECT parent_asin, title, category, avg_rating, review_count, created_at
		FROM products
		WHERE parent_asin = $1`

	var p Product
	err := q.db.QueryRow(ctx, query, parentASIN).Scan(
		&p.ParentASIN, &p.Title, &p.Category, &p.AvgRating, &p.ReviewCount, &p.CreatedAt,
	)
	return p, err
}

// RefreshProductStats recomputes the denormalized rating average and review
// count after reviews change.
func (q *Queries) RefreshProductStats(ctx context.Context, parentASIN string) error {
	const query = `
		UPDATE products p SET
			avg_rating = COALESCE(s.avg_rating, 0),
			review_count = COALESCE(s.review_count, 0)
		FROM (
			SELECT AVG(rating) AS avg_rating, COUNT(*) AS review_count
			FROM reviews WHERE parent_asin = $1
		) s
		WHERE p.parent_asin = $1`

	_, err := q.db.Exec(ctx, query, parentASIN)
	return err
}
