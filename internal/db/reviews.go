package db

import (
	"context"
	"time"

	"github.com/pgvector/pgvector-go"
)

type Review struct {
	ID         int64     `json:"id"`
	ParentASIN string    `json:"parent_asin"`
	Rating     float64   `json:"rating"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

type ListReviewsParams struct {
	ParentASIN string
	MinRating  float64
	MaxRating  float64
	StartDate  string // optional, YYYY-MM-DD
	EndDate    string // optional, YYYY-MM-DD
	Limit      int32
	Offset     int32
}

func (q *Queries) ListReviews(ctx context.Context, params ListReviewsParams) ([]Review, error) {
	const query = `
		SELECT id, parent_asin, rating, title, body, reviewed_at
		FROM reviews
		WHERE parent_asin = $1
		  AND rating >= $2 AND rating <= $3
		  AND ($4 = '' OR reviewed_at >= $4::date)
		  AND ($5 = '' OR reviewed_at < $5::date + interval '1 day')
		ORDER BY reviewed_at DESC, id DESC
		LIMIT $6 OFFSET $7`

	rows, err := q.db.Query(ctx, query,
		params.ParentASIN, params.MinRating, params.MaxRating,
		params.StartDate, params.EndDate, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows)
}

func (q *Queries) CountReviews(ctx context.Context, parentASIN string) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE parent_asin = $1`, parentASIN,
	).Scan(&count)
	return count, err
}

func (q *Queries) GetReview(ctx context.Context, id int64) (Review, error) {
	const query = `
		SELECT id, parent_asin, rating, title, body, reviewed_at
		FROM reviews WHERE id = $1`

	var r Review
	err := q.db.QueryRow(ctx, query, id).Scan(
		&r.ID, &r.ParentASIN, &r.Rating, &r.Title, &r.Body, &r.ReviewedAt,
	)
	return r, err
}

// GetReviewsForAnalysis returns the reviews of a product that carry a
// usable rating and body, the population the emotion pipeline runs over.
func (q *Queries) GetReviewsForAnalysis(ctx context.Context, parentASIN string) ([]Review, error) {
	const query = `
		SELECT id, parent_asin, rating, title, body, reviewed_at
		FROM reviews
		WHERE parent_asin = $1
		  AND body <> ''
		  AND rating >= 1 AND rating <= 5
		ORDER BY id`

	rows, err := q.db.Query(ctx, query, parentASIN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows)
}

type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

func (q *Queries) GetReviewDateRange(ctx context.Context, parentASIN string) (DateRange, error) {
	const query = `
		SELECT MIN(reviewed_at), MAX(reviewed_at)
		FROM reviews
		WHERE parent_asin = $1 AND rating >= 1 AND rating <= 5`

	var dr DateRange
	err := q.db.QueryRow(ctx, query, parentASIN).Scan(&dr.Earliest, &dr.Latest)
	return dr, err
}

func (q *Queries) UpdateReviewEmbedding(ctx context.Context, id int64, embedding []float32) error {
	_, err := q.db.Exec(ctx,
		`UPDATE reviews SET embedding = $2 WHERE id = $1`,
		id, pgvector.NewVector(embedding),
	)
	return err
}

type SimilarReview struct {
	Review
	Distance float64 `json:"distance"`
}

// GetSimilarReviews returns the nearest neighbors of a review by embedding
// cosine distance, scoped to the same product.
func (q *Queries) GetSimilarReviews(ctx context.Context, id int64, limit int32) ([]SimilarReview, error) {
	const query = `
		SELECT r.id, r.parent_asin, r.rating, r.title, r.body, r.reviewed_at,
		       r.embedding <=> ref.embedding AS distance
		FROM reviews r, reviews ref
		WHERE ref.id = $1
		  AND r.id <> ref.id
		  AND r.parent_asin = ref.parent_asin
		  AND r.embedding IS NOT NULL
		  AND ref.embedding IS NOT NULL
		ORDER BY distance
		LIMIT $2`

	rows, err := q.db.Query(ctx, query, id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	similar := make([]SimilarReview, 0)
	for rows.Next() {
		var s SimilarReview
		if err := rows.Scan(&s.ID, &s.ParentASIN, &s.Rating, &s.Title, &s.Body, &s.ReviewedAt, &s.Distance); err != nil {
			return nil, err
		}
		similar = append(similar, s)
	}
	return similar, rows.Err()
}

func scanReviews(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Review, error) {
	reviews := make([]Review, 0)
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.ParentASIN, &r.Rating, &r.Title, &r.Body, &r.ReviewedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
