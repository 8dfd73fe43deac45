package db

import (
	"context"
)

// UpsertReviewEmotion stores the dominant emotion detected for a review.
// Re-running an analysis overwrites the previous result.
func (q *Queries) UpsertReviewEmotion(ctx context.Context, reviewID int64, emotion string, score float64, polarity string) error {
	const query = `
		INSERT INTO review_emotions (review_id, emotion, score, polarity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (review_id) DO UPDATE
		SET emotion = EXCLUDED.emotion,
		    score = EXCLUDED.score,
		    polarity = EXCLUDED.polarity,
		    analyzed_at = now()`

	_, err := q.db.Exec(ctx, query, reviewID, emotion, score, polarity)
	return err
}

// DeleteReviewEmotion removes a stored result, used when a re-analysis
// finds nothing above the detection threshold for a review.
func (q *Queries) DeleteReviewEmotion(ctx context.Context, reviewID int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM review_emotions WHERE review_id = $1`, reviewID)
	return err
}

// EmotionCountRow is a per-emotion review count within one polarity.
type EmotionCountRow struct {
	Polarity string `json:"polarity"`
	Emotion  string `json:"emotion"`
	Count    int64  `json:"count"`
}

// GetEmotionCounts returns how many reviews of a product were dominated by
// each emotion, grouped by polarity. Input for the flow-graph aggregate.
func (q *Queries) GetEmotionCounts(ctx context.Context, parentASIN string) ([]EmotionCountRow, error) {
	const query = `
		SELECT e.polarity, e.emotion, COUNT(*)
		FROM review_emotions e
		JOIN reviews r ON r.id = e.review_id
		WHERE r.parent_asin = $1
		GROUP BY e.polarity, e.emotion
		ORDER BY e.polarity, COUNT(*) DESC, e.emotion`

	rows, err := q.db.Query(ctx, query, parentASIN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]EmotionCountRow, 0)
	for rows.Next() {
		var r EmotionCountRow
		if err := rows.Scan(&r.Polarity, &r.Emotion, &r.Count); err != nil {
			return nil, err
		}
		counts = append(counts, r)
	}
	return counts, rows.Err()
}

// TopEmotionRow is an emotion ranked by its average dominant score across
// a product's analyzed reviews.
type TopEmotionRow struct {
	Emotion  string  `json:"emotion"`
	AvgScore float64 `json:"avg_score"`
	Count    int64   `json:"count"`
}

func (q *Queries) GetTopEmotions(ctx context.Context, parentASIN string, limit int32) ([]TopEmotionRow, error) {
	const query = `
		SELECT e.emotion, AVG(e.score), COUNT(*)
		FROM review_emotions e
		JOIN reviews r ON r.id = e.review_id
		WHERE r.parent_asin = $1
		GROUP BY e.emotion
		ORDER BY AVG(e.score) DESC, COUNT(*) DESC
		LIMIT $2`

	rows, err := q.db.Query(ctx, query, parentASIN, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := make([]TopEmotionRow, 0)
	for rows.Next() {
		var r TopEmotionRow
		if err := rows.Scan(&r.Emotion, &r.AvgScore, &r.Count); err != nil {
			return nil, err
		}
		top = append(top, r)
	}
	return top, rows.Err()
}

// ReviewEmotionExport is the joined shape written to CSV exports.
type ReviewEmotionExport struct {
	ReviewID   int64
	Rating     float64
	Title      string
	ReviewedAt string
	Emotion    string
	Score      float64
	Polarity   string
}

func (q *Queries) GetReviewEmotionExport(ctx context.Context, parentASIN string) ([]ReviewEmotionExport, error) {
	const query = `
		SELECT r.id, r.rating, r.title, to_char(r.reviewed_at, 'YYYY-MM-DD'),
		       COALESCE(e.emotion, ''), COALESCE(e.score, 0), COALESCE(e.polarity, '')
		FROM reviews r
		LEFT JOIN review_emotions e ON e.review_id = r.id
		WHERE r.parent_asin = $1
		ORDER BY r.reviewed_at, r.id`

	rows, err := q.db.Query(ctx, query, parentASIN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ReviewEmotionExport, 0)
	for rows.Next() {
		var r ReviewEmotionExport
		if err := rows.Scan(&r.ReviewID, &r.Rating, &r.Title, &r.ReviewedAt, &r.Emotion, &r.Score, &r.Polarity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
