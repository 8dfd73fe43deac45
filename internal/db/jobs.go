package db

import (
	"context"
	"time"
)

// Analysis job lifecycle: pending -> running -> completed | failed.
// Jobs stuck in running past the stale cutoff are requeued by the worker
// at startup.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

type AnalysisJob struct {
	ID             int64     `json:"-"`
	PublicID       string    `json:"id"`
	ParentASIN     string    `json:"parent_asin"`
	Status         string    `json:"status"`
	TotalReviews   int32     `json:"total_reviews"`
	ProcessedCount int32     `json:"processed_count"`
	FailedCount    int32     `json:"failed_count"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const jobColumns = `
	id, public_id, parent_asin, status, total_reviews,
	processed_count, failed_count, COALESCE(error_message, ''), created_at, updated_at`

func (q *Queries) CreateAnalysisJob(ctx context.Context, publicID, parentASIN string) (AnalysisJob, error) {
	query := `
		INSERT INTO analysis_jobs (public_id, parent_asin, status)
		VALUES ($1, $2, 'pending')
		RETURNING` + jobColumns

	return q.scanJobRow(ctx, query, publicID, parentASIN)
}

func (q *Queries) GetAnalysisJobByPublicID(ctx context.Context, publicID string) (AnalysisJob, error) {
	query := `SELECT` + jobColumns + ` FROM analysis_jobs WHERE public_id = $1`
	return q.scanJobRow(ctx, query, publicID)
}

// HasActiveAnalysisJob reports whether a pending or running job already
// exists for a product, so the API can refuse duplicate enqueues.
func (q *Queries) HasActiveAnalysisJob(ctx context.Context, parentASIN string) (bool, error) {
	var count int64
	err := q.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM analysis_jobs
		 WHERE parent_asin = $1 AND status IN ('pending', 'running')`,
		parentASIN,
	).Scan(&count)
	return count > 0, err
}

// ClaimAnalysisJob transitions a pending job to running and records the
// review population size. Returns the claimed job.
func (q *Queries) ClaimAnalysisJob(ctx context.Context, publicID string, totalReviews int32) (AnalysisJob, error) {
	query := `
		UPDATE analysis_jobs
		SET status = 'running', total_reviews = $2, updated_at = now()
		WHERE public_id = $1 AND status = 'pending'
		RETURNING` + jobColumns

	return q.scanJobRow(ctx, query, publicID, totalReviews)
}

func (q *Queries) UpdateAnalysisJobProgress(ctx context.Context, publicID string, processed, failed int32) error {
	_, err := q.db.Exec(ctx,
		`UPDATE analysis_jobs
		 SET processed_count = $2, failed_count = $3, updated_at = now()
		 WHERE public_id = $1`,
		publicID, processed, failed,
	)
	return err
}

func (q *Queries) CompleteAnalysisJob(ctx context.Context, publicID string) error {
	_, err := q.db.Exec(ctx,
		`UPDATE analysis_jobs SET status = 'completed', updated_at = now()
		 WHERE public_id = $1`,
		publicID,
	)
	return err
}

func (q *Queries) FailAnalysisJob(ctx context.Context, publicID, errorMessage string) error {
	_, err := q.db.Exec(ctx,
		`UPDATE analysis_jobs
		 SET status = 'failed', error_message = $2, updated_at = now()
		 WHERE public_id = $1`,
		publicID, errorMessage,
	)
	return err
}

// GetStaleAnalysisJobs returns jobs that claim to be running but have not
// progressed within the cutoff, typically after a worker crash.
func (q *Queries) GetStaleAnalysisJobs(ctx context.Context, cutoff time.Duration) ([]AnalysisJob, error) {
	query := `
		SELECT` + jobColumns + `
		FROM analysis_jobs
		WHERE status = 'running' AND updated_at < now() - $1::interval`

	rows, err := q.db.Query(ctx, query, cutoff.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]AnalysisJob, 0)
	for rows.Next() {
		var j AnalysisJob
		if err := rows.Scan(
			&j.ID, &j.PublicID, &j.ParentASIN, &j.Status, &j.TotalReviews,
			&j.ProcessedCount, &j.FailedCount, &j.ErrorMessage, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// ResetAnalysisJobToPending reverts a stale running job so it can be
// requeued.
func (q *Queries) ResetAnalysisJobToPending(ctx context.Context, publicID string) error {
	_, err := q.db.Exec(ctx,
		`UPDATE analysis_jobs
		 SET status = 'pending', processed_count = 0, failed_count = 0, updated_at = now()
		 WHERE public_id = $1 AND status = 'running'`,
		publicID,
	)
	return err
}

func (q *Queries) scanJobRow(ctx context.Context, query string, args ...any) (AnalysisJob, error) {
	var j AnalysisJob
	err := q.db.QueryRow(ctx, query, args...).Scan(
		&j.ID, &j.PublicID, &j.ParentASIN, &j.Status, &j.TotalReviews,
		&j.ProcessedCount, &j.FailedCount, &j.ErrorMessage, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}
