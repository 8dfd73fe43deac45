package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/util"
	"github.com/reviewscope/backend/pkg/emotion"
	"github.com/reviewscope/backend/pkg/leaselock"
	"github.com/reviewscope/backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// progressEvery controls how often job progress is flushed to the database
// while reviews are being analyzed.
const progressEvery = 10

// ProcessAnalyzeMessage runs emotion analysis for every review of a product.
// Each review is cleaned, classified, and embedded; the dominant emotion for
// the review's rating polarity is stored alongside the embedding. Per-review
// inference failures are counted but do not abort the job.
func ProcessAnalyzeMessage(
	ctx context.Context,
	classifier emotion.Classifier,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(AnalyzeJobMsg)
	if err = json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}

	// One analysis per product at a time, across all workers. A busy lease
	// means a redelivered message raced a running analysis; let the retry
	// queue bring it back.
	locks := leaselock.New(conn)
	return locks.WithLease(ctx, "analyze:"+data.ParentASIN, leaselock.Options{TTL: 5 * time.Minute}, func(ctx context.Context) error {
		return processAnalyzeJob(ctx, classifier, conn, data)
	})
}

func processAnalyzeJob(
	ctx context.Context,
	classifier emotion.Classifier,
	conn *pgxpool.Pool,
	data *AnalyzeJobMsg,
) (err error) {
	q := db.New(conn)
	jobClaimed := false
	defer func() {
		if err == nil || !jobClaimed {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if failErr := q.FailAnalysisJob(updateCtx, data.JobID, err.Error()); failErr != nil {
			logger.Warn("[Queue] Failed to mark analysis job as failed", "job_id", data.JobID, "parent_asin", data.ParentASIN, "err", failErr)
		}
	}()

	reviews, err := q.GetReviewsForAnalysis(ctx, data.ParentASIN)
	if err != nil {
		return err
	}

	job, err := q.ClaimAnalysisJob(ctx, data.JobID, int32(len(reviews)))
	if err != nil {
		return fmt.Errorf("claim analysis job %s: %w", data.JobID, err)
	}
	jobClaimed = true
	logger.Info("[Queue] Analysis job claimed", "job_id", job.PublicID, "parent_asin", data.ParentASIN, "reviews", len(reviews))

	maxTries := int(util.GetEnvNumeric("ANALYSIS_MAX_TRIES", 3))
	concurrency := int(util.GetEnvNumeric("ANALYSIS_CONCURRENCY", 4))

	var processed, failed atomic.Int32

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, review := range reviews {
		review := review
		g.Go(func() error {
			if analyzeErr := analyzeReview(gCtx, q, classifier, review, maxTries); analyzeErr != nil {
				logger.Warn("[Queue] Review analysis failed", "job_id", job.PublicID, "review_id", review.ID, "err", analyzeErr)
				failed.Add(1)
			}

			done := processed.Add(1)
			if done%progressEvery == 0 {
				if progressErr := q.UpdateAnalysisJobProgress(gCtx, job.PublicID, done, failed.Load()); progressErr != nil {
					logger.Warn("[Queue] Failed to update job progress", "job_id", job.PublicID, "err", progressErr)
				}
			}
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	if err = q.UpdateAnalysisJobProgress(ctx, job.PublicID, processed.Load(), failed.Load()); err != nil {
		return err
	}
	if err = q.RefreshProductStats(ctx, data.ParentASIN); err != nil {
		return err
	}
	if err = q.CompleteAnalysisJob(ctx, job.PublicID); err != nil {
		return err
	}

	logger.Info("[Queue] Analysis job completed", "job_id", job.PublicID, "parent_asin", data.ParentASIN, "processed", processed.Load(), "failed", failed.Load())
	return nil
}

func analyzeReview(
	ctx context.Context,
	q *db.Queries,
	classifier emotion.Classifier,
	review db.Review,
	maxTries int,
) error {
	text := util.CleanReviewText(review.Title + " " + review.Body)
	if text == "" {
		return q.DeleteReviewEmotion(ctx, review.ID)
	}
	text = util.SanitizePostgresText(text)

	scores, err := util.RetryWithContext(ctx, maxTries, func(ctx context.Context) ([]emotion.Score, error) {
		return classifier.ClassifyEmotions(ctx, text)
	})
	if err != nil {
		return fmt.Errorf("classify review %d: %w", review.ID, err)
	}

	embedding, err := util.RetryWithContext(ctx, maxTries, func(ctx context.Context) ([]float32, error) {
		return classifier.GenerateEmbedding(ctx, text)
	})
	if err != nil {
		return fmt.Errorf("embed review %d: %w", review.ID, err)
	}
	if err := q.UpdateReviewEmbedding(ctx, review.ID, embedding); err != nil {
		return err
	}

	polarity := emotion.SentimentFromRating(review.Rating)
	label, ok := emotion.Dominant(scores, polarity)
	if !ok {
		// Neutral reviews and reviews below the detection threshold carry
		// no dominant emotion.
		return q.DeleteReviewEmotion(ctx, review.ID)
	}

	var score float64
	for _, s := range scores {
		if s.Label == label {
			score = s.Score
			break
		}
	}

	return q.UpsertReviewEmotion(ctx, review.ID, label, score, string(polarity))
}
