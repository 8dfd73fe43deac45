package db

import (
	"context"
	"fmt"
)

// Sentiment bucketing by star rating: below 3 negative, below 4 neutral,
// the rest positive. The same thresholds are applied everywhere a review
// is bucketed, in SQL and in the emotion pipeline.
const sentimentBuckets = `
	COUNT(*) FILTER (WHERE rating >= 4)                 AS positive,
	COUNT(*) FILTER (WHERE rating >= 3 AND rating < 4)  AS neutral,
	COUNT(*) FILTER (WHERE rating < 3)                  AS negative`

type SentimentSummary struct {
	TotalReviews int64 `json:"total_reviews"`
	Positive     int64 `json:"positive"`
	Neutral      int64 `json:"neutral"`
	Negative     int64 `json:"negative"`
}

func (q *Queries) GetSentimentSummary(ctx context.Context, parentASIN string) (SentimentSummary, error) {
	query := `
		SELECT COUNT(*),` + sentimentBuckets + `
		FROM reviews
		WHERE parent_asin = $1 AND rating >= 1 AND rating <= 5`

	var s SentimentSummary
	err := q.db.QueryRow(ctx, query, parentASIN).Scan(
		&s.TotalReviews, &s.Positive, &s.Neutral, &s.Negative,
	)
	return s, err
}

// SentimentTrendRow is one month of bucketed review counts.
type SentimentTrendRow struct {
	Month    string `json:"month"` // YYYY-MM
	Total    int64  `json:"total"`
	Positive int64  `json:"positive"`
	Neutral  int64  `json:"neutral"`
	Negative int64  `json:"negative"`
}

type SentimentTrendParams struct {
	ParentASIN string
	StartDate  string // YYYY-MM-DD inclusive
	EndDate    string // YYYY-MM-DD inclusive
}

func (q *Queries) GetSentimentTrend(ctx context.Context, params SentimentTrendParams) ([]SentimentTrendRow, error) {
	query := `
		SELECT to_char(reviewed_at, 'YYYY-MM') AS month, COUNT(*),` + sentimentBuckets + `
		FROM reviews
		WHERE parent_asin = $1
		  AND rating >= 1 AND rating <= 5
		  AND reviewed_at >= $2::date
		  AND reviewed_at < $3::date + interval '1 day'
		GROUP BY month
		ORDER BY month`

	rows, err := q.db.Query(ctx, query, params.ParentASIN, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trend := make([]SentimentTrendRow, 0)
	for rows.Next() {
		var r SentimentTrendRow
		if err := rows.Scan(&r.Month, &r.Total, &r.Positive, &r.Neutral, &r.Negative); err != nil {
			return nil, err
		}
		trend = append(trend, r)
	}
	return trend, rows.Err()
}

// DistributionPeriod selects the grouping unit for sentiment distributions.
type DistributionPeriod string

const (
	PeriodYear      DistributionPeriod = "year"
	PeriodMonth     DistributionPeriod = "month"
	PeriodDayOfWeek DistributionPeriod = "day_of_week"
)

// SentimentDistributionRow is one period bucket of review counts. Period
// is a year for PeriodYear, 1-12 for PeriodMonth and 0-6 (Sunday first)
// for PeriodDayOfWeek.
type SentimentDistributionRow struct {
	Period   int32 `json:"period"`
	Total    int64 `json:"total"`
	Positive int64 `json:"positive"`
	Neutral  int64 `json:"neutral"`
	Negative int64 `json:"negative"`
}

type SentimentDistributionParams struct {
	ParentASIN string
	Period     DistributionPeriod
	StartDate  string // optional, YYYY-MM-DD
	EndDate    string // optional, YYYY-MM-DD
}

func (q *Queries) GetSentimentDistribution(ctx context.Context, params SentimentDistributionParams) ([]SentimentDistributionRow, error) {
	var unit string
	switch params.Period {
	case PeriodYear:
		unit = "YEAR"
	case PeriodMonth:
		unit = "MONTH"
	case PeriodDayOfWeek:
		unit = "DOW"
	default:
		return nil, fmt.Errorf("invalid distribution period: %s", params.Period)
	}

	query := `
		SELECT EXTRACT(` + unit + ` FROM reviewed_at)::int AS period, COUNT(*),` + sentimentBuckets + `
		FROM reviews
		WHERE parent_asin = $1
		  AND rating >= 1 AND rating <= 5
		  AND ($2 = '' OR reviewed_at >= $2::date)
		  AND ($3 = '' OR reviewed_at < $3::date + interval '1 day')
		GROUP BY period
		ORDER BY period`

	rows, err := q.db.Query(ctx, query, params.ParentASIN, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := make([]SentimentDistributionRow, 0)
	for rows.Next() {
		var r SentimentDistributionRow
		if err := rows.Scan(&r.Period, &r.Total, &r.Positive, &r.Neutral, &r.Negative); err != nil {
			return nil, err
		}
		dist = append(dist, r)
	}
	return dist, rows.Err()
}
