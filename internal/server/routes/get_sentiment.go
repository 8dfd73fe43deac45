package routes

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server/middleware"
	"github.com/reviewscope/backend/internal/server/util"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetSentimentSummaryHandler(c echo.Context) error {
	type getSummaryParams struct {
		ParentASIN string `param:"parent_asin" validate:"required"`
	}

	type getSummaryResponse struct {
		db.SentimentSummary
		PositivePct float64 `json:"positive_pct"`
		NeutralPct  float64 `json:"neutral_pct"`
		NegativePct float64 `json:"negative_pct"`
	}

	params := new(getSummaryParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	summary, err := q.GetSentimentSummary(ctx, params.ParentASIN)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, getSummaryResponse{
		SentimentSummary: summary,
		PositivePct:      util.Percentage(summary.Positive, summary.TotalReviews),
		NeutralPct:       util.Percentage(summary.Neutral, summary.TotalReviews),
		NegativePct:      util.Percentage(summary.Negative, summary.TotalReviews),
	})
}

func GetSentimentTrendHandler(c echo.Context) error {
	type getTrendParams struct {
		ParentASIN string `param:"parent_asin" validate:"required"`
		StartDate  string `query:"startDate" validate:"required,datetime=2006-01-02"`
		EndDate    string `query:"endDate" validate:"required,datetime=2006-01-02"`
	}

	type trendPoint struct {
		db.SentimentTrendRow
		PositivePct float64 `json:"positive_pct"`
		NeutralPct  float64 `json:"neutral_pct"`
		NegativePct float64 `json:"negative_pct"`
	}

	type trendSummary struct {
		TotalReviews int64   `json:"total_reviews"`
		PositivePct  float64 `json:"positive_pct"`
		NeutralPct   float64 `json:"neutral_pct"`
		NegativePct  float64 `json:"negative_pct"`
	}

	type getTrendResponse struct {
		Summary trendSummary `json:"summary"`
		Months  []trendPoint `json:"months"`
	}

	params := new(getTrendParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	rows, err := q.GetSentimentTrend(ctx, db.SentimentTrendParams{
		ParentASIN: params.ParentASIN,
		StartDate:  params.StartDate,
		EndDate:    params.EndDate,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	var total, positive, neutral, negative int64
	trend := make([]trendPoint, 0, len(rows))
	for _, r := range rows {
		total += r.Total
		positive += r.Positive
		neutral += r.Neutral
		negative += r.Negative
		trend = append(trend, trendPoint{
			SentimentTrendRow: r,
			PositivePct:       util.Percentage(r.Positive, r.Total),
			NeutralPct:        util.Percentage(r.Neutral, r.Total),
			NegativePct:       util.Percentage(r.Negative, r.Total),
		})
	}

	// Summary percentages weigh each month by its review count.
	return c.JSON(http.StatusOK, getTrendResponse{
		Summary: trendSummary{
			TotalReviews: total,
			PositivePct:  util.Percentage(positive, total),
			NeutralPct:   util.Percentage(neutral, total),
			NegativePct:  util.Percentage(negative, total),
		},
		Months: trend,
	})
}

func GetSentimentDistributionHandler(c echo.Context) error {
	type getDistributionParams struct {
		ParentASIN string `param:"parent_asin" validate:"required"`
		Period     string `query:"period" validate:"required,oneof=year month day_of_week"`
		StartDate  string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
		EndDate    string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	}

	type distributionBucket struct {
		Label       string  `json:"label"`
		Total       int64   `json:"total"`
		Positive    int64   `json:"positive"`
		Neutral     int64   `json:"neutral"`
		Negative    int64   `json:"negative"`
		PositivePct float64 `json:"positive_pct"`
		NeutralPct  float64 `json:"neutral_pct"`
		NegativePct float64 `json:"negative_pct"`
	}

	params := new(getDistributionParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	period := db.DistributionPeriod(params.Period)
	rows, err := q.GetSentimentDistribution(ctx, db.SentimentDistributionParams{
		ParentASIN: params.ParentASIN,
		Period:     period,
		StartDate:  params.StartDate,
		EndDate:    params.EndDate,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	switch period {
	case db.PeriodMonth:
		sort.Slice(rows, func(i, j int) bool {
			return util.MonthOrder(rows[i].Period) < util.MonthOrder(rows[j].Period)
		})
	case db.PeriodDayOfWeek:
		sort.Slice(rows, func(i, j int) bool {
			return util.DayOfWeekOrder(rows[i].Period) < util.DayOfWeekOrder(rows[j].Period)
		})
	}

	buckets := make([]distributionBucket, 0, len(rows))
	for _, r := range rows {
		buckets = append(buckets, distributionBucket{
			Label:       distributionLabel(period, r.Period),
			Total:       r.Total,
			Positive:    r.Positive,
			Neutral:     r.Neutral,
			Negative:    r.Negative,
			PositivePct: util.Percentage(r.Positive, r.Total),
			NeutralPct:  util.Percentage(r.Neutral, r.Total),
			NegativePct: util.Percentage(r.Negative, r.Total),
		})
	}

	return c.JSON(http.StatusOK, buckets)
}

func distributionLabel(period db.DistributionPeriod, value int32) string {
	switch period {
	case db.PeriodMonth:
		return util.MonthName(value)
	case db.PeriodDayOfWeek:
		return util.DayOfWeekName(value)
	default:
		return strconv.Itoa(int(value))
	}
}
