package routes

import (
	"net/http"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server/middleware"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetReviewsHandler(c echo.Context) error {
	type getReviewsParams struct {
		ParentASIN string  `param:"parent_asin" validate:"required"`
		MinRating  float64 `query:"min_rating"`
		MaxRating  float64 `query:"max_rating"`
		StartDate  string  `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
		EndDate    string  `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
		Limit      int32   `query:"limit"`
		Offset     int32   `query:"offset"`
	}

	type getReviewsResponse struct {
		Total   int64       `json:"total"`
		Reviews []db.Review `json:"reviews"`
	}

	params := new(getReviewsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.MinRating <= 0 {
		params.MinRating = 1
	}
	if params.MaxRating <= 0 || params.MaxRating > 5 {
		params.MaxRating = 5
	}
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	total, err := q.CountReviews(ctx, params.ParentASIN)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	reviews, err := q.ListReviews(ctx, db.ListReviewsParams{
		ParentASIN: params.ParentASIN,
		MinRating:  params.MinRating,
		MaxRating:  params.MaxRating,
		StartDate:  params.StartDate,
		EndDate:    params.EndDate,
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, getReviewsResponse{
		Total:   total,
		Reviews: reviews,
	})
}
