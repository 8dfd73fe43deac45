package routes

import (
	"net/http"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server/middleware"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetSimilarReviewsHandler(c echo.Context) error {
	type getSimilarParams struct {
		ID    int64 `param:"id" validate:"required,numeric"`
		Limit int32 `query:"limit"`
	}

	params := new(getSimilarParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.Limit <= 0 || params.Limit > 50 {
		params.Limit = 10
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	if _, err := q.GetReview(ctx, params.ID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Review not found"})
	}

	similar, err := q.GetSimilarReviews(ctx, params.ID, params.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, similar)
}
