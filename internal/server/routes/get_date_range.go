package routes

import (
	"net/http"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server/middleware"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetDateRangeHandler(c echo.Context) error {
	type getDateRangeParams struct {
		ParentASIN string `param:"parent_asin" validate:"required"`
	}

	params := new(getDateRangeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	dateRange, err := q.GetReviewDateRange(ctx, params.ParentASIN)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No reviews found"})
	}

	return c.JSON(http.StatusOK, dateRange)
}
