package routes

import (
	"net/http"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server/middleware"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetAnalysisHandler(c echo.Context) error {
	type getAnalysisParams struct {
		ID string `param:"id" validate:"required"`
	}

	params := new(getAnalysisParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	job, err := q.GetAnalysisJobByPublicID(ctx, params.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Analysis job not found"})
	}

	return c.JSON(http.StatusOK, job)
}
