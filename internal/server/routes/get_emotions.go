package routes

import (
	"net/http"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server/middleware"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetEmotionsHandler(c echo.Context) error {
	type getEmotionsParams struct {
		ParentASIN string `param:"parent_asin" validate:"required"`
		Top        int32  `query:"top"`
	}

	type getEmotionsResponse struct {
		Counts []db.EmotionCountRow `json:"counts"`
		Top    []db.TopEmotionRow   `json:"top"`
	}

	params := new(getEmotionsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.Top <= 0 || params.Top > 28 {
		params.Top = 5
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	counts, err := q.GetEmotionCounts(ctx, params.ParentASIN)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	top, err := q.GetTopEmotions(ctx, params.ParentASIN, params.Top)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, getEmotionsResponse{
		Counts: counts,
		Top:    top,
	})
}
