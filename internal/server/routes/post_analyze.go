package routes

import (
	"encoding/json"
	"net/http"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/queue"
	"github.com/reviewscope/backend/internal/server/middleware"
	"github.com/reviewscope/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

func AnalyzeProductHandler(c echo.Context) error {
	type analyzeParams struct {
		ParentASIN string `param:"parent_asin" validate:"required"`
	}

	type analyzeResponse struct {
		Message string          `json:"message"`
		Job     *db.AnalysisJob `json:"job,omitempty"`
	}

	params := new(analyzeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	tx, err := conn.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}
	defer tx.Rollback(ctx)
	q := db.New(conn)
	qtx := q.WithTx(tx)

	if _, err := qtx.GetProduct(ctx, params.ParentASIN); err != nil {
		return c.JSON(http.StatusNotFound, analyzeResponse{
			Message: "Product not found",
		})
	}

	active, err := qtx.HasActiveAnalysisJob(ctx, params.ParentASIN)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}
	if active {
		return c.JSON(http.StatusConflict, analyzeResponse{
			Message: "An analysis is already running for this product",
		})
	}

	publicID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}

	job, err := qtx.CreateAnalysisJob(ctx, publicID, params.ParentASIN)
	if err != nil {
		logger.Error("Failed to create analysis job", "err", err)
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}

	msg, err := json.Marshal(queue.AnalyzeJobMsg{
		JobID:      job.PublicID,
		ParentASIN: params.ParentASIN,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.AnalyzeQueue, msg); err != nil {
		logger.Error("Failed to publish to analyze_queue", "err", err)
		if failErr := q.FailAnalysisJob(ctx, job.PublicID, "failed to enqueue job"); failErr != nil {
			logger.Error("Failed to mark analysis job as failed", "err", failErr)
		}
		return c.JSON(http.StatusInternalServerError, analyzeResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, analyzeResponse{
		Message: "Analysis started",
		Job:     &job,
	})
}
