package routes

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server/middleware"
	"github.com/reviewscope/backend/internal/storage"
	"github.com/reviewscope/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ExportReviewEmotionsHandler writes the joined review/emotion rows of a
// product to a CSV file in object storage and returns a presigned link.
func ExportReviewEmotionsHandler(c echo.Context) error {
	type exportParams struct {
		ParentASIN string `param:"parent_asin" validate:"required"`
	}

	type exportResponse struct {
		Message string `json:"message"`
		URL     string `json:"url,omitempty"`
	}

	params := new(exportParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	if _, err := q.GetProduct(ctx, params.ParentASIN); err != nil {
		return c.JSON(http.StatusNotFound, exportResponse{
			Message: "Product not found",
		})
	}

	rows, err := q.GetReviewEmotionExport(ctx, params.ParentASIN)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"review_id", "rating", "title", "reviewed_at", "emotion", "score", "polarity"}
	if err := w.Write(header); err != nil {
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.ReviewID, 10),
			strconv.FormatFloat(r.Rating, 'f', 1, 64),
			r.Title,
			r.ReviewedAt,
			r.Emotion,
			strconv.FormatFloat(r.Score, 'f', 4, 64),
			r.Polarity,
		}
		if err := w.Write(record); err != nil {
			return c.JSON(http.StatusInternalServerError, exportResponse{
				Message: "Internal server error",
			})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	exportID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	s3Client := c.(*middleware.AppContext).App.S3
	name := fmt.Sprintf("%s_%s.csv", params.ParentASIN, exportID)
	key, err := storage.PutExport(ctx, s3Client, name, buf.Bytes(), "text/csv")
	if err != nil {
		logger.Error("Failed to upload export", "err", err)
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	url, err := storage.GenerateDownloadLink(ctx, s3Client, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, exportResponse{
		Message: "Export created",
		URL:     url,
	})
}
