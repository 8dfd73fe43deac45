package server

import (
	"github.com/reviewscope/backend/internal/server/middleware"
	"github.com/reviewscope/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Product routes
	apiRoutes.GET("/products", routes.GetProductsHandler)
	apiRoutes.GET("/products/:parent_asin", routes.GetProductHandler)
	apiRoutes.GET("/products/:parent_asin/reviews", routes.GetReviewsHandler, middleware.RequirePermission("review.view"))
	apiRoutes.GET("/products/:parent_asin/date-range", routes.GetDateRangeHandler)

	// Sentiment routes
	apiRoutes.GET("/products/:parent_asin/sentiment/summary", routes.GetSentimentSummaryHandler)
	apiRoutes.GET("/products/:parent_asin/sentiment/trend", routes.GetSentimentTrendHandler)
	apiRoutes.GET("/products/:parent_asin/sentiment/distribution", routes.GetSentimentDistributionHandler)

	// Emotion routes
	apiRoutes.GET("/products/:parent_asin/emotions", routes.GetEmotionsHandler)
	apiRoutes.GET("/products/:parent_asin/flowgraph", routes.GetFlowGraphHandler)

	// Analysis routes
	apiRoutes.POST("/products/:parent_asin/analyze", routes.AnalyzeProductHandler, middleware.RequirePermission("analysis.run"))
	apiRoutes.GET("/analysis/:id", routes.GetAnalysisHandler, middleware.RequirePermission("analysis.view"))

	// Review similarity routes
	apiRoutes.GET("/reviews/:id/similar", routes.GetSimilarReviewsHandler, middleware.RequirePermission("review.view"))

	// Export routes
	apiRoutes.POST("/products/:parent_asin/export", routes.ExportReviewEmotionsHandler, middleware.RequirePermission("export.create"))
}
