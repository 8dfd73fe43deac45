package routes

import (
	"net/http"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server/middleware"
	"github.com/reviewscope/backend/pkg/emotion"
	"github.com/reviewscope/backend/pkg/flowgraph"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetFlowGraphHandler(c echo.Context) error {
	type getFlowGraphParams struct {
		ParentASIN string `param:"parent_asin" validate:"required"`
	}

	type coloredNode struct {
		flowgraph.Node
		Color string `json:"color"`
	}

	type coloredLink struct {
		flowgraph.Link
		Color string `json:"color"`
	}

	type getFlowGraphResponse struct {
		Nodes []coloredNode `json:"nodes"`
		Links []coloredLink `json:"links"`
	}

	params := new(getFlowGraphParams)
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

	counts, err := q.GetEmotionCounts(ctx, params.ParentASIN)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	stats := flowgraph.AggregateStats{
		TotalReviews:           int(summary.TotalReviews),
		PositiveSentimentCount: int(summary.Positive),
		NeutralSentimentCount:  int(summary.Neutral),
		NegativeSentimentCount: int(summary.Negative),
		PositiveEmotions:       make(map[string]int),
		NegativeEmotions:       make(map[string]int),
	}
	for _, row := range counts {
		switch emotion.Polarity(row.Polarity) {
		case emotion.PolarityPositive:
			stats.PositiveEmotions[row.Emotion] = int(row.Count)
		case emotion.PolarityNegative:
			stats.NegativeEmotions[row.Emotion] = int(row.Count)
		}
	}

	graph := flowgraph.Build(&stats)

	nodes := make([]coloredNode, 0, len(graph.Nodes))
	for _, n := range graph.Nodes {
		nodes = append(nodes, coloredNode{
			Node:  n,
			Color: flowgraph.ColorOf(n.Category),
		})
	}
	links := make([]coloredLink, 0, len(graph.Links))
	for _, l := range graph.Links {
		links = append(links, coloredLink{
			Link:  l,
			Color: flowgraph.LinkColor(l, graph.Nodes),
		})
	}

	return c.JSON(http.StatusOK, getFlowGraphResponse{
		Nodes: nodes,
		Links: links,
	})
}
