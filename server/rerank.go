package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sushilduseja/divine-vision/core"
	"github.com/sushilduseja/divine-vision/search"
)

// RerankRequest carries a query and a previously retrieved result list
// to reorder. The set of results never changes, only the order.
type RerankRequest struct {
	Query   string               `json:"query"`
	Results []*core.SearchResult `json:"results"`
}

// RerankResponse mirrors SearchResponse. Degraded is set when the
// model call failed and the input order was returned unchanged.
type RerankResponse struct {
	Results  []*core.SearchResult `json:"results"`
	Count    int                  `json:"count"`
	Degraded bool                 `json:"degraded"`
}

// RerankHandler handles the standalone re-ranking endpoint
type RerankHandler struct {
	reranker *search.Reranker
}

// NewRerankHandler creates a new rerank handler
func NewRerankHandler(reranker *search.Reranker) *RerankHandler {
	return &RerankHandler{reranker: reranker}
}

// Rerank handles POST /rerank - reorder results for a query
func (h *RerankHandler) Rerank(c echo.Context) error {
	ctx := c.Request().Context()

	var req RerankRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query is required")
	}

	results, err := h.reranker.Rerank(ctx, req.Query, req.Results)
	return c.JSON(http.StatusOK, RerankResponse{
		Results:  results,
		Count:    len(results),
		Degraded: err != nil,
	})
}

// RegisterRoutes registers rerank routes
func (h *RerankHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/rerank", h.Rerank)
}
