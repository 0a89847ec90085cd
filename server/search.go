package server

import (
	"errors"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/sushilduseja/divine-vision/core"
	"github.com/sushilduseja/divine-vision/search"
)

// SearchRequest is the public query surface. Limit and Weights are
// pointers so an omitted field can be told apart from an explicit zero:
// a missing limit gets the default, an explicit 0 returns no results.
type SearchRequest struct {
	Query   string        `json:"query"`
	Source  string        `json:"source,omitempty"`
	Limit   *int          `json:"limit,omitempty"`
	Weights *core.Weights `json:"weights,omitempty"`
}

// SearchResponse carries the ranked results. Degraded is set when an
// optional signal (semantic scorer, re-ranker) failed and the response
// fell back to the remaining signals.
type SearchResponse struct {
	Results  []*core.SearchResult `json:"results"`
	Count    int                  `json:"count"`
	Degraded bool                 `json:"degraded"`
}

// SearchHandler handles search endpoints
type SearchHandler struct {
	searcher *search.Searcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher *search.Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles POST /search - hybrid verse search
func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cfg := core.SearchConfig{
		Query:  req.Query,
		Source: req.Source,
		Limit:  core.DefaultLimit,
	}
	if req.Limit != nil {
		cfg.Limit = *req.Limit
	}
	if req.Weights != nil {
		cfg.Weights = *req.Weights
	}

	monitor := &degradationMonitor{}
	results, err := h.searcher.SearchWithMonitor(ctx, cfg, monitor)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrEmptyQuery):
			return echo.NewHTTPError(http.StatusBadRequest, "Query is required")
		case errors.Is(err, search.ErrInvalidLimit):
			return echo.NewHTTPError(http.StatusBadRequest, "Limit must not be negative")
		case errors.Is(err, core.ErrInvalidWeights):
			return echo.NewHTTPError(http.StatusBadRequest, "Weights must not be negative")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed: "+err.Error())
	}

	if results == nil {
		results = []*core.SearchResult{}
	}
	return c.JSON(http.StatusOK, SearchResponse{
		Results:  results,
		Count:    len(results),
		Degraded: monitor.degraded(),
	})
}

// RegisterRoutes registers search routes
func (h *SearchHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/search", h.Search)
}

// degradationMonitor records whether any optional signal failed during
// one search call.
type degradationMonitor struct {
	mu       sync.Mutex
	fallback bool
}

var _ search.SearchMonitor = (*degradationMonitor)(nil)

func (m *degradationMonitor) Start(_ string)                            {}
func (m *degradationMonitor) AfterKeywordSearch(_ []search.RankedItem)  {}
func (m *degradationMonitor) AfterConceptSearch(_ []search.RankedItem)  {}
func (m *degradationMonitor) AfterSemanticSearch(_ []search.RankedItem) {}
func (m *degradationMonitor) AfterFusion(_ []*core.SearchResult)        {}
func (m *degradationMonitor) Finish(_ []*core.SearchResult)             {}

func (m *degradationMonitor) SemanticUnavailable(_ error) {
	m.mu.Lock()
	m.fallback = true
	m.mu.Unlock()
}

func (m *degradationMonitor) RerankFailed(_ error) {
	m.mu.Lock()
	m.fallback = true
	m.mu.Unlock()
}

func (m *degradationMonitor) degraded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fallback
}
