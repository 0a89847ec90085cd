package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sushilduseja/divine-vision/corpus"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store *corpus.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *corpus.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status string `json:"status"`
	Verses int    `json:"verses"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	verses := 0
	if h.store != nil {
		verses = h.store.Len()
	}

	status := "healthy"
	code := http.StatusOK
	if verses == 0 {
		// The engine cannot answer anything without a corpus.
		status = "no_corpus"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, HealthResponse{Status: status, Verses: verses})
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
}
