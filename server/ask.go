package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sushilduseja/divine-vision/rag"
	"github.com/sushilduseja/divine-vision/search"
)

// AskRequest is a natural-language question for the grounded answerer.
type AskRequest struct {
	Question string `json:"question"`
	Mode     string `json:"mode,omitempty"`
}

// AskHandler handles question-answering endpoints
type AskHandler struct {
	answerer *rag.Answerer
}

// NewAskHandler creates a new ask handler
func NewAskHandler(answerer *rag.Answerer) *AskHandler {
	return &AskHandler{answerer: answerer}
}

// Ask handles POST /ask - grounded question answering
func (h *AskHandler) Ask(c echo.Context) error {
	ctx := c.Request().Context()

	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	answer, err := h.answerer.Ask(ctx, req.Question, rag.Mode(req.Mode))
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			return echo.NewHTTPError(http.StatusBadRequest, "Question is required")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Answering failed: "+err.Error())
	}

	return c.JSON(http.StatusOK, answer)
}

// RegisterRoutes registers question-answering routes
func (h *AskHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/ask", h.Ask)
}
