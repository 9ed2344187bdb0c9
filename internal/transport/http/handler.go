package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/shopmate-io/orchestrator/internal/agent"
	"github.com/shopmate-io/orchestrator/internal/store"
)

// Handler handles HTTP requests.
type Handler struct {
	orchestrator *agent.Orchestrator
	store        store.Store
	upgrader     websocket.Upgrader
}

// NewHandler creates a new handler.
func NewHandler(orch *agent.Orchestrator, st store.Store) *Handler {
	return &Handler{
		orchestrator: orch,
		store:        st,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Chat API
	e.POST("/v1/chat/:session_id", h.Chat)
	e.GET("/ws/chat/:session_id", h.ChatWS)

	// Review API
	e.GET("/v1/reviews/pending", h.ListPendingReviews)
	e.POST("/v1/reviews/:flag_id", h.ReviewFlag)
	e.POST("/v1/sessions/:session_id/unlock", h.UnlockSession)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
