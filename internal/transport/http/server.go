// Package http provides the HTTP server implementation for the orchestrator.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shopmate-io/orchestrator/internal/agent"
	"github.com/shopmate-io/orchestrator/internal/store"
)

// NewServer creates and configures the HTTP server. It carries the chat
// endpoints plus the review and session management surface.
func NewServer(orch *agent.Orchestrator, st store.Store) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h := NewHandler(orch, st)
	h.RegisterRoutes(e)

	return e
}
