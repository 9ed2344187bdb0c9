package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopmate-io/orchestrator/internal/domain"
)

// Chat processes one user message for a session.
// POST /v1/chat/:session_id
func (h *Handler) Chat(c echo.Context) error {
	sessionID := c.Param("session_id")

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := validateChatRequest(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()

	resp, err := h.orchestrator.ExecuteTurn(ctx, sessionID, &req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

func validateChatRequest(req *domain.ChatRequest) error {
	if req.Message == "" && req.ConfirmActionID == "" {
		return errEmptyMessage
	}
	if req.Store == "" {
		return errMissingStore
	}
	if req.UserID == "" {
		return errMissingUserID
	}
	return nil
}
