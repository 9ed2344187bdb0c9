package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListPendingReviews returns unreviewed session flags.
// GET /v1/reviews/pending
func (h *Handler) ListPendingReviews(c echo.Context) error {
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	ctx := c.Request().Context()

	flags, err := h.store.ListPendingReviews(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"flags": flags,
	})
}

type reviewRequest struct {
	ReviewedBy string `json:"reviewed_by"`
	Notes      string `json:"notes,omitempty"`
}

// ReviewFlag marks a flag as reviewed by a human.
// POST /v1/reviews/:flag_id
func (h *Handler) ReviewFlag(c echo.Context) error {
	flagID := c.Param("flag_id")

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ReviewedBy == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "reviewed_by is required"})
	}

	ctx := c.Request().Context()

	if err := h.store.MarkFlagReviewed(ctx, flagID, req.ReviewedBy, req.Notes); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "reviewed"})
}

// UnlockSession clears a session lock after human review.
// POST /v1/sessions/:session_id/unlock
func (h *Handler) UnlockSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	ctx := c.Request().Context()

	if err := h.store.UnlockSession(ctx, sessionID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "unlocked"})
}
