package http

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/shopmate-io/orchestrator/internal/domain"
)

// wsError is the error frame sent over the socket for a bad message.
type wsError struct {
	Error string `json:"error"`
}

// ChatWS handles a WebSocket chat connection. Messages on one socket
// are processed strictly in order; a turn must finish before the next
// message is read.
// GET /ws/chat/:session_id
func (h *Handler) ChatWS(c echo.Context) error {
	sessionID := c.Param("session_id")

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("WARN: [ws] failed to upgrade connection: %v", err)
		return err
	}
	defer ws.Close()

	ctx := c.Request().Context()

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WARN: [ws] read error on session %s: %v", sessionID, err)
			}
			return nil
		}

		var req domain.ChatRequest
		if err := json.Unmarshal(message, &req); err != nil {
			if werr := ws.WriteJSON(wsError{Error: "invalid message format"}); werr != nil {
				return nil
			}
			continue
		}
		if err := validateChatRequest(&req); err != nil {
			if werr := ws.WriteJSON(wsError{Error: err.Error()}); werr != nil {
				return nil
			}
			continue
		}

		resp, err := h.orchestrator.ExecuteTurn(ctx, sessionID, &req)
		if err != nil {
			log.Printf("ERROR: [ws] turn failed on session %s: %v", sessionID, err)
			if werr := ws.WriteJSON(wsError{Error: "internal error"}); werr != nil {
				return nil
			}
			continue
		}

		if err := ws.WriteJSON(resp); err != nil {
			log.Printf("WARN: [ws] write error on session %s: %v", sessionID, err)
			return nil
		}
	}
}
