package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/realtime"
)

const pongWait = 60 * time.Second

// ConnectionRegistry tracks websocket connections per user.
type ConnectionRegistry interface {
	Add(userID uuid.UUID, conn *websocket.Conn) *realtime.Connection
	Remove(c *realtime.Connection)
}

// NewWebsocketHandler returns an HTTP handler that upgrades to a websocket
// carrying the user's wallet events.
// @Summary Wallet events
// @Description Upgrades to a websocket that receives a message each time one of the user's transactions changes.
// @Tags wallet
// @Param access_token query string false "Token when the Authorization header cannot be set"
// @Success 101 "Switching protocols"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /ws [get]
// @Security BearerAuth
func NewWebsocketHandler(hub ConnectionRegistry, tokener Tokener, checkOrigin func(r *http.Request) bool) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authorize(w, r, tokener)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.FromContext(r.Context()).Errorw("websocket upgrade failed", "user_id", claims.UserID, "error", err)
			return
		}

		c := hub.Add(claims.UserID, conn)
		defer hub.Remove(c)

		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		// Clients only listen; reading drives pong handling and detects closes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
