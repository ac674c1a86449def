package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

const writeWait = 5 * time.Second

// Connection is a websocket connection of one user.
type Connection struct {
	conn   *websocket.Conn
	userID uuid.UUID
	mu     sync.Mutex // serializes writes
}

func (c *Connection) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *Connection) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub keeps the websocket connections of this instance keyed by user id.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[*Connection]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[uuid.UUID]map[*Connection]struct{})}
}

// Add registers a connection for a user.
func (h *Hub) Add(userID uuid.UUID, conn *websocket.Conn) *Connection {
	c := &Connection{conn: conn, userID: userID}

	h.mu.Lock()
	if _, ok := h.conns[userID]; !ok {
		h.conns[userID] = make(map[*Connection]struct{})
	}
	h.conns[userID][c] = struct{}{}
	total := len(h.conns[userID])
	h.mu.Unlock()

	logger.Log.Infow("websocket connected", "user_id", userID, "connections", total)
	return c
}

// Remove unregisters and closes a connection.
func (h *Hub) Remove(c *Connection) {
	h.mu.Lock()
	if conns, ok := h.conns[c.userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.conns, c.userID)
		}
	}
	h.mu.Unlock()

	_ = c.conn.Close()
	logger.Log.Infow("websocket disconnected", "user_id", c.userID)
}

// Connections returns the number of open connections of a user.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// Dispatch writes event to every connection of its user.
func (h *Hub) Dispatch(event models.WalletEvent) {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.conns[event.UserID]))
	for c := range h.conns[event.UserID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.writeJSON(event); err != nil {
			logger.Log.Warnw("websocket send failed", "user_id", event.UserID, "error", err)
			h.Remove(c)
		}
	}
}

// Run forwards events published on Channel to local connections until ctx is done.
func (h *Hub) Run(ctx context.Context, rdb *redis.Client) error {
	sub := rdb.Subscribe(ctx, Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event models.WalletEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Log.Errorw("invalid wallet event", "payload", msg.Payload, "error", err)
				continue
			}
			h.Dispatch(event)
		}
	}
}

// Heartbeat pings every connection at interval until ctx is done.
func (h *Hub) Heartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.RLock()
			var all []*Connection
			for _, conns := range h.conns {
				for c := range conns {
					all = append(all, c)
				}
			}
			h.mu.RUnlock()

			for _, c := range all {
				if err := c.ping(); err != nil {
					h.Remove(c)
				}
			}
		}
	}
}
