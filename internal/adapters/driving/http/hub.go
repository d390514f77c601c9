package http

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

const (
	clientBuffer = 16
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	writeWait    = 10 * time.Second

	// maxReadSize caps inbound frames; clients are not expected to send any.
	maxReadSize = 4 * 1024
)

// Hub tracks websocket clients and broadcasts change notifications.
type Hub struct {
	feed     driving.ChangeFeed
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

// NewHub creates a hub. feed may be nil, in which case nothing is broadcast.
func NewHub(feed driving.ChangeFeed, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		feed:    feed,
		logger:  logger,
		clients: make(map[string]*client),
	}
}

// Run forwards change events to clients until ctx is cancelled or the feed
// closes. All clients are disconnected on return.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	if h.feed == nil {
		<-ctx.Done()
		return
	}

	events, unsubscribe := h.feed.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			h.Broadcast(UpdateMessage{Type: MessageConversationsUpdated})
		}
	}
}

// Broadcast sends msg to every connected client. Clients with a full queue
// miss the message.
func (h *Hub) Broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("websocket client buffer full, dropping message", zap.String("client", c.id))
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written an error response.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return nil
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}
	h.add(cl)
	h.logger.Debug("websocket client connected", zap.String("client", cl.id))

	go cl.writePump()
	cl.readPump(h.logger)

	h.remove(cl.id)
	h.logger.Debug("websocket client disconnected", zap.String("client", cl.id))
	return nil
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

// remove drops the client and closes its queue, which ends its write pump.
func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

// client is a single websocket connection.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// readPump discards inbound frames and returns when the connection closes.
func (c *client) readPump(logger *zap.Logger) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxReadSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// writePump writes queued messages and keepalive pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
