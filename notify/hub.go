// Package notify owns the WebSocket connection registry. The hub is
// constructed once in main and handed to every component that pushes
// notifications; per-connection state is cleared on disconnect. Delivery
// is fire-and-forget, at-most-once: a client that is not connected and
// authenticated simply misses the push and catches up on its next fetch.
package notify

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// AuthMessage is the single handshake message a client sends after
// connecting. Until it arrives the connection receives nothing.
type AuthMessage struct {
	Type   string `json:"type"`
	UserID int    `json:"user_id"`
}

// UnreadCountMessage is the per-user push emitted whenever the unread
// notification count changes.
type UnreadCountMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID int

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 16),
	}
}

type Hub struct {
	register   chan *Client
	unregister chan *Client

	mu    sync.RWMutex
	users map[int]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		users:      make(map[int]map[*Client]bool),
		logger:     logger,
	}
}

// Run owns the registry maps. It is started once from main and lives for
// the process lifetime.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.users[client.userID]; !ok {
				h.users[client.userID] = make(map[*Client]bool)
			}
			h.users[client.userID][client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", slog.Int("user_id", client.userID))

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.users[client.userID]; ok {
				if _, okClient := clients[client]; okClient {
					client.close()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.users, client.userID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Debug("websocket client unregistered", slog.Int("user_id", client.userID))
		}
	}
}

// PushToUser sends a JSON payload to every authenticated connection of
// one user. Slow or gone connections are skipped, not waited on.
func (h *Hub) PushToUser(userID int, payload interface{}) {
	message, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal push payload", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.users[userID] {
		client.trySend(message)
	}
}

// Broadcast sends a JSON payload to every authenticated connection.
func (h *Hub) Broadcast(payload interface{}) {
	message, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast payload", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.users {
		for client := range clients {
			client.trySend(message)
		}
	}
}

// PushUnreadCount pushes the current unread notification count to a user.
func (h *Hub) PushUnreadCount(userID, count int) {
	h.PushToUser(userID, UnreadCountMessage{Type: "unread_count", Count: count})
}

func (c *Client) trySend(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- message:
	default:
		// Client is not keeping up; drop the message.
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// ReadPump waits for the auth handshake, registers the client, then
// discards everything else the client sends until disconnect.
func (c *Client) ReadPump() {
	registered := false
	defer func() {
		if registered {
			c.hub.unregister <- c
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", slog.Any("error", err))
			}
			return
		}

		if !registered {
			var auth AuthMessage
			if err := json.Unmarshal(message, &auth); err != nil || auth.Type != "auth" || auth.UserID <= 0 {
				continue
			}
			c.userID = auth.UserID
			c.hub.register <- c
			registered = true
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
