package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper origin checking
		return true
	},
}

// Conn is the subset of *websocket.Conn the client relies on, abstracted so
// tests can swap in a fake connection.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

type Client struct {
	id     string
	hub    *Hub
	conn   Conn
	send   chan []byte
	userID uint
	rooms  map[uint]bool // Set of room IDs the client has joined
	mu     sync.RWMutex

	// Connection state management
	ctx    context.Context
	cancel context.CancelFunc
	closed int32 // atomic flag to track if client is closed
}

func NewClient(hub *Hub, conn Conn, userID uint) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:     uuid.New().String(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		rooms:  make(map[uint]bool),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) GetID() string {
	return c.id
}

func (c *Client) GetUserID() uint {
	return c.userID
}

func (c *Client) Rooms() []uint {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make([]uint, 0, len(c.rooms))
	for roomID := range c.rooms {
		rooms = append(rooms, roomID)
	}
	return rooms
}

func (c *Client) AddRoom(roomID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[roomID] = true
}

func (c *Client) RemoveRoom(roomID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, roomID)
}

func (c *Client) InRoom(roomID uint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[roomID]
}

// isClosed returns true if the client is closed
func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// close marks the client as closed and cancels the context
func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
		slog.Debug("Client marked as closed", "clientID", c.id, "userID", c.userID)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.close()
		c.hub.Unregister(c)

		if err := c.conn.Close(); err != nil {
			slog.Debug("Error closing connection", "clientID", c.id, "userID", c.userID, "error", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			slog.Debug("ReadPump context cancelled", "clientID", c.id, "userID", c.userID)
			return
		default:
		}

		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "userID", c.userID, "error", err)
			} else {
				slog.Debug("WebSocket connection closed", "clientID", c.id, "userID", c.userID, "error", err)
			}
			break
		}

		// A malformed frame is dropped, the connection stays open
		var frame InboundFrame
		if err := json.Unmarshal(messageBytes, &frame); err != nil {
			slog.Warn("Dropping malformed frame", "clientID", c.id, "userID", c.userID, "error", err)
			continue
		}

		c.hub.HandleFrame(c, &frame)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		slog.Debug("WritePump finished", "clientID", c.id, "userID", c.userID)
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Debug("Error writing message", "clientID", c.id, "userID", c.userID, "error", err)
				return
			}

		case <-ticker.C:
			if c.isClosed() {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("Error sending ping", "clientID", c.id, "userID", c.userID, "error", err)
				return
			}

		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// Send queues a frame for delivery without blocking. A client whose send
// buffer is full is treated as disconnected and closed.
func (c *Client) Send(data []byte) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientDisconnected
	default:
		slog.Warn("Send buffer full, closing client", "clientID", c.id, "userID", c.userID)
		c.close()
		return ErrClientDisconnected
	}
}

func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "userID", userID, "error", err)
		return
	}

	client := NewClient(hub, conn, userID)
	slog.Info("New WebSocket connection established", "clientID", client.id, "userID", client.userID)

	hub.Register(client)

	go client.writePump()
	go client.readPump()
}
