package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrClientDisconnected = fmt.Errorf("client disconnected")
)

// How long a single persistence call may take before it is abandoned
const persistTimeout = 5 * time.Second

// Hub owns every live connection, the room membership sets and the per-room
// pending buffers. Read pumps call into it directly, all shared state is
// guarded by mutexes.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Room membership, a set is pruned as soon as it becomes empty
	rooms map[uint]map[*Client]bool

	buffers *pendingBuffers
	metrics *Metrics

	// Persistence for chat and erase events, nil bypasses it
	store Store

	// Optional mirror of flushed batches, nil disables it
	sink EventSink

	flushInterval time.Duration
	maxBatchSize  int

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// Mutex for thread safety
	mu sync.RWMutex
}

func NewHub(store Store, sink EventSink, flushInterval time.Duration, maxBatchSize int) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	if flushInterval <= 0 {
		flushInterval = 100 * time.Millisecond
	}
	if maxBatchSize <= 0 {
		maxBatchSize = 200
	}

	return &Hub{
		clients:       make(map[*Client]bool),
		rooms:         make(map[uint]map[*Client]bool),
		buffers:       newPendingBuffers(),
		metrics:       NewMetrics(),
		store:         store,
		sink:          sink,
		flushInterval: flushInterval,
		maxBatchSize:  maxBatchSize,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	slog.Info("Client registered", "clientID", c.id, "userID", c.userID)
}

// Unregister removes the client from every room it joined and from the
// client set. The client's own room list makes a full membership scan
// unnecessary.
func (h *Hub) Unregister(c *Client) {
	for _, roomID := range c.Rooms() {
		h.Leave(roomID, c)
	}

	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()

	if ok {
		c.close()
		slog.Info("Client unregistered", "clientID", c.id, "userID", c.userID)
	}
}

// Join adds the client to the room's membership set and acknowledges with a
// joined frame. Joining twice is harmless, the acknowledgement is sent
// every time.
func (h *Hub) Join(roomID uint, c *Client) {
	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][c] = true
	h.mu.Unlock()

	c.AddRoom(roomID)
	slog.Debug("Client joined room", "clientID", c.id, "userID", c.userID, "roomID", roomID)

	data, err := json.Marshal(NewJoinedFrame(roomID))
	if err != nil {
		slog.Error("Failed to marshal joined frame", "roomID", roomID, "error", err)
		return
	}
	if err := c.Send(data); err != nil {
		slog.Debug("Failed to deliver join acknowledgement", "clientID", c.id, "roomID", roomID, "error", err)
	}
}

// Leave removes the client from the room's membership set. Empty sets are
// pruned, the room's pending buffer is left alone.
func (h *Hub) Leave(roomID uint, c *Client) {
	h.mu.Lock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	c.RemoveRoom(roomID)
	slog.Debug("Client left room", "clientID", c.id, "userID", c.userID, "roomID", roomID)
}

// Members returns a snapshot of the room's current members.
func (h *Hub) Members(roomID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]*Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		members = append(members, c)
	}
	return members
}

// HandleFrame dispatches one inbound frame. Invalid frames are logged and
// dropped, the connection stays open either way.
func (h *Hub) HandleFrame(c *Client, frame *InboundFrame) {
	if frame.RoomID == 0 {
		slog.Warn("Dropping frame without room id", "clientID", c.id, "type", frame.Type)
		return
	}

	switch frame.Type {
	case FrameTypeJoinRoom:
		h.Join(frame.RoomID, c)
	case FrameTypeLeaveRoom:
		h.Leave(frame.RoomID, c)
	case FrameTypeChat:
		h.handleChat(c, frame)
	case FrameTypeErase:
		h.handleErase(c, frame)
	default:
		slog.Warn("Dropping frame with unknown type", "clientID", c.id, "type", frame.Type)
	}
}

// handleChat records the event before buffering it. A persistence failure
// is logged and does not keep the event from being broadcast.
func (h *Hub) handleChat(c *Client, frame *InboundFrame) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(h.ctx, persistTimeout)
		if _, err := h.store.CreateRecord(ctx, frame.RoomID, c.userID, frame.Message); err != nil {
			slog.Error("Failed to persist chat event", "roomID", frame.RoomID, "userID", c.userID, "error", err)
		}
		cancel()
	}

	h.append(frame.RoomID, PendingMessage{
		Type:    FrameTypeChat,
		Message: frame.Message,
		RoomID:  frame.RoomID,
	})
}

// handleErase deletes the matching stored event, then buffers the erase for
// broadcast. A delete miss is not an error, members still need to see the
// erase.
func (h *Hub) handleErase(c *Client, frame *InboundFrame) {
	var erase EraseMessage
	if err := json.Unmarshal([]byte(frame.Message), &erase); err != nil || erase.ShapeID == "" {
		slog.Warn("Dropping erase frame without a usable shapeId", "clientID", c.id, "roomID", frame.RoomID)
		return
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(h.ctx, persistTimeout)
		deleted, err := h.store.FindAndDeleteByContentMatch(ctx, frame.RoomID, erase.ShapeID)
		cancel()
		if err != nil {
			slog.Error("Failed to delete stored event", "roomID", frame.RoomID, "shapeId", erase.ShapeID, "error", err)
		} else if !deleted {
			slog.Debug("No stored event matched shape", "roomID", frame.RoomID, "shapeId", erase.ShapeID)
		}
	}

	h.append(frame.RoomID, PendingMessage{
		Type:    FrameTypeErase,
		Message: frame.Message,
		RoomID:  frame.RoomID,
	})
}

// append buffers a message and flushes immediately once the room reaches
// the batch size threshold.
func (h *Hub) append(roomID uint, msg PendingMessage) {
	if n := h.buffers.append(roomID, msg); n >= h.maxBatchSize {
		h.Flush(roomID)
	}
}

func (h *Hub) MetricsSnapshot() MetricsSnapshot {
	return h.metrics.Snapshot()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
