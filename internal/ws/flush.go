package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// How long a batch publish to the event sink may take
const publishTimeout = 5 * time.Second

// Run drives the recurring flush cycle until Stop is called. Each tick
// flushes every room with pending messages, one room at a time.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.flushInterval)
	defer ticker.Stop()

	slog.Info("Flush loop started", "interval", h.flushInterval, "maxBatchSize", h.maxBatchSize)

	for {
		select {
		case <-ticker.C:
			for _, roomID := range h.buffers.roomsWithPending() {
				h.flushRoom(roomID)
			}

		case <-h.ctx.Done():
			slog.Info("Flush loop shutting down")
			return
		}
	}
}

// Stop cancels the flush loop and closes every live connection.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	for c := range h.clients {
		c.close()
		c.conn.Close()
	}
	h.mu.Unlock()
}

// flushRoom isolates one room's flush so a panic cannot kill the timer loop.
func (h *Hub) flushRoom(roomID uint) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Recovered from panic during flush", "roomID", roomID, "panic", r)
		}
	}()

	h.Flush(roomID)
}

// Flush drains the room's pending messages in one atomic swap and fans the
// batch out to the members present right now. Delivery is best effort, a
// failing member is skipped. An empty buffer produces no frame and no
// metric changes, a drained buffer with no members still counts as a flush.
func (h *Hub) Flush(roomID uint) {
	msgs := h.buffers.take(roomID)
	if len(msgs) == 0 {
		return
	}

	frame, err := json.Marshal(NewBatchFrame(msgs))
	if err != nil {
		slog.Error("Failed to marshal batch frame", "roomID", roomID, "error", err)
		return
	}

	h.metrics.RecordFlush(len(msgs))

	for _, member := range h.Members(roomID) {
		if err := member.Send(frame); err != nil {
			slog.Debug("Skipping member during fan-out", "clientID", member.id, "roomID", roomID, "error", err)
			continue
		}
		h.metrics.RecordFrameSent()
	}

	if h.sink != nil {
		ctx, cancel := context.WithTimeout(h.ctx, publishTimeout)
		if err := h.sink.PublishBatch(ctx, roomID, frame); err != nil {
			slog.Error("Failed to publish batch", "roomID", roomID, "error", err)
		}
		cancel()
	}
}
