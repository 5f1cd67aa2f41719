package ws

import (
	"sync"
)

// pendingBuffers holds the not yet flushed messages of every room. A room's
// entry is created on first reference and survives flushes, only the list
// inside it is swapped out.
type pendingBuffers struct {
	mu    sync.Mutex
	rooms map[uint][]PendingMessage
}

func newPendingBuffers() *pendingBuffers {
	return &pendingBuffers{
		rooms: make(map[uint][]PendingMessage),
	}
}

// append adds a message to the end of the room's pending list and returns
// the new length so the caller can check the batch size threshold.
func (b *pendingBuffers) append(roomID uint, msg PendingMessage) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rooms[roomID] = append(b.rooms[roomID], msg)
	return len(b.rooms[roomID])
}

// take swaps the room's pending list with an empty one in a single critical
// section. Messages appended after the swap belong to the next batch, so no
// message can ever appear in two batches.
func (b *pendingBuffers) take(roomID uint) []PendingMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	msgs, ok := b.rooms[roomID]
	if !ok {
		return nil
	}
	b.rooms[roomID] = nil
	return msgs
}

// roomsWithPending returns the ids of all rooms that currently have
// messages waiting for a flush.
func (b *pendingBuffers) roomsWithPending() []uint {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]uint, 0, len(b.rooms))
	for roomID, msgs := range b.rooms {
		if len(msgs) > 0 {
			ids = append(ids, roomID)
		}
	}
	return ids
}

// pendingCount reports how many messages are waiting for the given room.
func (b *pendingBuffers) pendingCount(roomID uint) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rooms[roomID])
}
