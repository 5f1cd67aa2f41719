package ws

import (
	"context"
)

// Store is the persistence contract the hub depends on. Chat events are
// recorded before buffering, erase events delete at most one stored record
// whose payload embeds the shape id. A nil Store disables persistence
// entirely, buffering and broadcast behave the same either way.
type Store interface {
	// CreateRecord persists one chat event and returns the new record id.
	CreateRecord(ctx context.Context, roomID, userID uint, payload string) (string, error)

	// FindAndDeleteByContentMatch removes the first stored event of the room
	// whose payload contains shapeID. A miss is reported as (false, nil) and
	// is not an error.
	FindAndDeleteByContentMatch(ctx context.Context, roomID uint, shapeID string) (bool, error)
}

// EventSink receives every flushed batch frame for downstream consumers.
// Publishing is fire and forget, a failing sink never affects a flush.
type EventSink interface {
	PublishBatch(ctx context.Context, roomID uint, frame []byte) error
}
