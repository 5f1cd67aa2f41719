package ws

// FrameType identifies a WebSocket frame using a custom enum type for better type safety
type FrameType string

const (
	// Inbound frames sent by clients
	FrameTypeJoinRoom  FrameType = "join_room"
	FrameTypeLeaveRoom FrameType = "leave_room"
	FrameTypeChat      FrameType = "chat"
	FrameTypeErase     FrameType = "erase"

	// Outbound frames sent by the server
	FrameTypeJoined FrameType = "joined"
	FrameTypeBatch  FrameType = "batch"
)

// String returns the string representation of the FrameType
func (ft FrameType) String() string {
	return string(ft)
}

// InboundFrame is the envelope every client frame arrives in. The message
// field is opaque to the server except for erase frames, where it embeds
// an EraseMessage.
type InboundFrame struct {
	Type    FrameType `json:"type"`
	RoomID  uint      `json:"roomId"`
	Message string    `json:"message,omitempty"`
}

// PendingMessage is a buffered room event waiting for the next flush.
// Append order within a room is the delivery order.
type PendingMessage struct {
	Type    FrameType `json:"type"`
	Message string    `json:"message"`
	RoomID  uint      `json:"roomId"`
}

// JoinedFrame acknowledges a join_room frame to the joining client only.
type JoinedFrame struct {
	Type   FrameType `json:"type"`
	RoomID uint      `json:"roomId"`
}

// BatchFrame carries one flush worth of room events.
type BatchFrame struct {
	Type     FrameType        `json:"type"`
	Messages []PendingMessage `json:"messages"`
}

// EraseMessage is the payload embedded in an erase frame's message field.
type EraseMessage struct {
	ShapeID string `json:"shapeId"`
}

// NewJoinedFrame creates a join acknowledgement for the given room
func NewJoinedFrame(roomID uint) *JoinedFrame {
	return &JoinedFrame{
		Type:   FrameTypeJoined,
		RoomID: roomID,
	}
}

// NewBatchFrame wraps the drained messages of one flush
func NewBatchFrame(messages []PendingMessage) *BatchFrame {
	return &BatchFrame{
		Type:     FrameTypeBatch,
		Messages: messages,
	}
}
