package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// RoomEvent is a room message retained for later retrieval. Delivery to
// connected members happens from the in-memory buffers; rows here are the
// durable trail and the lookup target for erase requests.
type RoomEvent struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RoomID    uint           `gorm:"not null;index" json:"roomId"`
	UserID    uint           `gorm:"not null" json:"userId"`
	Message   string         `gorm:"type:text" json:"message"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
