package mysql

import (
	"board-service/internal/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomEventRepository stores room events and resolves erase requests against them.
type RoomEventRepository interface {
	CreateRecord(ctx context.Context, roomID, userID uint, payload string) (string, error)
	FindAndDeleteByContentMatch(ctx context.Context, roomID uint, shapeID string) (bool, error)
}

type roomEventRepository struct {
	db *gorm.DB
}

func NewRoomEventRepository(db *gorm.DB) RoomEventRepository {
	return &roomEventRepository{db: db}
}

func (r *roomEventRepository) CreateRecord(ctx context.Context, roomID, userID uint, payload string) (string, error) {
	event := models.RoomEvent{
		ID:      uuid.New().String(),
		RoomID:  roomID,
		UserID:  userID,
		Message: payload,
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return "", err
	}
	return event.ID, nil
}

// FindAndDeleteByContentMatch soft-deletes the oldest event in the room whose
// message contains shapeID. A miss returns false with no error.
func (r *roomEventRepository) FindAndDeleteByContentMatch(ctx context.Context, roomID uint, shapeID string) (bool, error) {
	var event models.RoomEvent
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND message LIKE ?", roomID, "%"+shapeID+"%").
		Order("created_at ASC").
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Delete(&event).Error; err != nil {
		return false, err
	}
	return true, nil
}
