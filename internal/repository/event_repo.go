package repository

import (
	"errors"

	"bdsev/internal/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// GetByID returns nil, nil when the event does not exist.
func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var ev models.Event
	err := r.db.First(&ev, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
