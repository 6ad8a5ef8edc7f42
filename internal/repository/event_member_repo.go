package repository

import (
	"errors"

	"bdsev/internal/domain"
	"bdsev/internal/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// EventMemberRepository is the registration store. The composite unique
// index on (event_id, user_id) turns a lost insert race into
// domain.ErrDuplicateRegistration, which the orchestrator recovers from by
// re-querying.
type EventMemberRepository struct {
	db *gorm.DB
}

func NewEventMemberRepository(db *gorm.DB) *EventMemberRepository {
	return &EventMemberRepository{db: db}
}

// ListByEventAndUser returns all registration rows for the pair, newest
// first. Legacy data may hold more than one row; callers prefer the settled
// one, else the most recent.
func (r *EventMemberRepository) ListByEventAndUser(eventID, userID uint) ([]models.EventMember, error) {
	var rows []models.EventMember
	err := r.db.
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Order("joined_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// GetSettled returns the registration with a confirmed payment, nil when
// the user has not paid.
func (r *EventMemberRepository) GetSettled(eventID, userID uint) (*models.EventMember, error) {
	var m models.EventMember
	err := r.db.
		Where("event_id = ? AND user_id = ? AND price_paid > 0", eventID, userID).
		Order("joined_at DESC, id DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a registration row, reporting unique-index collisions as
// domain.ErrDuplicateRegistration.
func (r *EventMemberRepository) Create(m *models.EventMember) error {
	if err := r.db.Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

// SetPricePaid settles the registration at the confirmed charged amount.
func (r *EventMemberRepository) SetPricePaid(id uint, amount float64) error {
	return r.db.Model(&models.EventMember{}).
		Where("id = ?", id).
		Update("price_paid", amount).Error
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
