package repository

import (
	"errors"

	"bdsev/internal/models"

	"gorm.io/gorm"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(c *models.EventCoupon) error {
	return r.db.Create(c).Error
}

func (r *CouponRepository) ListByEvent(eventID uint) ([]models.EventCoupon, error) {
	var coupons []models.EventCoupon
	err := r.db.Where("event_id = ?", eventID).Order("id DESC").Find(&coupons).Error
	return coupons, err
}

// GetActiveByCode looks up an active coupon by case-insensitive code within
// an event. Returns nil, nil when absent.
func (r *CouponRepository) GetActiveByCode(eventID uint, code string) (*models.EventCoupon, error) {
	var c models.EventCoupon
	err := r.db.
		Where("event_id = ? AND LOWER(code) = LOWER(?) AND is_active = ?", eventID, code, true).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// IncrementUsedCount spends one use atomically. Called only at
// finalization, never when a provisional usage is recorded.
func (r *CouponRepository) IncrementUsedCount(id uint) error {
	return r.db.Model(&models.EventCoupon{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}
