package repository

import (
	"errors"

	"bdsev/internal/models"

	"gorm.io/gorm"
)

type CouponUsageRepository struct {
	db *gorm.DB
}

func NewCouponUsageRepository(db *gorm.DB) *CouponUsageRepository {
	return &CouponUsageRepository{db: db}
}

func (r *CouponUsageRepository) Create(u *models.EventCouponUsage) error {
	return r.db.Create(u).Error
}

// LatestProvisional returns the highest-seq provisional usage for the
// event/user pair, nil when none exists.
func (r *CouponUsageRepository) LatestProvisional(eventID, userID uint) (*models.EventCouponUsage, error) {
	var u models.EventCouponUsage
	err := r.db.
		Where("event_id = ? AND user_id = ? AND event_member_id IS NULL", eventID, userID).
		Order("seq DESC, id DESC").
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// HasFinalized reports whether a finalized usage exists for the key.
func (r *CouponUsageRepository) HasFinalized(couponID, eventID, userID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.EventCouponUsage{}).
		Where("coupon_id = ? AND event_id = ? AND user_id = ? AND event_member_id IS NOT NULL",
			couponID, eventID, userID).
		Count(&n).Error
	return n > 0, err
}

// HasAny reports whether any usage row, provisional or finalized, exists
// for the key.
func (r *CouponUsageRepository) HasAny(couponID, eventID, userID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.EventCouponUsage{}).
		Where("coupon_id = ? AND event_id = ? AND user_id = ?", couponID, eventID, userID).
		Count(&n).Error
	return n > 0, err
}

// DeleteProvisional removes every provisional row for the key, superseding
// earlier discount intents before a new one is recorded.
func (r *CouponUsageRepository) DeleteProvisional(couponID, eventID, userID uint) error {
	return r.db.
		Where("coupon_id = ? AND event_id = ? AND user_id = ? AND event_member_id IS NULL",
			couponID, eventID, userID).
		Delete(&models.EventCouponUsage{}).Error
}

// NextSeq returns max(seq)+1 over all rows for the key, finalized included,
// so a finalized seq is never reissued.
func (r *CouponUsageRepository) NextSeq(couponID, eventID, userID uint) (int, error) {
	var maxSeq int64
	err := r.db.Model(&models.EventCouponUsage{}).
		Where("coupon_id = ? AND event_id = ? AND user_id = ?", couponID, eventID, userID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	return int(maxSeq) + 1, nil
}

// Finalize links a provisional usage to a settled registration. The
// IS NULL guard keeps a repeated callback from relinking.
func (r *CouponUsageRepository) Finalize(usageID, eventMemberID uint) error {
	return r.db.Model(&models.EventCouponUsage{}).
		Where("id = ? AND event_member_id IS NULL", usageID).
		Update("event_member_id", eventMemberID).Error
}
