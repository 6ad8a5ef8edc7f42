package models

import "time"

// EventCoupon codes are unique per event. MySQL's case-insensitive
// collation makes the composite index match the lookup semantics.
type EventCoupon struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	EventID       uint       `gorm:"not null;uniqueIndex:idx_event_coupons_event_code" json:"event_id"`
	Code          string     `gorm:"size:64;not null;uniqueIndex:idx_event_coupons_event_code" json:"code"`
	DiscountType  string     `gorm:"size:10;not null" json:"discount_type"` // fixed | percent
	DiscountValue float64    `gorm:"type:decimal(10,3);not null" json:"discount_value"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
	MaxUses       *int       `json:"max_uses"` // nil or <= 0 means unlimited
	UsedCount     int        `gorm:"not null;default:0" json:"used_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (EventCoupon) TableName() string {
	return "event_coupons"
}

// UsageLimited reports whether max_uses caps this coupon.
func (c *EventCoupon) UsageLimited() bool {
	return c.MaxUses != nil && *c.MaxUses > 0
}

// EventCouponUsage versions each discount application per
// (coupon, user, event). Seq is monotonic within that key; finalization
// always targets the highest seq, so a superseded attempt can never settle
// a stale amount. A nil EventMemberID marks the row provisional.
type EventCouponUsage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CouponID       uint      `gorm:"not null;index:idx_coupon_usages_key" json:"coupon_id"`
	EventID        uint      `gorm:"not null;index:idx_coupon_usages_key" json:"event_id"`
	UserID         uint      `gorm:"not null;index:idx_coupon_usages_key" json:"user_id"`
	Seq            int       `gorm:"not null;default:1" json:"seq"`
	AmountBefore   float64   `gorm:"type:decimal(10,3);not null" json:"amount_before"`
	DiscountAmount float64   `gorm:"type:decimal(10,3);not null" json:"discount_amount"`
	AmountAfter    float64   `gorm:"type:decimal(10,3);not null" json:"amount_after"`
	EventMemberID  *uint     `gorm:"index" json:"event_member_id"`
	UsedAt         time.Time `json:"used_at"`
	Metadata       string    `gorm:"type:text" json:"metadata"`
}

func (EventCouponUsage) TableName() string {
	return "event_coupon_usages"
}

func (u *EventCouponUsage) Finalized() bool {
	return u.EventMemberID != nil
}
