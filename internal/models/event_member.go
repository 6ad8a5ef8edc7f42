package models

import "time"

// EventMember is the registration record. For a paid event, price_paid > 0
// marks the registration settled; a zero row is a payment-in-progress
// placeholder that later attempts must reuse rather than duplicate. The
// composite unique index backs the insert-or-recover path in the payment
// orchestrator.
type EventMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_members_event_user" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_event_members_event_user" json:"user_id"`
	Token     string    `gorm:"size:64;not null;uniqueIndex" json:"token"` // scanned at the door for attendance
	IsMember  bool      `gorm:"not null;default:false" json:"is_member"`   // membership snapshot at registration time
	PricePaid float64   `gorm:"type:decimal(10,3);not null;default:0" json:"price_paid"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (EventMember) TableName() string {
	return "event_members"
}

func (m *EventMember) Settled() bool {
	return m.PricePaid > 0
}
