package models

import "time"

// Event is read-only to this service; rows are maintained by event
// administration. The twelve nullable price columns form a 4-category x
// 3-tier matrix. Columns without a tier suffix are the early-bird cells;
// that naming is kept from the production schema.
type Event struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	IsPaid            bool       `gorm:"not null;default:false" json:"is_paid"`
	StartDatetime     *time.Time `json:"start_datetime"`
	EndDatetime       *time.Time `json:"end_datetime"`
	EarlyBirdDeadline *time.Time `json:"early_bird_deadline"`
	StandardDeadline  *time.Time `json:"standard_deadline"`

	MemberPrice            *float64 `gorm:"type:decimal(10,3)" json:"member_price"`
	MemberStandardPrice    *float64 `gorm:"type:decimal(10,3)" json:"member_standard_price"`
	MemberOnsitePrice      *float64 `gorm:"type:decimal(10,3)" json:"member_onsite_price"`
	RegularPrice           *float64 `gorm:"type:decimal(10,3)" json:"regular_price"`
	RegularStandardPrice   *float64 `gorm:"type:decimal(10,3)" json:"regular_standard_price"`
	RegularOnsitePrice     *float64 `gorm:"type:decimal(10,3)" json:"regular_onsite_price"`
	StudentPrice           *float64 `gorm:"type:decimal(10,3)" json:"student_price"`
	StudentStandardPrice   *float64 `gorm:"type:decimal(10,3)" json:"student_standard_price"`
	StudentOnsitePrice     *float64 `gorm:"type:decimal(10,3)" json:"student_onsite_price"`
	HygienistPrice         *float64 `gorm:"type:decimal(10,3)" json:"hygienist_price"`
	HygienistStandardPrice *float64 `gorm:"type:decimal(10,3)" json:"hygienist_standard_price"`
	HygienistOnsitePrice   *float64 `gorm:"type:decimal(10,3)" json:"hygienist_onsite_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}
