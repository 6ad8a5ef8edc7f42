package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	FullName       string         `gorm:"size:255;not null" json:"full_name"`
	Email          string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash   string         `gorm:"size:255" json:"-"`
	Phone          string         `gorm:"size:32" json:"phone"`
	Mobile         string         `gorm:"size:32" json:"mobile"`
	Role           string         `gorm:"size:20;not null;default:'MEMBER';index" json:"role"`            // MEMBER | ADMIN
	MembershipType string         `gorm:"size:10;not null;default:'free'" json:"membership_type"`         // paid | free
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	MemberProfile *MemberProfile `gorm:"foreignKey:UserID" json:"member_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// ContactMobile prefers the mobile number over the landline; empty when
// neither is set (the gateway accepts a missing mobile).
func (u *User) ContactMobile() string {
	if m := strings.TrimSpace(u.Mobile); m != "" {
		return m
	}
	return strings.TrimSpace(u.Phone)
}

// MemberProfile carries the free-text professional fields the pricing
// classifier reads. Maintained by the membership subsystem.
type MemberProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Category  string    `gorm:"size:128" json:"category"`
	Position  string    `gorm:"size:128" json:"position"`
	Specialty string    `gorm:"size:128" json:"specialty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MemberProfile) TableName() string {
	return "member_profiles"
}
