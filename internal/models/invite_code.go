package models

import (
	"time"
)

// InviteCode is a single-use registration token issued by an admin.
// Consumption is one-way: once UsedBy is set the code can never be
// redeemed or deleted again.
type InviteCode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"unique;not null" json:"code"`
	CreatedBy uint       `gorm:"not null" json:"created_by"`
	UsedBy    *uint      `json:"used_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`

	Creator  User  `gorm:"foreignKey:CreatedBy" json:"-"`
	Consumer *User `gorm:"foreignKey:UsedBy" json:"-"`

	// Nicknames resolved at query time for the admin listing.
	CreatedByNickname string  `gorm:"->" json:"created_by_nickname,omitempty"`
	UsedByNickname    *string `gorm:"->" json:"used_by_nickname,omitempty"`
}
