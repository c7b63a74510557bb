package models

import (
	"time"
)

// GuestSignUp is a seat held by someone without an account.
type GuestSignUp struct {
	ID            uint     `gorm:"primarykey"`
	ScheduleID    uint     `gorm:"not null;index"`
	Schedule      Schedule `gorm:"foreignKey:ScheduleID"`
	GuestName     string   `gorm:"not null"`
	GuestOfUserID *uint    `gorm:"index"` // sponsoring player; nil when an admin added a stray guest
	GuestOfUser   *User    `gorm:"foreignKey:GuestOfUserID"`
	AddedByUserID uint     `gorm:"not null;index"`
	Position      int      `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
