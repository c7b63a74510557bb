package models

import "time"

type PasswordResetToken struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uint      `gorm:"not null;index"`
	TokenHash string    `gorm:"not null;index"` // sha256 hex of the emailed token
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
