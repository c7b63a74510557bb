package models

import "time"

// WaitlistNotification is an opt-in: "email me if I move into the playing tier".
type WaitlistNotification struct {
	ID         uint `gorm:"primarykey"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_waitlist_user_schedule"`
	ScheduleID uint `gorm:"not null;uniqueIndex:idx_waitlist_user_schedule;index"`
	CreatedAt  time.Time
}
