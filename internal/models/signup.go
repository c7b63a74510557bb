package models

import (
	"time"
)

type AttendanceStatus string

const (
	AttendanceFull       AttendanceStatus = "FULL"
	AttendanceLate       AttendanceStatus = "LATE"
	AttendanceLeaveEarly AttendanceStatus = "LEAVE_EARLY"
	AttendancePartial    AttendanceStatus = "PARTIAL"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceFull, AttendanceLate, AttendanceLeaveEarly, AttendancePartial:
		return true
	}
	return false
}

// SignUp is a user's claim on one schedule. Rows are hard-deleted on leave so
// the (schedule, user) unique index stays usable for a later re-join.
type SignUp struct {
	ID               uint             `gorm:"primarykey"`
	ScheduleID       uint             `gorm:"not null;uniqueIndex:idx_signup_schedule_user;index"`
	Schedule         Schedule         `gorm:"foreignKey:ScheduleID"`
	UserID           uint             `gorm:"not null;uniqueIndex:idx_signup_schedule_user"`
	User             User             `gorm:"foreignKey:UserID"`
	Position         int              `gorm:"not null;index"` // 1-based, ties broken by CreatedAt
	AttendanceStatus AttendanceStatus `gorm:"type:varchar(16);not null;default:'FULL'"`
	AttendanceNote   *string
	ArriveAt         *string `gorm:"type:varchar(5)"` // "HH:MM"
	LeaveAt          *string `gorm:"type:varchar(5)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
