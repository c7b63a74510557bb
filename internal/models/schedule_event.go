package models

import (
	"time"

	"gorm.io/datatypes"
)

type ScheduleEventType string

const (
	EventSignupJoin  ScheduleEventType = "SIGNUP_JOIN"
	EventSignupLeave ScheduleEventType = "SIGNUP_LEAVE"
	EventGuestAdd    ScheduleEventType = "GUEST_ADD"
	EventGuestRemove ScheduleEventType = "GUEST_REMOVE"
	EventSignupSwap  ScheduleEventType = "SIGNUP_SWAP"
)

// ScheduleEvent is an append-only audit row for roster changes.
type ScheduleEvent struct {
	ID            uint              `gorm:"primarykey"`
	ScheduleID    uint              `gorm:"not null;index"`
	Type          ScheduleEventType `gorm:"type:varchar(32);not null"`
	ActorUserID   *uint
	TargetUserID  *uint
	SignUpID      *uint
	GuestSignUpID *uint
	Metadata      datatypes.JSON
	CreatedAt     time.Time `gorm:"index"`
}
