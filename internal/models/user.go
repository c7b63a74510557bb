package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email             string  `gorm:"uniqueIndex;not null"` // always lowercase
	Name              *string // display name, optional
	PasswordHash      string  `gorm:"not null;default:''"`
	Roles             *string // comma separated, e.g. "admin,admin_notify"
	Member            bool    `gorm:"not null;default:false"` // auto-enrolled into new active schedules
	MustResetPassword bool    `gorm:"not null;default:false"`
}

// Label is the name shown on rosters and in emails.
func (u User) Label() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// RoleString returns Roles or "" when unset.
func (u User) RoleString() string {
	if u.Roles == nil {
		return ""
	}
	return *u.Roles
}
