package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultLimit is the playing-tier size of a schedule created without one.
const DefaultLimit = 15

type Schedule struct {
	gorm.Model
	Title      string     `gorm:"not null"`
	Date       time.Time  `gorm:"index;not null"`               // start of the game
	Active     bool       `gorm:"index;default:false"`          // at most one at a time, kept by the admin workflow
	Limit      int        `gorm:"column:player_limit;not null"` // size of the playing tier
	ArchivedAt *time.Time `gorm:"index"`
}

func (s Schedule) Archived() bool { return s.ArchivedAt != nil }

// Open reports whether players may currently join.
func (s Schedule) Open() bool { return s.Active && s.ArchivedAt == nil }
