package testutil

import (
	"fmt"
	"testing"
	"time"

	"hoops_signup/internal/models"

	"gorm.io/gorm"
)

// Base is the reference time fixtures count from. Use At to derive
// createdAt values with a known order.
var Base = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

// At returns Base shifted by the given number of minutes.
func At(minutes int) time.Time {
	return Base.Add(time.Duration(minutes) * time.Minute)
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *gorm.DB
	t  *testing.T
	n  int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *gorm.DB {
	return f.db
}

// CreateUser creates a user with the given name and roles ("" for none).
func (f *Fixtures) CreateUser(name, roles string) models.User {
	f.t.Helper()

	f.n++
	u := models.User{
		Email:        fmt.Sprintf("%s.%d@test.com", name, f.n),
		Name:         &name,
		PasswordHash: "x",
	}
	if roles != "" {
		u.Roles = &roles
	}
	if err := f.db.Create(&u).Error; err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateMember creates a user flagged for auto-enrollment.
func (f *Fixtures) CreateMember(name, roles string) models.User {
	f.t.Helper()

	u := f.CreateUser(name, roles)
	if err := f.db.Model(&u).Update("member", true).Error; err != nil {
		f.t.Fatalf("failed to flag member: %v", err)
	}
	u.Member = true
	return u
}

// CreateSchedule creates an active schedule with the given limit, dated a
// day after Base.
func (f *Fixtures) CreateSchedule(limit int) models.Schedule {
	f.t.Helper()
	return f.CreateScheduleWith(models.Schedule{
		Title:  "Tuesday Run",
		Date:   Base.Add(24 * time.Hour),
		Active: true,
		Limit:  limit,
	})
}

// CreateScheduleWith inserts s as given.
func (f *Fixtures) CreateScheduleWith(s models.Schedule) models.Schedule {
	f.t.Helper()

	if err := f.db.Create(&s).Error; err != nil {
		f.t.Fatalf("failed to create test schedule: %v", err)
	}
	return s
}

// CreateSignUp inserts a signup with an explicit position and creation time.
func (f *Fixtures) CreateSignUp(scheduleID, userID uint, position int, createdAt time.Time) models.SignUp {
	f.t.Helper()

	s := models.SignUp{
		ScheduleID:       scheduleID,
		UserID:           userID,
		Position:         position,
		AttendanceStatus: models.AttendanceFull,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
	if err := f.db.Omit("Schedule", "User").Create(&s).Error; err != nil {
		f.t.Fatalf("failed to create test signup: %v", err)
	}
	return s
}

// CreateGuest inserts a guest signup. sponsor may be nil.
func (f *Fixtures) CreateGuest(scheduleID uint, name string, sponsor *uint, addedBy uint, position int, createdAt time.Time) models.GuestSignUp {
	f.t.Helper()

	g := models.GuestSignUp{
		ScheduleID:    scheduleID,
		GuestName:     name,
		GuestOfUserID: sponsor,
		AddedByUserID: addedBy,
		Position:      position,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if err := f.db.Omit("Schedule", "GuestOfUser").Create(&g).Error; err != nil {
		f.t.Fatalf("failed to create test guest: %v", err)
	}
	return g
}

// OptIn records a waitlist notification opt-in.
func (f *Fixtures) OptIn(userID, scheduleID uint) {
	f.t.Helper()

	if err := f.db.Create(&models.WaitlistNotification{UserID: userID, ScheduleID: scheduleID}).Error; err != nil {
		f.t.Fatalf("failed to create waitlist opt-in: %v", err)
	}
}

// Positions returns schedule positions keyed by roster key ("u:<userId>" or "g:<guestId>").
func (f *Fixtures) Positions(scheduleID uint) map[string]int {
	f.t.Helper()

	out := map[string]int{}
	var signups []models.SignUp
	if err := f.db.Where("schedule_id = ?", scheduleID).Find(&signups).Error; err != nil {
		f.t.Fatalf("failed to load signups: %v", err)
	}
	for _, s := range signups {
		out[fmt.Sprintf("u:%d", s.UserID)] = s.Position
	}
	var guests []models.GuestSignUp
	if err := f.db.Where("schedule_id = ?", scheduleID).Find(&guests).Error; err != nil {
		f.t.Fatalf("failed to load guests: %v", err)
	}
	for _, g := range guests {
		out[fmt.Sprintf("g:%d", g.ID)] = g.Position
	}
	return out
}
