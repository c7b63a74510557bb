package signups

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/models"
	"hoops_signup/internal/store"
)

const maxAttendanceNote = 280

// AvailabilityInput is what a player reports about their attendance.
// ArriveAt and LeaveAt are "HH:MM" or empty.
type AvailabilityInput struct {
	Status   models.AttendanceStatus
	Note     string
	ArriveAt string
	LeaveAt  string
}

func (s *Service) availability(in AvailabilityInput) (store.Availability, error) {
	if !in.Status.Valid() {
		return store.Availability{}, apperr.Validation("INVALID_ATTENDANCE_STATUS", "invalid attendance status")
	}
	out := store.Availability{Status: in.Status}

	note := s.clean(in.Note)
	if utf8.RuneCountInString(note) > maxAttendanceNote {
		return store.Availability{}, apperr.Validation("VALIDATION_ERROR", "attendance note is too long")
	}
	if note != "" {
		out.Note = &note
	}

	var err error
	if out.ArriveAt, err = clockTime(in.ArriveAt); err != nil {
		return store.Availability{}, err
	}
	if out.LeaveAt, err = clockTime(in.LeaveAt); err != nil {
		return store.Availability{}, err
	}
	return out, nil
}

// clockTime validates an "HH:MM" value. Empty means unset.
func clockTime(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", raw)
	if err != nil || len(raw) != 5 {
		return nil, apperr.Validation("INVALID_TIME", "times must be HH:MM")
	}
	v := t.Format("15:04")
	return &v, nil
}

// SetAvailability updates the actor's own signup on an active schedule.
func (s *Service) SetAvailability(ctx context.Context, actor Actor, scheduleID uint, in AvailabilityInput) (models.SignUp, error) {
	a, err := s.availability(in)
	if err != nil {
		return models.SignUp{}, err
	}
	sch, err := s.openSchedule(ctx, scheduleID)
	if err != nil {
		return models.SignUp{}, err
	}
	su, err := s.store.FindSignUp(ctx, sch.ID, actor.ID)
	if err != nil {
		return models.SignUp{}, err
	}
	if su == nil {
		return models.SignUp{}, apperr.Forbidden("NOT_SIGNED_UP", "you must be signed up to set attendance")
	}
	updated, err := s.store.UpdateAvailability(ctx, su.ID, a)
	if err != nil {
		return models.SignUp{}, err
	}
	s.broadcast(sch.ID)
	return updated, nil
}

// AdminSetAvailability updates any signup by id.
func (s *Service) AdminSetAvailability(ctx context.Context, actor Actor, signUpID uint, in AvailabilityInput) (models.SignUp, error) {
	if err := requireAdmin(actor); err != nil {
		return models.SignUp{}, err
	}
	a, err := s.availability(in)
	if err != nil {
		return models.SignUp{}, err
	}
	updated, err := s.store.UpdateAvailability(ctx, signUpID, a)
	if err != nil {
		return models.SignUp{}, err
	}
	s.broadcast(updated.ScheduleID)
	return updated, nil
}
