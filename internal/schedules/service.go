// Package schedules holds the admin workflows for creating, listing and
// editing schedules.
package schedules

import (
	"context"
	"strings"
	"time"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/models"
	"hoops_signup/internal/store"

	"go.uber.org/zap"
)

const (
	// StaleAfter is how long an inactive schedule lingers before it is archived.
	StaleAfter = 7 * 24 * time.Hour

	maxRepeatWeeks = 52
)

type Service struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(st *store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, log: log, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ArchiveStale archives inactive schedules dated more than StaleAfter ago.
func (s *Service) ArchiveStale(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	n, err := s.store.ArchiveStale(ctx, now.Add(-StaleAfter), now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("archived stale schedules", zap.Int64("count", n))
	}
	return n, nil
}

// List archives stale schedules, then returns all of them ordered by date.
func (s *Service) List(ctx context.Context) ([]models.Schedule, error) {
	if _, err := s.ArchiveStale(ctx); err != nil {
		s.log.Warn("archive stale schedules failed", zap.Error(err))
	}
	return s.store.ListSchedules(ctx)
}

// CreateInput is a new schedule, optionally repeated weekly.
type CreateInput struct {
	Title       string
	Date        time.Time
	Active      bool
	Limit       *int
	RepeatWeeks int
}

// Create inserts the schedule and its weekly recurrences in one transaction.
// Only the first may be active; activating it deactivates every other
// schedule and enrolls all members at positions 1..N.
func (s *Service) Create(ctx context.Context, in CreateInput) ([]models.Schedule, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Date.IsZero() {
		return nil, apperr.Validation("VALIDATION_ERROR", "title and valid date are required")
	}
	limit := models.DefaultLimit
	if in.Limit != nil {
		limit = *in.Limit
	}
	if limit < 0 {
		return nil, apperr.Validation("VALIDATION_ERROR", "limit must not be negative")
	}
	weeks := min(max(in.RepeatWeeks, 1), maxRepeatWeeks)

	batch := make([]models.Schedule, 0, weeks)
	for i := 0; i < weeks; i++ {
		batch = append(batch, models.Schedule{
			Title:  title,
			Date:   in.Date.AddDate(0, 0, 7*i),
			Active: i == 0 && in.Active,
			Limit:  limit,
		})
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if in.Active {
			if err := tx.DeactivateOthers(ctx, 0); err != nil {
				return err
			}
		}
		if err := tx.CreateSchedules(ctx, batch); err != nil {
			return err
		}
		if !in.Active {
			return nil
		}
		members, err := tx.Members(ctx)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		return tx.EnrollMembers(ctx, batch[0].ID, ids)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("schedules created",
		zap.Uint("first_id", batch[0].ID),
		zap.Int("count", len(batch)),
		zap.Bool("active", in.Active),
	)
	return batch, nil
}

// PatchInput changes some fields of a schedule. Nil fields are left alone.
type PatchInput struct {
	ScheduleID uint
	Active     *bool
	Limit      *int
	Title      *string
	Date       *time.Time
	Archived   *bool
}

func (p PatchInput) empty() bool {
	return p.Active == nil && p.Limit == nil && p.Title == nil && p.Date == nil && p.Archived == nil
}

// Update applies a patch. Archiving wins over every other field, then
// unarchiving. Activating deactivates every other schedule and unarchives
// this one in the same transaction.
func (s *Service) Update(ctx context.Context, in PatchInput) (models.Schedule, error) {
	if in.ScheduleID == 0 || in.empty() {
		return models.Schedule{}, apperr.Validation("VALIDATION_ERROR", "scheduleId and at least one of active/limit/title/date/archived are required")
	}
	if in.Limit != nil && *in.Limit < 1 {
		return models.Schedule{}, apperr.Validation("VALIDATION_ERROR", "limit must be a number >= 1")
	}
	var title string
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
		if title == "" {
			return models.Schedule{}, apperr.Validation("VALIDATION_ERROR", "title must be a non-empty string")
		}
	}
	if in.Date != nil && in.Date.IsZero() {
		return models.Schedule{}, apperr.Validation("VALIDATION_ERROR", "date must be a valid ISO date string")
	}

	if _, err := s.store.GetSchedule(ctx, in.ScheduleID); err != nil {
		return models.Schedule{}, err
	}

	if in.Archived != nil {
		fields := map[string]any{"archived_at": nil}
		if *in.Archived {
			fields = map[string]any{"archived_at": s.now().UTC(), "active": false}
		}
		return s.store.UpdateSchedule(ctx, in.ScheduleID, fields)
	}

	fields := map[string]any{}
	if in.Limit != nil {
		fields["player_limit"] = *in.Limit
	}
	if in.Title != nil {
		fields["title"] = title
	}
	if in.Date != nil {
		fields["date"] = *in.Date
	}

	if in.Active != nil && *in.Active {
		fields["active"] = true
		fields["archived_at"] = nil
		var out models.Schedule
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if err := tx.DeactivateOthers(ctx, in.ScheduleID); err != nil {
				return err
			}
			var err error
			out, err = tx.UpdateSchedule(ctx, in.ScheduleID, fields)
			return err
		})
		return out, err
	}

	if in.Active != nil {
		fields["active"] = false
	}
	return s.store.UpdateSchedule(ctx, in.ScheduleID, fields)
}
