package store

import (
	"context"
	"time"

	"hoops_signup/internal/models"
)

func (s *Store) GetSchedule(ctx context.Context, id uint) (models.Schedule, error) {
	var sch models.Schedule
	err := s.with(ctx).First(&sch, id).Error
	return sch, notFound(err, "SCHEDULE_NOT_FOUND", "schedule not found")
}

// ListSchedules returns every schedule ordered by date, active first on ties.
func (s *Store) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	var out []models.Schedule
	if err := s.with(ctx).Order("date ASC").Order("active DESC").Find(&out).Error; err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

// ActiveSchedule returns the open schedule, most recent first if several are
// flagged active.
func (s *Store) ActiveSchedule(ctx context.Context) (models.Schedule, error) {
	var sch models.Schedule
	err := s.with(ctx).
		Where("active = ? AND archived_at IS NULL", true).
		Order("date DESC").
		First(&sch).Error
	return sch, notFound(err, "NO_ACTIVE_SCHEDULE", "no active schedule")
}

// CreateSchedules inserts the batch in order and fills in their ids.
func (s *Store) CreateSchedules(ctx context.Context, batch []models.Schedule) error {
	for i := range batch {
		if err := s.with(ctx).Create(&batch[i]).Error; err != nil {
			return dbErr(err)
		}
	}
	return nil
}

// DeactivateOthers clears the active flag of every schedule except keepID
// (0 deactivates all).
func (s *Store) DeactivateOthers(ctx context.Context, keepID uint) error {
	q := s.with(ctx).Model(&models.Schedule{}).Where("active = ?", true)
	if keepID != 0 {
		q = q.Where("id <> ?", keepID)
	}
	if err := q.Update("active", false).Error; err != nil {
		return dbErr(err)
	}
	return nil
}

// UpdateSchedule writes the given columns.
func (s *Store) UpdateSchedule(ctx context.Context, id uint, fields map[string]any) (models.Schedule, error) {
	res := s.with(ctx).Model(&models.Schedule{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return models.Schedule{}, dbErr(res.Error)
	}
	return s.GetSchedule(ctx, id)
}

// ArchiveStale archives inactive schedules dated before cutoff and returns
// how many were touched.
func (s *Store) ArchiveStale(ctx context.Context, cutoff, now time.Time) (int64, error) {
	res := s.with(ctx).Model(&models.Schedule{}).
		Where("active = ? AND archived_at IS NULL AND date < ?", false, cutoff).
		Update("archived_at", now)
	if res.Error != nil {
		return 0, dbErr(res.Error)
	}
	return res.RowsAffected, nil
}
