package store

import (
	"context"

	"hoops_signup/internal/models"

	"gorm.io/gorm/clause"
)

func (s *Store) HasWaitlistNotification(ctx context.Context, userID, scheduleID uint) (bool, error) {
	var n int64
	err := s.with(ctx).Model(&models.WaitlistNotification{}).
		Where("user_id = ? AND schedule_id = ?", userID, scheduleID).
		Count(&n).Error
	if err != nil {
		return false, dbErr(err)
	}
	return n > 0, nil
}

// EnableWaitlistNotification records the opt-in; repeating it is a no-op.
func (s *Store) EnableWaitlistNotification(ctx context.Context, userID, scheduleID uint) error {
	row := models.WaitlistNotification{UserID: userID, ScheduleID: scheduleID}
	err := s.with(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "schedule_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return dbErr(err)
	}
	return nil
}

// DisableWaitlistNotification removes the opt-in if present.
func (s *Store) DisableWaitlistNotification(ctx context.Context, userID, scheduleID uint) error {
	err := s.with(ctx).
		Where("user_id = ? AND schedule_id = ?", userID, scheduleID).
		Delete(&models.WaitlistNotification{}).Error
	if err != nil {
		return dbErr(err)
	}
	return nil
}
