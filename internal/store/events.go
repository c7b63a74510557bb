package store

import (
	"context"
	"encoding/json"

	"hoops_signup/internal/models"

	"gorm.io/datatypes"
)

// Event is an audit entry for a roster change. Metadata is marshalled to JSON.
type Event struct {
	ScheduleID    uint
	Type          models.ScheduleEventType
	ActorUserID   *uint
	TargetUserID  *uint
	SignUpID      *uint
	GuestSignUpID *uint
	Metadata      any
}

func (s *Store) RecordEvent(ctx context.Context, e Event) error {
	row := models.ScheduleEvent{
		ScheduleID:    e.ScheduleID,
		Type:          e.Type,
		ActorUserID:   e.ActorUserID,
		TargetUserID:  e.TargetUserID,
		SignUpID:      e.SignUpID,
		GuestSignUpID: e.GuestSignUpID,
	}
	if e.Metadata != nil {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		row.Metadata = datatypes.JSON(raw)
	}
	if err := s.with(ctx).Create(&row).Error; err != nil {
		return dbErr(err)
	}
	return nil
}

// ListEvents returns the schedule's audit trail, oldest first.
func (s *Store) ListEvents(ctx context.Context, scheduleID uint) ([]models.ScheduleEvent, error) {
	var out []models.ScheduleEvent
	err := s.with(ctx).Where("schedule_id = ?", scheduleID).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}
