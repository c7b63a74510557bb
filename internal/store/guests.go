package store

import (
	"context"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/models"
	"hoops_signup/internal/roster"

	"gorm.io/gorm/clause"
)

// NewGuest describes a guest seat to append to a roster.
type NewGuest struct {
	ScheduleID    uint
	Name          string
	GuestOfUserID *uint
	AddedByUserID uint
}

// CreateGuestAtEnd appends a guest, reading the next position inside the
// inserting transaction.
func (s *Store) CreateGuestAtEnd(ctx context.Context, in NewGuest) (models.GuestSignUp, error) {
	var out models.GuestSignUp
	err := s.Transaction(ctx, func(tx *Store) error {
		maxPos, err := tx.MaxPosition(ctx, in.ScheduleID)
		if err != nil {
			return err
		}
		out = models.GuestSignUp{
			ScheduleID:    in.ScheduleID,
			GuestName:     in.Name,
			GuestOfUserID: in.GuestOfUserID,
			AddedByUserID: in.AddedByUserID,
			Position:      roster.NextPosition(maxPos),
		}
		if err := tx.with(ctx).Omit(clause.Associations).Create(&out).Error; err != nil {
			return dbErr(err)
		}
		return nil
	})
	if err != nil {
		return models.GuestSignUp{}, err
	}
	return out, nil
}

func (s *Store) GetGuest(ctx context.Context, id uint) (models.GuestSignUp, error) {
	var g models.GuestSignUp
	err := s.with(ctx).First(&g, id).Error
	return g, notFound(err, "GUEST_NOT_FOUND", "guest not found")
}

func (s *Store) DeleteGuest(ctx context.Context, id uint) error {
	res := s.with(ctx).Delete(&models.GuestSignUp{}, id)
	if res.Error != nil {
		return dbErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("GUEST_NOT_FOUND", "guest not found")
	}
	return nil
}

// ListGuests returns the schedule's guests with their sponsors, in position order.
func (s *Store) ListGuests(ctx context.Context, scheduleID uint) ([]models.GuestSignUp, error) {
	var out []models.GuestSignUp
	err := s.with(ctx).Preload("GuestOfUser").
		Where("schedule_id = ?", scheduleID).
		Order("position ASC").Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}
