package store

import (
	"context"

	"hoops_signup/internal/models"
	"hoops_signup/internal/roster"
)

var _ roster.Store = (*Store)(nil)

func (s *Store) ScheduleLimit(ctx context.Context, scheduleID uint) (int, error) {
	sch, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return 0, err
	}
	return sch.Limit, nil
}

// Occupants loads the schedule's signups and guests as roster occupants.
func (s *Store) Occupants(ctx context.Context, scheduleID uint) ([]roster.Occupant, []roster.Occupant, error) {
	signups, err := s.ListSignUps(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	guests, err := s.ListGuests(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}

	users := make([]roster.Occupant, 0, len(signups))
	for _, su := range signups {
		users = append(users, roster.Occupant{
			Kind:      roster.KindUser,
			ID:        su.ID,
			UserID:    su.UserID,
			Label:     su.User.Label(),
			Position:  su.Position,
			CreatedAt: su.CreatedAt,
		})
	}
	gs := make([]roster.Occupant, 0, len(guests))
	for _, g := range guests {
		o := roster.Occupant{
			Kind:      roster.KindGuest,
			ID:        g.ID,
			Label:     g.GuestName,
			Position:  g.Position,
			CreatedAt: g.CreatedAt,
		}
		if g.GuestOfUserID != nil {
			o.UserID = *g.GuestOfUserID
		}
		gs = append(gs, o)
	}
	return users, gs, nil
}

// UpdatePositions applies every update or none.
func (s *Store) UpdatePositions(ctx context.Context, scheduleID uint, updates []roster.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return s.Transaction(ctx, func(tx *Store) error {
		for _, u := range updates {
			var model any = &models.SignUp{}
			if u.Kind == roster.KindGuest {
				model = &models.GuestSignUp{}
			}
			err := tx.with(ctx).Model(model).
				Where("id = ? AND schedule_id = ?", u.ID, scheduleID).
				Update("position", u.Position).Error
			if err != nil {
				return dbErr(err)
			}
		}
		return nil
	})
}

// WaitlistSubscribers returns the ids of users opted in for the schedule.
func (s *Store) WaitlistSubscribers(ctx context.Context, scheduleID uint) (map[uint]bool, error) {
	var ids []uint
	err := s.with(ctx).Model(&models.WaitlistNotification{}).
		Where("schedule_id = ?", scheduleID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, dbErr(err)
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
