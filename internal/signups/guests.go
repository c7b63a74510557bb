package signups

import (
	"context"
	"unicode/utf8"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/models"
	"hoops_signup/internal/store"

	"go.uber.org/zap"
)

const maxGuestName = 80

// GuestInput adds a guest seat. GuestOf names the sponsoring player; only
// admins may pick someone other than themselves or leave it empty.
type GuestInput struct {
	ScheduleID uint
	Name       string
	GuestOf    *uint
}

func (s *Service) guestName(raw string) (string, error) {
	name := s.clean(raw)
	if name == "" {
		return "", apperr.Validation("VALIDATION_ERROR", "guest name is required")
	}
	if utf8.RuneCountInString(name) > maxGuestName {
		return "", apperr.Validation("VALIDATION_ERROR", "guest name is too long")
	}
	return name, nil
}

// AddGuest appends a guest to an active schedule's roster.
func (s *Service) AddGuest(ctx context.Context, actor Actor, in GuestInput) (models.GuestSignUp, error) {
	name, err := s.guestName(in.Name)
	if err != nil {
		return models.GuestSignUp{}, err
	}
	sch, err := s.openSchedule(ctx, in.ScheduleID)
	if err != nil {
		return models.GuestSignUp{}, err
	}

	sponsor, err := s.guestSponsor(ctx, actor, sch.ID, in.GuestOf)
	if err != nil {
		return models.GuestSignUp{}, err
	}

	g, err := s.store.CreateGuestAtEnd(ctx, store.NewGuest{
		ScheduleID:    sch.ID,
		Name:          name,
		GuestOfUserID: sponsor,
		AddedByUserID: actor.ID,
	})
	if err != nil {
		return models.GuestSignUp{}, err
	}

	s.log.Info("guest add",
		zap.Uint("schedule_id", sch.ID),
		zap.Uint("guest_id", g.ID),
		zap.Uint("actor_id", actor.ID),
		zap.Int("position", g.Position),
	)
	s.record(ctx, store.Event{
		ScheduleID:    sch.ID,
		Type:          models.EventGuestAdd,
		ActorUserID:   ptr(actor.ID),
		TargetUserID:  sponsor,
		GuestSignUpID: ptr(g.ID),
		Metadata:      map[string]any{"guestName": g.GuestName},
	})
	s.broadcast(sch.ID)
	return g, nil
}

func (s *Service) guestSponsor(ctx context.Context, actor Actor, scheduleID uint, guestOf *uint) (*uint, error) {
	if !actor.IsAdmin() {
		if guestOf != nil && *guestOf != actor.ID {
			return nil, apperr.Forbidden("FORBIDDEN", "you can only add your own guests")
		}
		su, err := s.store.FindSignUp(ctx, scheduleID, actor.ID)
		if err != nil {
			return nil, err
		}
		if su == nil {
			return nil, apperr.Forbidden("NOT_SIGNED_UP", "you must be signed up to add a guest")
		}
		return ptr(actor.ID), nil
	}

	if guestOf == nil {
		return nil, nil
	}
	su, err := s.store.FindSignUp(ctx, scheduleID, *guestOf)
	if err != nil {
		return nil, err
	}
	if su == nil {
		return nil, apperr.Validation("SPONSOR_NOT_SIGNED_UP", "the sponsoring player is not signed up")
	}
	return ptr(*guestOf), nil
}

// RemoveGuest deletes a guest seat. Allowed for whoever added the guest,
// their sponsor and admins.
func (s *Service) RemoveGuest(ctx context.Context, actor Actor, guestID uint) error {
	g, err := s.store.GetGuest(ctx, guestID)
	if err != nil {
		return err
	}
	sponsor := g.GuestOfUserID != nil && *g.GuestOfUserID == actor.ID
	if !actor.IsAdmin() && g.AddedByUserID != actor.ID && !sponsor {
		return apperr.Forbidden("FORBIDDEN", "not your guest")
	}
	sch, err := s.store.GetSchedule(ctx, g.ScheduleID)
	if err != nil {
		return err
	}

	before := s.capture(ctx, sch.ID)
	if err := s.store.DeleteGuest(ctx, g.ID); err != nil {
		return err
	}

	s.log.Info("guest remove",
		zap.Uint("schedule_id", sch.ID),
		zap.Uint("guest_id", g.ID),
		zap.Uint("actor_id", actor.ID),
	)
	s.afterRemoval(ctx, sch, before)
	s.record(ctx, store.Event{
		ScheduleID:    sch.ID,
		Type:          models.EventGuestRemove,
		ActorUserID:   ptr(actor.ID),
		TargetUserID:  g.GuestOfUserID,
		GuestSignUpID: ptr(g.ID),
		Metadata:      map[string]any{"guestName": g.GuestName},
	})
	s.broadcast(sch.ID)
	return nil
}
