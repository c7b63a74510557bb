package signups

import (
	"context"

	"hoops_signup/internal/models"
	"hoops_signup/internal/roster"
	"hoops_signup/internal/store"

	"go.uber.org/zap"
)

// JoinResult reports the caller's signup after a join. Created is false when
// the user was already signed up and nothing changed.
type JoinResult struct {
	SignUp  models.SignUp `json:"-"`
	Created bool          `json:"created"`
	Slot    *roster.Slot  `json:"slot"`
}

// Join signs the actor up for an active schedule.
func (s *Service) Join(ctx context.Context, actor Actor, scheduleID uint) (JoinResult, error) {
	sch, err := s.openSchedule(ctx, scheduleID)
	if err != nil {
		return JoinResult{}, err
	}
	target, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return JoinResult{}, err
	}
	return s.join(ctx, actor, sch, target)
}

// AdminJoin signs any user up, whether or not the schedule is active.
func (s *Service) AdminJoin(ctx context.Context, actor Actor, scheduleID, userID uint) (JoinResult, error) {
	if err := requireAdmin(actor); err != nil {
		return JoinResult{}, err
	}
	sch, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return JoinResult{}, err
	}
	target, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return JoinResult{}, err
	}
	return s.join(ctx, actor, sch, target)
}

func (s *Service) join(ctx context.Context, actor Actor, sch models.Schedule, target models.User) (JoinResult, error) {
	su, created, err := s.store.CreateSignUpAtEnd(ctx, sch.ID, target.ID)
	if err != nil {
		return JoinResult{}, err
	}
	res := JoinResult{SignUp: su, Created: created, Slot: s.slot(ctx, sch.ID, target.ID)}
	if !created {
		return res, nil
	}

	s.log.Info("signup join",
		zap.Uint("schedule_id", sch.ID),
		zap.Uint("user_id", target.ID),
		zap.Uint("actor_id", actor.ID),
		zap.Int("position", su.Position),
	)
	s.record(ctx, store.Event{
		ScheduleID:   sch.ID,
		Type:         models.EventSignupJoin,
		ActorUserID:  ptr(actor.ID),
		TargetUserID: ptr(target.ID),
		SignUpID:     ptr(su.ID),
	})
	s.alertAdmins(ctx, sch, true, actor, target, res.Slot)
	s.broadcast(sch.ID)
	return res, nil
}

// Leave withdraws the actor from an active schedule. It reports whether a
// signup was removed.
func (s *Service) Leave(ctx context.Context, actor Actor, scheduleID uint) (bool, error) {
	sch, err := s.openSchedule(ctx, scheduleID)
	if err != nil {
		return false, err
	}
	target, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return false, err
	}
	return s.leave(ctx, actor, sch, target)
}

// AdminLeave withdraws any user from any schedule.
func (s *Service) AdminLeave(ctx context.Context, actor Actor, scheduleID, userID uint) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}
	sch, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return false, err
	}
	target, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.leave(ctx, actor, sch, target)
}

func (s *Service) leave(ctx context.Context, actor Actor, sch models.Schedule, target models.User) (bool, error) {
	before := s.capture(ctx, sch.ID)
	slot := s.slot(ctx, sch.ID, target.ID)

	deleted, err := s.store.DeleteSignUp(ctx, sch.ID, target.ID)
	if err != nil {
		return false, err
	}
	if deleted == nil {
		return false, nil
	}

	s.log.Info("signup leave",
		zap.Uint("schedule_id", sch.ID),
		zap.Uint("user_id", target.ID),
		zap.Uint("actor_id", actor.ID),
	)
	s.afterRemoval(ctx, sch, before)

	e := store.Event{
		ScheduleID:   sch.ID,
		Type:         models.EventSignupLeave,
		ActorUserID:  ptr(actor.ID),
		TargetUserID: ptr(target.ID),
	}
	if slot != nil {
		e.Metadata = map[string]any{"slot": slot}
	}
	s.record(ctx, e)
	s.alertAdmins(ctx, sch, false, actor, target, slot)
	s.broadcast(sch.ID)
	return true, nil
}
