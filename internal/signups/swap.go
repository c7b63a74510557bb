package signups

import (
	"context"

	"hoops_signup/internal/models"
	"hoops_signup/internal/store"

	"go.uber.org/zap"
)

// Swap exchanges the positions of two signups of a schedule. Anyone moved
// from the waitlist into the playing tier gets a promotion email.
func (s *Service) Swap(ctx context.Context, actor Actor, scheduleID, signUpID1, signUpID2 uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if signUpID1 == signUpID2 {
		return nil
	}
	sch, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}

	before := s.capture(ctx, sch.ID)
	if err := s.store.SwapSignUpPositions(ctx, sch.ID, signUpID1, signUpID2); err != nil {
		return err
	}

	s.log.Info("signup swap",
		zap.Uint("schedule_id", sch.ID),
		zap.Uint("signup_id_1", signUpID1),
		zap.Uint("signup_id_2", signUpID2),
		zap.Uint("actor_id", actor.ID),
	)
	if before != nil {
		s.notifyPromotions(ctx, sch, before)
	}
	s.record(ctx, store.Event{
		ScheduleID:  sch.ID,
		Type:        models.EventSignupSwap,
		ActorUserID: ptr(actor.ID),
		SignUpID:    ptr(signUpID1),
		Metadata:    map[string]any{"signUpId1": signUpID1, "signUpId2": signUpID2},
	})
	s.broadcast(sch.ID)
	return nil
}
