package signups

import (
	"context"

	"hoops_signup/internal/models"

	"go.uber.org/zap"
)

// ChangeCapacity runs change, which edits the schedule (usually its limit),
// and emails everyone it moved from the waitlist into the playing tier.
func (s *Service) ChangeCapacity(ctx context.Context, scheduleID uint, change func() (models.Schedule, error)) (models.Schedule, error) {
	before := s.capture(ctx, scheduleID)
	sch, err := change()
	if err != nil {
		return sch, err
	}
	if before != nil && sch.Open() {
		s.notifyPromotions(ctx, sch, before)
	}
	s.log.Debug("schedule capacity changed", zap.Uint("schedule_id", sch.ID), zap.Int("limit", sch.Limit))
	s.broadcast(sch.ID)
	return sch, nil
}
