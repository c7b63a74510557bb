package signups

import (
	"context"

	"hoops_signup/internal/apperr"
)

// WaitlistStatus tells a user whether promotion emails are on for a schedule
// and whether they may turn them on right now.
type WaitlistStatus struct {
	Enabled  bool `json:"enabled"`
	Eligible bool `json:"isEligibleToEnable"`
}

func (s *Service) WaitlistStatus(ctx context.Context, userID, scheduleID uint) (WaitlistStatus, error) {
	if _, err := s.openSchedule(ctx, scheduleID); err != nil {
		return WaitlistStatus{}, err
	}
	r, err := s.roster.Roster(ctx, scheduleID)
	if err != nil {
		return WaitlistStatus{}, err
	}
	enabled, err := s.store.HasWaitlistNotification(ctx, userID, scheduleID)
	if err != nil {
		return WaitlistStatus{}, err
	}
	return WaitlistStatus{Enabled: enabled, Eligible: r.HasWaitlisted(userID)}, nil
}

// SetWaitlistNotification turns promotion emails on or off. Turning them on
// requires the user, or a guest they sponsor, to be on the waitlist.
func (s *Service) SetWaitlistNotification(ctx context.Context, userID, scheduleID uint, enabled bool) (bool, error) {
	if !enabled {
		if err := s.store.DisableWaitlistNotification(ctx, userID, scheduleID); err != nil {
			return false, err
		}
		return false, nil
	}

	st, err := s.WaitlistStatus(ctx, userID, scheduleID)
	if err != nil {
		return false, err
	}
	if !st.Eligible {
		return false, apperr.Validation("NOT_ON_WAITLIST", "you can only enable notifications while you or your guest is on the waitlist")
	}
	if err := s.store.EnableWaitlistNotification(ctx, userID, scheduleID); err != nil {
		return false, err
	}
	return true, nil
}
