// Package signups implements the player-facing and admin roster workflows:
// joining and leaving, guests, swaps, availability and waitlist opt-in.
//
// Every mutation follows the same protocol. The core write either succeeds
// or fails as a whole and its error is returned. What follows it (position
// normalizing, the audit event, admin alerts, promotion emails and the live
// roster broadcast) is best-effort and only logged on failure.
package signups

import (
	"context"
	"html"
	"strings"
	"time"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/authz"
	"hoops_signup/internal/models"
	"hoops_signup/internal/notify"
	"hoops_signup/internal/roster"
	"hoops_signup/internal/store"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// EventRosterChanged is broadcast after every successful roster mutation.
const EventRosterChanged = "roster_changed"

// Broadcaster pushes live updates to clients watching a schedule.
type Broadcaster interface {
	Broadcast(scheduleID uint, eventType string, data any)
}

// Actor is the authenticated caller.
type Actor struct {
	ID    uint
	Label string
	Roles string
}

func (a Actor) IsAdmin() bool { return authz.IsAdmin(a.Roles) }

type Service struct {
	store    *store.Store
	roster   *roster.Service
	notifier notify.Notifier
	hub      Broadcaster
	policy   *bluemonday.Policy
	siteName string
	log      *zap.Logger
}

func NewService(st *store.Store, rs *roster.Service, n notify.Notifier, hub Broadcaster, siteName string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    st,
		roster:   rs,
		notifier: n,
		hub:      hub,
		policy:   bluemonday.StrictPolicy(),
		siteName: siteName,
		log:      log,
	}
}

func requireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("FORBIDDEN", "admin only")
	}
	return nil
}

// openSchedule loads a schedule players may currently change.
func (s *Service) openSchedule(ctx context.Context, scheduleID uint) (models.Schedule, error) {
	sch, err := s.store.GetSchedule(ctx, scheduleID)
	if apperr.Is(err, apperr.KindNotFound) || (err == nil && !sch.Open()) {
		return models.Schedule{}, apperr.NotFound("SCHEDULE_NOT_ACTIVE", "schedule not found or not active")
	}
	if err != nil {
		return models.Schedule{}, err
	}
	return sch, nil
}

// capture snapshots the playing tier ahead of a removal. It returns nil on
// failure, which skips promotion emails.
func (s *Service) capture(ctx context.Context, scheduleID uint) []string {
	keys, err := s.roster.CapturePlayingKeys(ctx, scheduleID)
	if err != nil {
		s.log.Warn("capture playing keys failed", zap.Uint("schedule_id", scheduleID), zap.Error(err))
		return nil
	}
	return keys
}

func (s *Service) slot(ctx context.Context, scheduleID, userID uint) *roster.Slot {
	slot, err := s.roster.ComputeSlot(ctx, scheduleID, userID)
	if err != nil {
		s.log.Warn("compute slot failed", zap.Uint("schedule_id", scheduleID), zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	return slot
}

// afterRemoval normalizes positions and emails whoever moved into the
// playing tier.
func (s *Service) afterRemoval(ctx context.Context, sch models.Schedule, before []string) {
	if _, err := s.roster.NormalizePositions(ctx, sch.ID); err != nil {
		s.log.Error("normalize positions failed", zap.Uint("schedule_id", sch.ID), zap.Error(err))
	}
	if before == nil {
		return
	}
	s.notifyPromotions(ctx, sch, before)
}

func (s *Service) notifyPromotions(ctx context.Context, sch models.Schedule, before []string) {
	promotions, err := s.roster.DetectPromotions(ctx, sch.ID, before)
	if err != nil {
		s.log.Error("detect promotions failed", zap.Uint("schedule_id", sch.ID), zap.Error(err))
		return
	}
	notices, err := s.roster.PromotionNotices(ctx, sch.ID, promotions)
	if err != nil {
		s.log.Error("promotion notices failed", zap.Uint("schedule_id", sch.ID), zap.Error(err))
		return
	}
	for _, n := range notices {
		u, err := s.store.GetUser(ctx, n.UserID)
		if err != nil {
			s.log.Warn("promotion recipient lookup failed", zap.Uint("user_id", n.UserID), zap.Error(err))
			continue
		}
		msg := notify.BuildPromotionEmail(notify.PromotionData{
			SiteName:      s.siteName,
			ScheduleTitle: sch.Title,
			ScheduleDate:  sch.Date,
			Items:         n.Items,
			Limit:         sch.Limit,
		})
		msg.To = notify.Recipients(u.Email)
		s.send(ctx, msg)
	}
	if len(promotions) > 0 {
		s.log.Info("waitlist promotions",
			zap.Uint("schedule_id", sch.ID),
			zap.Int("promoted", len(promotions)),
			zap.Int("notified", len(notices)),
		)
	}
}

func (s *Service) alertAdmins(ctx context.Context, sch models.Schedule, joined bool, actor Actor, target models.User, slot *roster.Slot) {
	to, err := s.store.AdminNotifyRecipients(ctx)
	if err != nil {
		s.log.Error("admin recipients lookup failed", zap.Error(err))
		return
	}
	if len(to) == 0 {
		s.log.Debug("no admin recipients (admin + admin_notify)")
		return
	}
	msg := notify.BuildSignupChangeEmail(notify.SignupChangeData{
		SiteName:      s.siteName,
		Joined:        joined,
		ScheduleTitle: sch.Title,
		ScheduleDate:  sch.Date,
		ActorLabel:    actor.Label,
		TargetLabel:   target.Label(),
		Slot:          slot,
	})
	msg.To = to
	s.send(ctx, msg)
}

func (s *Service) send(ctx context.Context, msg notify.Message) {
	if s.notifier == nil || len(msg.To) == 0 {
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Error("email send failed", zap.String("subject", msg.Subject), zap.Error(err))
	}
}

func (s *Service) record(ctx context.Context, e store.Event) {
	if err := s.store.RecordEvent(ctx, e); err != nil {
		s.log.Error("record schedule event failed",
			zap.Uint("schedule_id", e.ScheduleID),
			zap.String("type", string(e.Type)),
			zap.Error(err),
		)
	}
}

func (s *Service) broadcast(scheduleID uint) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(scheduleID, EventRosterChanged, map[string]any{
		"schedule_id": scheduleID,
		"at":          time.Now().UTC(),
	})
}

// clean strips markup from free text typed by players.
func (s *Service) clean(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(strings.TrimSpace(raw))))
}

func ptr[T any](v T) *T { return &v }
