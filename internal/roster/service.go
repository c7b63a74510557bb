package roster

import (
	"context"

	"go.uber.org/zap"
)

// Store is the persistence the engine needs. Implemented by internal/store.
type Store interface {
	// ScheduleLimit returns the playing-tier size of the schedule.
	ScheduleLimit(ctx context.Context, scheduleID uint) (int, error)
	// Occupants returns the signup and guest rows of the schedule, labelled.
	Occupants(ctx context.Context, scheduleID uint) (users, guests []Occupant, err error)
	// UpdatePositions applies the batch atomically.
	UpdatePositions(ctx context.Context, scheduleID uint, updates []PositionUpdate) error
	// WaitlistSubscribers returns the users opted in to promotion emails.
	WaitlistSubscribers(ctx context.Context, scheduleID uint) (map[uint]bool, error)
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Roster loads and partitions the current roster of a schedule.
func (s *Service) Roster(ctx context.Context, scheduleID uint) (Roster, error) {
	limit, err := s.store.ScheduleLimit(ctx, scheduleID)
	if err != nil {
		return Roster{}, err
	}
	users, guests, err := s.store.Occupants(ctx, scheduleID)
	if err != nil {
		return Roster{}, err
	}
	return Compute(limit, users, guests), nil
}

// NormalizePositions rewrites positions to 1..K in roster order and returns
// the number of rows changed. A dense roster is left untouched.
func (s *Service) NormalizePositions(ctx context.Context, scheduleID uint) (int, error) {
	users, guests, err := s.store.Occupants(ctx, scheduleID)
	if err != nil {
		return 0, err
	}
	updates := Renumber(Merge(users, guests))
	if len(updates) == 0 {
		return 0, nil
	}
	if err := s.store.UpdatePositions(ctx, scheduleID, updates); err != nil {
		return 0, err
	}
	s.log.Debug("positions normalized",
		zap.Uint("schedule_id", scheduleID),
		zap.Int("updated", len(updates)),
	)
	return len(updates), nil
}

// CapturePlayingKeys snapshots the playing tier before a mutation.
func (s *Service) CapturePlayingKeys(ctx context.Context, scheduleID uint) ([]string, error) {
	r, err := s.Roster(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return r.PlayingKeys(), nil
}

// DetectPromotions compares the current playing tier against before.
func (s *Service) DetectPromotions(ctx context.Context, scheduleID uint, before []string) ([]Promotion, error) {
	r, err := s.Roster(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return Diff(before, r), nil
}

// PromotionNotices groups promotions per owner and keeps only owners who
// opted in to waitlist notifications for the schedule.
func (s *Service) PromotionNotices(ctx context.Context, scheduleID uint, promotions []Promotion) ([]Notice, error) {
	if len(promotions) == 0 {
		return nil, nil
	}
	optedIn, err := s.store.WaitlistSubscribers(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if optedIn == nil {
		optedIn = map[uint]bool{}
	}
	return GroupByOwner(promotions, optedIn), nil
}

// ComputeSlot returns the user's slot, or nil when they are not signed up.
func (s *Service) ComputeSlot(ctx context.Context, scheduleID, userID uint) (*Slot, error) {
	r, err := s.Roster(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	slot, ok := r.SlotFor(userID)
	if !ok {
		return nil, nil
	}
	return &slot, nil
}
