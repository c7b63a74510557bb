package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	limit   int
	users   []Occupant
	guests  []Occupant
	opted   map[uint]bool
	batches [][]PositionUpdate
	failUpd error
}

func (m *memStore) ScheduleLimit(context.Context, uint) (int, error) { return m.limit, nil }

func (m *memStore) Occupants(context.Context, uint) ([]Occupant, []Occupant, error) {
	return append([]Occupant(nil), m.users...), append([]Occupant(nil), m.guests...), nil
}

func (m *memStore) UpdatePositions(_ context.Context, _ uint, updates []PositionUpdate) error {
	if m.failUpd != nil {
		return m.failUpd
	}
	m.batches = append(m.batches, updates)
	for _, u := range updates {
		rows := m.users
		if u.Kind == KindGuest {
			rows = m.guests
		}
		for i := range rows {
			if rows[i].ID == u.ID {
				rows[i].Position = u.Position
			}
		}
	}
	return nil
}

func (m *memStore) WaitlistSubscribers(context.Context, uint) (map[uint]bool, error) {
	return m.opted, nil
}

func (m *memStore) removeUser(userID uint) {
	for i, o := range m.users {
		if o.UserID == userID {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return
		}
	}
}

func (m *memStore) removeGuest(id uint) {
	for i, o := range m.guests {
		if o.ID == id {
			m.guests = append(m.guests[:i], m.guests[i+1:]...)
			return
		}
	}
}

func TestService_LeavePromotesWaitlistedUser(t *testing.T) {
	ctx := context.Background()
	st := &memStore{limit: 1, users: []Occupant{user(1, 1, 0), user(2, 2, 1)}, opted: map[uint]bool{2: true}}
	svc := NewService(st, nil)

	slot, err := svc.ComputeSlot(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, Slot{Kind: TierWaitlist, Overall: 2, Within: 1, Limit: 1}, *slot)

	before, err := svc.CapturePlayingKeys(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"u:1"}, before)

	st.removeUser(1)
	n, err := svc.NormalizePositions(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, st.users[0].Position)

	promos, err := svc.DetectPromotions(ctx, 1, before)
	require.NoError(t, err)
	require.Len(t, promos, 1)
	assert.Equal(t, "u:2", promos[0].Key)
	assert.Equal(t, 1, promos[0].OverallRank)

	notices, err := svc.PromotionNotices(ctx, 1, promos)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, uint(2), notices[0].UserID)
}

func TestService_GuestRemovalShiftsAndPromotes(t *testing.T) {
	ctx := context.Background()
	st := &memStore{
		limit:  2,
		users:  []Occupant{user(1, 1, 0), user(2, 3, 2), user(3, 4, 3)},
		guests: []Occupant{guest(50, 1, 2, 1)},
	}
	svc := NewService(st, nil)

	before, err := svc.CapturePlayingKeys(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"u:1", "g:50"}, before)

	st.removeGuest(50)
	_, err = svc.NormalizePositions(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, st.users[1].Position)
	assert.Equal(t, 3, st.users[2].Position)

	promos, err := svc.DetectPromotions(ctx, 1, before)
	require.NoError(t, err)
	require.Len(t, promos, 1)
	assert.Equal(t, "u:2", promos[0].Key)

	notices, err := svc.PromotionNotices(ctx, 1, promos)
	require.NoError(t, err)
	assert.Empty(t, notices, "user 2 has not opted in")
}

func TestService_NormalizeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := &memStore{limit: 3, users: []Occupant{user(1, 3, 0), user(2, 8, 0)}}
	svc := NewService(st, nil)

	n, err := svc.NormalizePositions(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.NormalizePositions(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, st.batches, 1)
}

func TestService_NormalizePropagatesStoreError(t *testing.T) {
	st := &memStore{limit: 3, users: []Occupant{user(1, 2, 0)}, failUpd: errors.New("boom")}
	_, err := NewService(st, nil).NormalizePositions(context.Background(), 1)
	assert.EqualError(t, err, "boom")
}

func TestService_UnchangedPlayingSetHasNoPromotions(t *testing.T) {
	ctx := context.Background()
	st := &memStore{limit: 2, users: []Occupant{user(1, 1, 0), user(2, 2, 0), user(3, 3, 0)}}
	svc := NewService(st, nil)

	before, err := svc.CapturePlayingKeys(ctx, 1)
	require.NoError(t, err)

	st.removeUser(3)
	promos, err := svc.DetectPromotions(ctx, 1, before)
	require.NoError(t, err)
	assert.Empty(t, promos)

	notices, err := svc.PromotionNotices(ctx, 1, promos)
	require.NoError(t, err)
	assert.Empty(t, notices)
}

func TestService_ComputeSlotMissing(t *testing.T) {
	st := &memStore{limit: 2, users: []Occupant{user(1, 1, 0)}}
	slot, err := NewService(st, nil).ComputeSlot(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Nil(t, slot)
}
