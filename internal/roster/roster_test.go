package roster

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func user(userID uint, pos int, minutes int) Occupant {
	return Occupant{
		Kind:      KindUser,
		ID:        userID + 100,
		UserID:    userID,
		Label:     fmt.Sprintf("user-%d", userID),
		Position:  pos,
		CreatedAt: t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func guest(id, sponsor uint, pos int, minutes int) Occupant {
	return Occupant{
		Kind:      KindGuest,
		ID:        id,
		UserID:    sponsor,
		Label:     fmt.Sprintf("guest-%d", id),
		Position:  pos,
		CreatedAt: t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func keys(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key())
	}
	return out
}

func TestOccupantKey(t *testing.T) {
	assert.Equal(t, "u:7", user(7, 1, 0).Key())
	assert.Equal(t, "g:3", guest(3, 7, 1, 0).Key())
	assert.Nil(t, guest(3, 0, 1, 0).OwnerUserID())
	require.NotNil(t, guest(3, 7, 1, 0).OwnerUserID())
	assert.Equal(t, uint(7), *guest(3, 7, 1, 0).OwnerUserID())
}

func TestMerge_OrdersByPositionThenCreatedAt(t *testing.T) {
	users := []Occupant{user(1, 2, 0), user(2, 1, 5), user(3, 1, 1)}
	guests := []Occupant{guest(9, 1, 2, -1), guest(8, 1, 3, 0)}

	got := Merge(users, guests)

	want := []string{"u:3", "u:2", "g:9", "u:1", "g:8"}
	var gotKeys []string
	for _, o := range got {
		gotKeys = append(gotKeys, o.Key())
	}
	assert.Equal(t, want, gotKeys)
}

func TestMerge_ExactTiePutsUserFirst(t *testing.T) {
	got := Merge([]Occupant{user(1, 1, 0)}, []Occupant{guest(5, 1, 1, 0)})
	require.Len(t, got, 2)
	assert.Equal(t, KindUser, got[0].Kind)
	assert.Equal(t, KindGuest, got[1].Kind)
}

func TestMerge_IndependentOfInputOrder(t *testing.T) {
	users := []Occupant{user(1, 1, 3), user(2, 1, 1), user(3, 2, 0), user(4, 4, 0)}
	guests := []Occupant{guest(10, 1, 3, 0), guest(11, 0, 2, 4)}
	want := Merge(users, guests)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		u := slices.Clone(users)
		g := slices.Clone(guests)
		rng.Shuffle(len(u), func(a, b int) { u[a], u[b] = u[b], u[a] })
		rng.Shuffle(len(g), func(a, b int) { g[a], g[b] = g[b], g[a] })
		assert.Equal(t, want, Merge(u, g))
	}
}

func TestCompute_PartitionSizes(t *testing.T) {
	users := []Occupant{user(1, 1, 0), user(2, 2, 0), user(3, 3, 0)}
	guests := []Occupant{guest(1, 1, 4, 0), guest(2, 2, 5, 0)}
	total := len(users) + len(guests)

	for _, limit := range []int{-3, 0, 1, 2, 5, 6, 50} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			r := Compute(limit, users, guests)
			capped := max(limit, 0)
			assert.Len(t, r.Playing, min(total, capped))
			assert.Len(t, r.Waitlist, max(0, total-capped))

			merged := Merge(users, guests)
			var all []Occupant
			for _, e := range r.All() {
				all = append(all, e.Occupant)
			}
			assert.Equal(t, merged, all)
		})
	}
}

func TestCompute_RanksWithinTier(t *testing.T) {
	r := Compute(2, []Occupant{user(1, 1, 0), user(2, 2, 0), user(3, 3, 0), user(4, 4, 0)}, nil)

	require.Len(t, r.Playing, 2)
	require.Len(t, r.Waitlist, 2)
	assert.Equal(t, 1, r.Playing[0].Within)
	assert.Equal(t, 2, r.Playing[1].Within)
	assert.Equal(t, 3, r.Waitlist[0].Overall)
	assert.Equal(t, 1, r.Waitlist[0].Within)
	assert.Equal(t, 4, r.Waitlist[1].Overall)
	assert.Equal(t, 2, r.Waitlist[1].Within)
	assert.Equal(t, TierWaitlist, r.Waitlist[1].Tier)
}

func TestCompute_EdgeCases(t *testing.T) {
	empty := Compute(5, nil, nil)
	assert.Empty(t, empty.Playing)
	assert.Empty(t, empty.Waitlist)

	zero := Compute(0, []Occupant{user(1, 1, 0)}, nil)
	assert.Empty(t, zero.Playing)
	assert.Equal(t, []string{"u:1"}, keys(zero.Waitlist))

	roomy := Compute(10, []Occupant{user(1, 1, 0)}, []Occupant{guest(1, 1, 2, 0)})
	assert.Len(t, roomy.Playing, 2)
	assert.Empty(t, roomy.Waitlist)
}

func TestRenumber(t *testing.T) {
	t.Run("dense roster is untouched", func(t *testing.T) {
		ordered := Merge([]Occupant{user(1, 1, 0), user(2, 3, 0)}, []Occupant{guest(7, 1, 2, 0)})
		assert.Empty(t, Renumber(ordered))
	})

	t.Run("gaps and ties are closed in order", func(t *testing.T) {
		ordered := Merge(
			[]Occupant{user(1, 2, 0), user(2, 2, 1), user(3, 7, 0)},
			[]Occupant{guest(7, 1, 4, 0)},
		)
		got := Renumber(ordered)
		assert.Equal(t, []PositionUpdate{
			{Kind: KindUser, ID: 101, Position: 1},
			{Kind: KindGuest, ID: 7, Position: 3},
			{Kind: KindUser, ID: 103, Position: 4},
		}, got)
	})

	t.Run("applying updates makes it idempotent", func(t *testing.T) {
		ordered := Merge([]Occupant{user(1, 4, 0), user(2, 9, 0)}, nil)
		for _, u := range Renumber(ordered) {
			for i := range ordered {
				if ordered[i].ID == u.ID {
					ordered[i].Position = u.Position
				}
			}
		}
		assert.Empty(t, Renumber(ordered))
	})
}

func TestNextPosition(t *testing.T) {
	assert.Equal(t, 1, NextPosition(0))
	assert.Equal(t, 1, NextPosition(-2))
	assert.Equal(t, 8, NextPosition(7))
}

func TestSlotAt(t *testing.T) {
	for limit := 0; limit <= 4; limit++ {
		for overall := 1; overall <= 6; overall++ {
			s := SlotAt(overall, limit)
			assert.Equal(t, overall, s.Overall)
			assert.Equal(t, limit, s.Limit)
			if overall <= limit {
				assert.Equal(t, TierPlaying, s.Kind)
				assert.Equal(t, overall, s.Within)
			} else {
				assert.Equal(t, TierWaitlist, s.Kind)
				assert.Equal(t, overall-limit, s.Within)
			}
		}
	}
}

func TestRosterSlotFor(t *testing.T) {
	r := Compute(1, []Occupant{user(1, 1, 0), user(2, 2, 0)}, []Occupant{guest(5, 1, 2, -1)})

	slot, ok := r.SlotFor(2)
	require.True(t, ok)
	assert.Equal(t, Slot{Kind: TierWaitlist, Overall: 3, Within: 2, Limit: 1}, slot)

	_, ok = r.SlotFor(99)
	assert.False(t, ok)

	assert.True(t, r.HasWaitlisted(1), "sponsor of a waitlisted guest")
	assert.True(t, r.HasWaitlisted(2))
	assert.False(t, r.HasWaitlisted(99))
}

func TestDiff(t *testing.T) {
	r := Compute(2, []Occupant{user(1, 1, 0), user(2, 2, 0)}, []Occupant{guest(5, 1, 3, 0)})

	assert.Empty(t, Diff(r.PlayingKeys(), r))

	got := Diff([]string{"u:1", "u:9"}, r)
	require.Len(t, got, 1)
	assert.Equal(t, "u:2", got[0].Key)
	assert.Equal(t, 2, got[0].OverallRank)
	require.NotNil(t, got[0].OwnerUserID)
	assert.Equal(t, uint(2), *got[0].OwnerUserID)
}

func TestGroupByOwner(t *testing.T) {
	one, two := uint(1), uint(2)
	promotions := []Promotion{
		{Key: "u:1", OwnerUserID: &one, Label: "Ann"},
		{Key: "g:4", OwnerUserID: nil, Label: "Walk-in"},
		{Key: "u:2", OwnerUserID: &two, Label: "Bob"},
		{Key: "g:5", OwnerUserID: &one, Label: "Ann's friend"},
	}

	all := GroupByOwner(promotions, nil)
	require.Len(t, all, 2)
	assert.Equal(t, uint(1), all[0].UserID)
	assert.Len(t, all[0].Items, 2)
	assert.Equal(t, uint(2), all[1].UserID)

	opted := GroupByOwner(promotions, map[uint]bool{2: true})
	require.Len(t, opted, 1)
	assert.Equal(t, uint(2), opted[0].UserID)

	assert.Empty(t, GroupByOwner(promotions, map[uint]bool{}))
}
