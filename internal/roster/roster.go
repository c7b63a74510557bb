// Package roster orders the occupants of one schedule and splits them into
// the playing tier and the waitlist.
//
// Order is (Position ASC, CreatedAt ASC) over signups and guest signups
// together. The first Limit entries play; the rest wait. Everything else in
// the application (normalizing positions, waitlist promotion emails, the
// "you are #3 on the waitlist" line) is derived from this one ordering.
package roster

import (
	"cmp"
	"slices"
	"strconv"
	"time"
)

type Kind string

const (
	KindUser  Kind = "user"
	KindGuest Kind = "guest"
)

type Tier string

const (
	TierPlaying  Tier = "playing"
	TierWaitlist Tier = "waitlist"
)

// Occupant is one row of the roster as loaded from the store.
//
// For KindUser, ID is the signup id and UserID the player.
// For KindGuest, ID is the guest signup id and UserID is the sponsor (0 when
// there is none, in which case OwnerUserID is nil as well).
type Occupant struct {
	Kind      Kind
	ID        uint
	UserID    uint
	Label     string
	Position  int
	CreatedAt time.Time
}

// Key identifies the occupant across two reads of the same roster.
func (o Occupant) Key() string {
	if o.Kind == KindGuest {
		return "g:" + strconv.FormatUint(uint64(o.ID), 10)
	}
	return "u:" + strconv.FormatUint(uint64(o.UserID), 10)
}

// OwnerUserID is the user responsible for this seat: the player themselves,
// or the sponsor of a guest. Unsponsored guests have no owner.
func (o Occupant) OwnerUserID() *uint {
	if o.UserID == 0 {
		return nil
	}
	id := o.UserID
	return &id
}

// Entry is an occupant placed in the ordered roster.
type Entry struct {
	Occupant
	Overall int  // 1-based rank over the whole roster
	Tier    Tier // playing or waitlist
	Within  int  // 1-based rank inside Tier
}

type Roster struct {
	Limit    int
	Playing  []Entry
	Waitlist []Entry
}

func compareOccupants(a, b Occupant) int {
	if c := cmp.Compare(a.Position, b.Position); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

// Merge returns users and guests as one sequence in roster order. Inputs are
// sorted first, so callers may pass them in any order. On an exact
// (Position, CreatedAt) tie the user row is placed first.
func Merge(users, guests []Occupant) []Occupant {
	u := slices.Clone(users)
	g := slices.Clone(guests)
	slices.SortStableFunc(u, compareOccupants)
	slices.SortStableFunc(g, compareOccupants)

	out := make([]Occupant, 0, len(u)+len(g))
	i, j := 0, 0
	for i < len(u) && j < len(g) {
		if compareOccupants(g[j], u[i]) < 0 {
			out = append(out, g[j])
			j++
			continue
		}
		out = append(out, u[i])
		i++
	}
	out = append(out, u[i:]...)
	return append(out, g[j:]...)
}

// Compute builds the partitioned roster. A negative limit is treated as 0.
func Compute(limit int, users, guests []Occupant) Roster {
	return FromOrdered(limit, Merge(users, guests))
}

// FromOrdered partitions an already merged sequence.
func FromOrdered(limit int, ordered []Occupant) Roster {
	if limit < 0 {
		limit = 0
	}
	r := Roster{Limit: limit}
	for idx, o := range ordered {
		slot := SlotAt(idx+1, limit)
		e := Entry{Occupant: o, Overall: slot.Overall, Tier: slot.Kind, Within: slot.Within}
		if e.Tier == TierPlaying {
			r.Playing = append(r.Playing, e)
		} else {
			r.Waitlist = append(r.Waitlist, e)
		}
	}
	return r
}

// All returns playing followed by waitlist, i.e. the full roster order.
func (r Roster) All() []Entry {
	out := make([]Entry, 0, len(r.Playing)+len(r.Waitlist))
	out = append(out, r.Playing...)
	return append(out, r.Waitlist...)
}

func (r Roster) Len() int { return len(r.Playing) + len(r.Waitlist) }

// PlayingKeys returns the keys of the playing tier in roster order.
func (r Roster) PlayingKeys() []string {
	keys := make([]string, 0, len(r.Playing))
	for _, e := range r.Playing {
		keys = append(keys, e.Key())
	}
	return keys
}

// SlotFor locates the user's own signup (guests are ignored).
func (r Roster) SlotFor(userID uint) (Slot, bool) {
	for _, e := range r.All() {
		if e.Kind == KindUser && e.UserID == userID {
			return SlotAt(e.Overall, r.Limit), true
		}
	}
	return Slot{}, false
}

// HasWaitlisted reports whether the user or a guest they sponsor sits in the
// waitlist tier. It gates the waitlist notification opt-in.
func (r Roster) HasWaitlisted(userID uint) bool {
	for _, e := range r.Waitlist {
		if e.UserID == userID {
			return true
		}
	}
	return false
}
