package signups

import (
	"context"

	"hoops_signup/internal/models"
	"hoops_signup/internal/roster"
)

// RosterEntry is one line of the roster as shown to players.
type RosterEntry struct {
	Key              string                  `json:"key"`
	Kind             roster.Kind             `json:"kind"`
	ID               uint                    `json:"id"`
	UserID           *uint                   `json:"userId,omitempty"`
	Label            string                  `json:"label"`
	Tier             roster.Tier             `json:"tier"`
	Overall          int                     `json:"overall"`
	Within           int                     `json:"within"`
	AttendanceStatus models.AttendanceStatus `json:"attendanceStatus,omitempty"`
	AttendanceNote   *string                 `json:"attendanceNote,omitempty"`
	ArriveAt         *string                 `json:"arriveAt,omitempty"`
	LeaveAt          *string                 `json:"leaveAt,omitempty"`
}

// RosterView is a schedule with its ordered roster and the viewer's slot.
type RosterView struct {
	Schedule models.Schedule `json:"-"`
	Playing  []RosterEntry   `json:"playing"`
	Waitlist []RosterEntry   `json:"waitlist"`
	Viewer   *roster.Slot    `json:"viewerSlot"`
}

// View renders the roster of a schedule for viewerID.
func (s *Service) View(ctx context.Context, scheduleID, viewerID uint) (RosterView, error) {
	sch, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return RosterView{}, err
	}
	r, err := s.roster.Roster(ctx, sch.ID)
	if err != nil {
		return RosterView{}, err
	}
	signups, err := s.store.ListSignUps(ctx, sch.ID)
	if err != nil {
		return RosterView{}, err
	}
	byID := make(map[uint]models.SignUp, len(signups))
	for _, su := range signups {
		byID[su.ID] = su
	}

	v := RosterView{
		Schedule: sch,
		Playing:  make([]RosterEntry, 0, len(r.Playing)),
		Waitlist: make([]RosterEntry, 0, len(r.Waitlist)),
	}
	for _, e := range r.Playing {
		v.Playing = append(v.Playing, entryView(e, byID))
	}
	for _, e := range r.Waitlist {
		v.Waitlist = append(v.Waitlist, entryView(e, byID))
	}
	if slot, ok := r.SlotFor(viewerID); ok {
		v.Viewer = &slot
	}
	return v, nil
}

// ActiveView renders the currently open schedule.
func (s *Service) ActiveView(ctx context.Context, viewerID uint) (RosterView, error) {
	sch, err := s.store.ActiveSchedule(ctx)
	if err != nil {
		return RosterView{}, err
	}
	return s.View(ctx, sch.ID, viewerID)
}

func entryView(e roster.Entry, signups map[uint]models.SignUp) RosterEntry {
	out := RosterEntry{
		Key:     e.Key(),
		Kind:    e.Kind,
		ID:      e.ID,
		UserID:  e.OwnerUserID(),
		Label:   e.Label,
		Tier:    e.Tier,
		Overall: e.Overall,
		Within:  e.Within,
	}
	if e.Kind == roster.KindUser {
		if su, ok := signups[e.ID]; ok {
			out.AttendanceStatus = su.AttendanceStatus
			out.AttendanceNote = su.AttendanceNote
			out.ArriveAt = su.ArriveAt
			out.LeaveAt = su.LeaveAt
		}
	}
	return out
}
