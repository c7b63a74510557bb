package handlers

import (
	"time"

	"hoops_signup/internal/authz"
	"hoops_signup/internal/models"
	"hoops_signup/internal/signups"
)

type ScheduleDTO struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	Date       time.Time  `json:"date"`
	Active     bool       `json:"active"`
	Limit      int        `json:"limit"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func scheduleDTO(s models.Schedule) ScheduleDTO {
	return ScheduleDTO{
		ID:         s.ID,
		Title:      s.Title,
		Date:       s.Date,
		Active:     s.Active,
		Limit:      s.Limit,
		ArchivedAt: s.ArchivedAt,
		CreatedAt:  s.CreatedAt,
	}
}

func scheduleDTOs(in []models.Schedule) []ScheduleDTO {
	out := make([]ScheduleDTO, 0, len(in))
	for _, s := range in {
		out = append(out, scheduleDTO(s))
	}
	return out
}

type UserDTO struct {
	ID                uint      `json:"id"`
	Email             string    `json:"email"`
	Name              *string   `json:"name"`
	Roles             []string  `json:"roles"`
	Member            bool      `json:"member"`
	MustResetPassword bool      `json:"mustResetPassword"`
	CreatedAt         time.Time `json:"createdAt"`
}

func userDTO(u models.User) UserDTO {
	roles := authz.Parse(u.RoleString())
	if roles == nil {
		roles = []string{}
	}
	return UserDTO{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Roles:             roles,
		Member:            u.Member,
		MustResetPassword: u.MustResetPassword,
		CreatedAt:         u.CreatedAt,
	}
}

type SignUpDTO struct {
	ID               uint                    `json:"id"`
	ScheduleID       uint                    `json:"scheduleId"`
	UserID           uint                    `json:"userId"`
	Position         int                     `json:"position"`
	AttendanceStatus models.AttendanceStatus `json:"attendanceStatus"`
	AttendanceNote   *string                 `json:"attendanceNote"`
	ArriveAt         *string                 `json:"arriveAt"`
	LeaveAt          *string                 `json:"leaveAt"`
	CreatedAt        time.Time               `json:"createdAt"`
}

func signUpDTO(s models.SignUp) SignUpDTO {
	return SignUpDTO{
		ID:               s.ID,
		ScheduleID:       s.ScheduleID,
		UserID:           s.UserID,
		Position:         s.Position,
		AttendanceStatus: s.AttendanceStatus,
		AttendanceNote:   s.AttendanceNote,
		ArriveAt:         s.ArriveAt,
		LeaveAt:          s.LeaveAt,
		CreatedAt:        s.CreatedAt,
	}
}

type GuestDTO struct {
	ID            uint      `json:"id"`
	ScheduleID    uint      `json:"scheduleId"`
	GuestName     string    `json:"guestName"`
	GuestOfUserID *uint     `json:"guestOfUserId"`
	AddedByUserID uint      `json:"addedByUserId"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"createdAt"`
}

func guestDTO(g models.GuestSignUp) GuestDTO {
	return GuestDTO{
		ID:            g.ID,
		ScheduleID:    g.ScheduleID,
		GuestName:     g.GuestName,
		GuestOfUserID: g.GuestOfUserID,
		AddedByUserID: g.AddedByUserID,
		Position:      g.Position,
		CreatedAt:     g.CreatedAt,
	}
}

// RosterResponse is a schedule with its roster split into tiers.
type RosterResponse struct {
	Schedule ScheduleDTO `json:"schedule"`
	signups.RosterView
}

func rosterResponse(v signups.RosterView) RosterResponse {
	return RosterResponse{Schedule: scheduleDTO(v.Schedule), RosterView: v}
}
