package handlers

import (
	"net/http"

	"hoops_signup/internal/models"
	"hoops_signup/internal/response"
	"hoops_signup/internal/roster"
	"hoops_signup/internal/signups"

	"github.com/gin-gonic/gin"
)

const (
	actionJoin  = "join"
	actionLeave = "leave"
)

type SignupRequest struct {
	ScheduleID uint   `json:"scheduleId" binding:"required"`
	Action     string `json:"action" binding:"required,oneof=join leave"`
}

type AdminSignupRequest struct {
	ScheduleID uint   `json:"scheduleId" binding:"required"`
	UserID     uint   `json:"userId" binding:"required"`
	Action     string `json:"action" binding:"required,oneof=join leave"`
}

// SignupResponse answers join and leave. Changed is false for a repeated join
// or a leave without a signup.
type SignupResponse struct {
	OK      bool         `json:"ok"`
	Changed bool         `json:"changed"`
	Slot    *roster.Slot `json:"slot,omitempty"`
}

type AvailabilityRequest struct {
	ScheduleID       uint                    `json:"scheduleId" binding:"required"`
	AttendanceStatus models.AttendanceStatus `json:"attendanceStatus"`
	AttendanceNote   string                  `json:"attendanceNote"`
	ArriveAt         string                  `json:"arriveAt"`
	LeaveAt          string                  `json:"leaveAt"`
}

type AdminAvailabilityRequest struct {
	SignUpID         uint                    `json:"signUpId" binding:"required"`
	AttendanceStatus models.AttendanceStatus `json:"attendanceStatus"`
	AttendanceNote   string                  `json:"attendanceNote"`
	ArriveAt         string                  `json:"arriveAt"`
	LeaveAt          string                  `json:"leaveAt"`
}

type SwapRequest struct {
	ScheduleID uint `json:"scheduleId" binding:"required"`
	SignUpID1  uint `json:"signUpId1" binding:"required"`
	SignUpID2  uint `json:"signUpId2" binding:"required"`
}

type GuestRequest struct {
	ScheduleID uint   `json:"scheduleId" binding:"required"`
	GuestName  string `json:"guestName" binding:"required"`
	GuestOf    *uint  `json:"guestOfUserId"`
}

type WaitlistRequest struct {
	ScheduleID uint `json:"scheduleId" binding:"required"`
	Enabled    bool `json:"enabled"`
}

func availabilityInput(status models.AttendanceStatus, note, arrive, leave string) signups.AvailabilityInput {
	if status == "" {
		status = models.AttendanceFull
	}
	return signups.AvailabilityInput{Status: status, Note: note, ArriveAt: arrive, LeaveAt: leave}
}

// @Summary		Join or leave a schedule
// @Description	Joining appends the caller to the roster. Leaving may promote waitlisted players.
// @Tags			signups
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			request	body		SignupRequest	true	"Schedule and action"
// @Success		200		{object}	SignupResponse
// @Failure		400		{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR)"
// @Failure		404		{object}	response.ErrorResponse	"Schedule is not open (SCHEDULE_NOT_ACTIVE)"
// @Router			/api/signups [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	ctx := c.Request.Context()
	a := actor(c)

	if req.Action == actionJoin {
		res, err := h.Signups.Join(ctx, a, req.ScheduleID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, SignupResponse{OK: true, Changed: res.Created, Slot: res.Slot})
		return
	}

	left, err := h.Signups.Leave(ctx, a, req.ScheduleID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SignupResponse{OK: true, Changed: left})
}

// @Summary		Set own attendance
// @Tags			signups
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			request	body		AvailabilityRequest	true	"Attendance"
// @Success		200		{object}	SignUpDTO
// @Failure		400		{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR, INVALID_ATTENDANCE_STATUS, INVALID_TIME)"
// @Failure		403		{object}	response.ErrorResponse	"Not signed up (NOT_SIGNED_UP)"
// @Router			/api/signups/availability [patch]
func (h *Handler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	in := availabilityInput(req.AttendanceStatus, req.AttendanceNote, req.ArriveAt, req.LeaveAt)
	su, err := h.Signups.SetAvailability(c.Request.Context(), actor(c), req.ScheduleID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, signUpDTO(su))
}

// @Summary		Add a guest
// @Description	Players add guests they sponsor. Admins may sponsor anyone signed up or nobody.
// @Tags			guests
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			request	body		GuestRequest	true	"Guest"
// @Success		201		{object}	GuestDTO
// @Failure		400		{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR, SPONSOR_NOT_SIGNED_UP)"
// @Failure		403		{object}	response.ErrorResponse	"Not allowed (NOT_SIGNED_UP, FORBIDDEN)"
// @Router			/api/guests [post]
func (h *Handler) AddGuest(c *gin.Context) {
	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	g, err := h.Signups.AddGuest(c.Request.Context(), actor(c), signups.GuestInput{
		ScheduleID: req.ScheduleID,
		Name:       req.GuestName,
		GuestOf:    req.GuestOf,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, guestDTO(g))
}

// @Summary		Remove a guest
// @Tags			guests
// @Produce		json
// @Security		BearerAuth
// @Param			id	path		int	true	"Guest signup ID"
// @Success		200	{object}	response.OKResponse
// @Failure		403	{object}	response.ErrorResponse	"Not the adder, sponsor or an admin (FORBIDDEN)"
// @Failure		404	{object}	response.ErrorResponse	"Guest not found (GUEST_NOT_FOUND)"
// @Router			/api/guests/{id} [delete]
func (h *Handler) RemoveGuest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Signups.RemoveGuest(c.Request.Context(), actor(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OKResponse{OK: true})
}

// @Summary		Waitlist notification status
// @Tags			waitlist
// @Produce		json
// @Security		BearerAuth
// @Param			scheduleId	query		int	true	"Schedule ID"
// @Success		200			{object}	signups.WaitlistStatus
// @Failure		404			{object}	response.ErrorResponse	"Schedule is not open (SCHEDULE_NOT_ACTIVE)"
// @Router			/api/waitlist-notifications [get]
func (h *Handler) WaitlistStatus(c *gin.Context) {
	scheduleID, ok := queryID(c, "scheduleId")
	if !ok {
		return
	}
	st, err := h.Signups.WaitlistStatus(c.Request.Context(), actor(c).ID, scheduleID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary		Toggle waitlist notifications
// @Description	Enabling requires the caller or a guest they sponsor to be on the waitlist
// @Tags			waitlist
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			request	body		WaitlistRequest	true	"Schedule and flag"
// @Success		200		{object}	signups.WaitlistStatus
// @Failure		400		{object}	response.ErrorResponse	"Not on the waitlist (NOT_ON_WAITLIST)"
// @Router			/api/waitlist-notifications [post]
func (h *Handler) SetWaitlistNotification(c *gin.Context) {
	var req WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	ctx := c.Request.Context()
	a := actor(c)
	if _, err := h.Signups.SetWaitlistNotification(ctx, a.ID, req.ScheduleID, req.Enabled); err != nil {
		h.respondError(c, err)
		return
	}
	st, err := h.Signups.WaitlistStatus(ctx, a.ID, req.ScheduleID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary		Sign any user up or out
// @Tags			admin
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			request	body		AdminSignupRequest	true	"Schedule, user and action"
// @Success		200		{object}	SignupResponse
// @Failure		404		{object}	response.ErrorResponse	"Schedule or user not found (SCHEDULE_NOT_FOUND, USER_NOT_FOUND)"
// @Router			/api/admin/signups [post]
func (h *Handler) AdminSignup(c *gin.Context) {
	var req AdminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	ctx := c.Request.Context()
	a := actor(c)

	if req.Action == actionJoin {
		res, err := h.Signups.AdminJoin(ctx, a, req.ScheduleID, req.UserID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, SignupResponse{OK: true, Changed: res.Created, Slot: res.Slot})
		return
	}

	left, err := h.Signups.AdminLeave(ctx, a, req.ScheduleID, req.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SignupResponse{OK: true, Changed: left})
}

// @Summary		Swap two signups
// @Tags			admin
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			request	body		SwapRequest	true	"Signups to swap"
// @Success		200		{object}	response.OKResponse
// @Failure		400		{object}	response.ErrorResponse	"Signup belongs to another schedule (SIGNUP_SCHEDULE_MISMATCH)"
// @Failure		404		{object}	response.ErrorResponse	"Signup not found (SIGNUP_NOT_FOUND)"
// @Router			/api/admin/signups/swap [post]
func (h *Handler) AdminSwap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if err := h.Signups.Swap(c.Request.Context(), actor(c), req.ScheduleID, req.SignUpID1, req.SignUpID2); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OKResponse{OK: true})
}

// @Summary		Set a player's attendance
// @Tags			admin
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			request	body		AdminAvailabilityRequest	true	"Attendance"
// @Success		200		{object}	SignUpDTO
// @Failure		404		{object}	response.ErrorResponse	"Signup not found (SIGNUP_NOT_FOUND)"
// @Router			/api/admin/signups/availability [patch]
func (h *Handler) AdminSetAvailability(c *gin.Context) {
	var req AdminAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	in := availabilityInput(req.AttendanceStatus, req.AttendanceNote, req.ArriveAt, req.LeaveAt)
	su, err := h.Signups.AdminSetAvailability(c.Request.Context(), actor(c), req.SignUpID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, signUpDTO(su))
}
