package handlers

import (
	"net/http"
	"time"

	"hoops_signup/internal/models"
	"hoops_signup/internal/schedules"

	"github.com/gin-gonic/gin"
)

type CreateScheduleRequest struct {
	Title       string    `json:"title" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Active      bool      `json:"active"`
	Limit       *int      `json:"limit"`
	RepeatWeeks int       `json:"repeatWeeks"`
}

type PatchScheduleRequest struct {
	ScheduleID uint       `json:"scheduleId" binding:"required"`
	Active     *bool      `json:"active"`
	Limit      *int       `json:"limit"`
	Title      *string    `json:"title"`
	Date       *time.Time `json:"date"`
	Archived   *bool      `json:"archived"`
}

// @Summary		Active schedule roster
// @Description	Returns the open schedule with its playing and waitlist tiers and the caller's slot
// @Tags			schedules
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	RosterResponse
// @Failure		404	{object}	response.ErrorResponse	"No open schedule (NO_ACTIVE_SCHEDULE)"
// @Router			/api/schedules/active [get]
func (h *Handler) ActiveRoster(c *gin.Context) {
	view, err := h.Signups.ActiveView(c.Request.Context(), actor(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rosterResponse(view))
}

// @Summary		Schedule roster
// @Tags			schedules
// @Produce		json
// @Security		BearerAuth
// @Param			id	path		int	true	"Schedule ID"
// @Success		200	{object}	RosterResponse
// @Failure		400	{object}	response.ErrorResponse	"Invalid id (INVALID_ID)"
// @Failure		404	{object}	response.ErrorResponse	"Schedule not found (SCHEDULE_NOT_FOUND)"
// @Router			/api/schedules/{id}/roster [get]
func (h *Handler) Roster(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.Signups.View(c.Request.Context(), id, actor(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rosterResponse(view))
}

// @Summary		List schedules
// @Description	Archives stale schedules, then lists all of them by date
// @Tags			admin
// @Produce		json
// @Security		BearerAuth
// @Success		200	{array}		ScheduleDTO
// @Failure		403	{object}	response.ErrorResponse	"Admin only (FORBIDDEN)"
// @Router			/api/admin/schedules [get]
func (h *Handler) AdminListSchedules(c *gin.Context) {
	list, err := h.Schedules.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scheduleDTOs(list))
}

// @Summary		Create schedules
// @Description	Creates a schedule and optional weekly repeats. An active schedule enrolls all members.
// @Tags			admin
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			schedule	body		CreateScheduleRequest	true	"Schedule"
// @Success		201			{array}		ScheduleDTO
// @Failure		400			{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR)"
// @Failure		403			{object}	response.ErrorResponse	"Admin only (FORBIDDEN)"
// @Router			/api/admin/schedules [post]
func (h *Handler) AdminCreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	created, err := h.Schedules.Create(c.Request.Context(), schedules.CreateInput{
		Title:       req.Title,
		Date:        req.Date,
		Active:      req.Active,
		Limit:       req.Limit,
		RepeatWeeks: req.RepeatWeeks,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, scheduleDTOs(created))
}

// @Summary		Update a schedule
// @Description	Changes active, limit, title, date or archived. Activating deactivates every other schedule.
// @Tags			admin
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Param			patch	body		PatchScheduleRequest	true	"Fields to change"
// @Success		200		{object}	ScheduleDTO
// @Failure		400		{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR)"
// @Failure		404		{object}	response.ErrorResponse	"Schedule not found (SCHEDULE_NOT_FOUND)"
// @Router			/api/admin/schedules [patch]
func (h *Handler) AdminPatchSchedule(c *gin.Context) {
	var req PatchScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	ctx := c.Request.Context()
	update := func() (models.Schedule, error) {
		return h.Schedules.Update(ctx, schedules.PatchInput{
			ScheduleID: req.ScheduleID,
			Active:     req.Active,
			Limit:      req.Limit,
			Title:      req.Title,
			Date:       req.Date,
			Archived:   req.Archived,
		})
	}
	var (
		updated models.Schedule
		err     error
	)
	if req.Limit != nil && req.Archived == nil {
		updated, err = h.Signups.ChangeCapacity(ctx, req.ScheduleID, update)
	} else {
		updated, err = update()
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scheduleDTO(updated))
}
