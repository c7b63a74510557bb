// Package handlers exposes the signup service over HTTP with gin.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/auth"
	"hoops_signup/internal/middleware"
	"hoops_signup/internal/notify"
	"hoops_signup/internal/ratelimit"
	"hoops_signup/internal/response"
	"hoops_signup/internal/schedules"
	"hoops_signup/internal/signups"
	"hoops_signup/internal/store"
	"hoops_signup/internal/ws"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Store     *store.Store
	Signups   *signups.Service
	Schedules *schedules.Service
	Tokens    *auth.Tokens
	Notifier  notify.Notifier
	Limiter   *ratelimit.Limiter
	Hub       *ws.Hub
	Log       *zap.Logger

	AdminEmails []string
	SiteName    string
	BaseURL     string

	// Middleware runs before every route (CORS and the like).
	Middleware []gin.HandlerFunc
	// Auth replaces the JWT middleware. Tests resolve the caller from a header.
	Auth gin.HandlerFunc
}

type Handler struct {
	Deps
	now func() time.Time
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewLog(d.Log)
	}
	return &Handler{Deps: d, now: time.Now}
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(d Deps) *gin.Engine {
	h := New(d)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(h.Log))
	r.Use(d.Middleware...)

	r.GET("/healthz", h.Healthz)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.RefreshToken)
		authGroup.POST("/password-reset/request", h.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", h.ConfirmPasswordReset)
	}

	authMW, wsAuthMW := d.Auth, d.Auth
	if authMW == nil {
		authMW = auth.Middleware(h.Tokens, h.Store)
		wsAuthMW = auth.WebSocketMiddleware(h.Tokens, h.Store)
	}

	if h.Hub != nil {
		r.GET("/api/schedules/:id/ws", wsAuthMW, h.Hub.ServeWS)
	}

	api := r.Group("/api", authMW)
	{
		api.GET("/schedules/active", h.ActiveRoster)
		api.GET("/schedules/:id/roster", h.Roster)

		api.POST("/signups", h.Signup)
		api.PATCH("/signups/availability", h.SetAvailability)

		api.POST("/guests", h.AddGuest)
		api.DELETE("/guests/:id", h.RemoveGuest)

		api.GET("/waitlist-notifications", h.WaitlistStatus)
		api.POST("/waitlist-notifications", h.SetWaitlistNotification)
	}

	admin := api.Group("/admin", auth.RequireAdmin())
	{
		admin.GET("/schedules", h.AdminListSchedules)
		admin.POST("/schedules", h.AdminCreateSchedule)
		admin.PATCH("/schedules", h.AdminPatchSchedule)

		admin.POST("/signups", h.AdminSignup)
		admin.POST("/signups/swap", h.AdminSwap)
		admin.PATCH("/signups/availability", h.AdminSetAvailability)

		admin.GET("/users", h.AdminListUsers)
		admin.PATCH("/users", h.AdminPatchUser)
	}

	return r
}

var statusByKind = map[apperr.Kind]int{
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindConflict:     http.StatusConflict,
	apperr.KindForbidden:    http.StatusForbidden,
	apperr.KindValidation:   http.StatusBadRequest,
	apperr.KindUnauthorized: http.StatusUnauthorized,
}

// respondError writes err as an ErrorResponse with the status of its kind.
// Internal errors are logged and their cause is not leaked.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = &apperr.Error{Kind: apperr.KindInternal, Code: "INTERNAL_ERROR", Message: "internal error", Err: err}
	}
	status, ok := statusByKind[ae.Kind]
	if !ok {
		status = http.StatusInternalServerError
		h.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.CtxRequestID)),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, response.ErrorResponse{Code: ae.Code, Message: ae.Message})
}

func validationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "invalid request body",
		Details: err.Error(),
	})
}

// actor builds the caller identity set by the auth middleware.
func actor(c *gin.Context) signups.Actor {
	return signups.Actor{
		ID:    c.GetUint(auth.CtxUserID),
		Label: c.GetString(auth.CtxLabel),
		Roles: c.GetString(auth.CtxRoles),
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_ID",
			Message: name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: name + " is required",
		})
		return 0, false
	}
	return uint(id), true
}

// Healthz reports whether the database answers.
//
// @Summary	Health check
// @Tags		system
// @Produce	json
// @Success	200	{object}	response.SuccessResponse
// @Failure	503	{object}	response.ErrorResponse	"Database unreachable (DB_UNAVAILABLE)"
// @Router		/healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	sqlDB, err := h.Store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Code: "DB_UNAVAILABLE", Message: "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "ok"})
}
