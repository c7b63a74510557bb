package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"slices"
	"strings"
	"time"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/authz"
	"hoops_signup/internal/models"
	"hoops_signup/internal/notify"
	"hoops_signup/internal/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
var BcryptCost = 12

const (
	resetTokenTTL  = time.Hour
	resetTokenSize = 32
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetConfirmRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginResponse is the token pair plus the signed in user.
type LoginResponse struct {
	response.TokenResponse
	User UserDTO `json:"user"`
}

// @Summary		Register
// @Description	Creates an account with email and password
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			user	body		RegisterRequest				true	"Account data"
// @Success		201		{object}	UserDTO
// @Failure		400		{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR)"
// @Failure		409		{object}	response.ErrorResponse	"Email already registered (EMAIL_TAKEN)"
// @Failure		500		{object}	response.ErrorResponse	"Server error (PASSWORD_HASH_ERROR, DB_ERROR)"
// @Router			/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		h.respondError(c, apperr.Wrap(err, "PASSWORD_HASH_ERROR", "could not hash password"))
		return
	}

	user := models.User{Email: req.Email, PasswordHash: string(hash)}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = &name
	}
	if err := h.Store.CreateUser(c.Request.Context(), &user); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userDTO(user))
}

// @Summary		Login
// @Description	Checks the password and returns an access/refresh token pair
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			credentials	body		LoginRequest	true	"Email and password"
// @Success		200			{object}	LoginResponse
// @Failure		400			{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR)"
// @Failure		401			{object}	response.ErrorResponse	"Wrong email or password (INVALID_CREDENTIALS)"
// @Failure		500			{object}	response.ErrorResponse	"Server error (TOKEN_GENERATION_ERROR, DB_ERROR)"
// @Router			/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	ctx := c.Request.Context()

	user, err := h.Store.FindUserByEmail(ctx, req.Email)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		h.respondError(c, err)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.respondError(c, apperr.Unauthorized("INVALID_CREDENTIALS", "wrong email or password"))
		return
	}

	if slices.Contains(h.AdminEmails, user.Email) && !authz.IsAdmin(user.RoleString()) {
		roles := authz.AddRole(user.RoleString(), authz.RoleAdmin)
		if user, err = h.Store.UpdateUser(ctx, user.ID, map[string]any{"roles": roles}); err != nil {
			h.respondError(c, err)
			return
		}
		h.Log.Info("granted admin from ADMIN_EMAILS", zap.Uint("user_id", user.ID))
	}

	access, refresh, err := h.Tokens.Pair(user.ID)
	if err != nil {
		h.respondError(c, apperr.Wrap(err, "TOKEN_GENERATION_ERROR", "could not issue tokens"))
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		TokenResponse: response.TokenResponse{AccessToken: access, RefreshToken: refresh},
		User:          userDTO(user),
	})
}

// @Summary		Refresh tokens
// @Description	Exchanges a refresh token for a new token pair
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			token	body		RefreshRequest	true	"Refresh token"
// @Success		200		{object}	response.TokenResponse
// @Failure		400		{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR)"
// @Failure		401		{object}	response.ErrorResponse	"Invalid refresh token (INVALID_REFRESH_TOKEN)"
// @Router			/auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	userID, err := h.Tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		h.respondError(c, apperr.Unauthorized("INVALID_REFRESH_TOKEN", "invalid or expired refresh token"))
		return
	}
	if _, err := h.Store.GetUser(c.Request.Context(), userID); err != nil {
		h.respondError(c, apperr.Unauthorized("INVALID_REFRESH_TOKEN", "invalid or expired refresh token"))
		return
	}

	access, refresh, err := h.Tokens.Pair(userID)
	if err != nil {
		h.respondError(c, apperr.Wrap(err, "TOKEN_GENERATION_ERROR", "could not issue tokens"))
		return
	}
	c.JSON(http.StatusOK, response.TokenResponse{AccessToken: access, RefreshToken: refresh})
}

// @Summary		Request a password reset
// @Description	Emails a reset link when the account exists. Always answers 200.
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			request	body		ResetRequest	true	"Account email"
// @Success		200		{object}	response.SuccessResponse
// @Failure		400		{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR)"
// @Router			/auth/password-reset/request [post]
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	ok := response.SuccessResponse{Message: "if the account exists, a reset link has been sent"}
	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, err := h.Limiter.Allow(ctx, email)
	if err != nil {
		h.Log.Warn("reset rate limiter failed", zap.Error(err))
	} else if !allowed {
		h.Log.Info("reset request rate limited", zap.String("email", email))
		c.JSON(http.StatusOK, ok)
		return
	}

	user, err := h.Store.FindUserByEmail(ctx, email)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			h.Log.Error("reset lookup failed", zap.Error(err))
		}
		c.JSON(http.StatusOK, ok)
		return
	}

	token, err := newResetToken()
	if err != nil {
		h.Log.Error("reset token generation failed", zap.Error(err))
		c.JSON(http.StatusOK, ok)
		return
	}
	if err := h.Store.ReplaceResetToken(ctx, user.ID, hashToken(token), h.now().UTC().Add(resetTokenTTL)); err != nil {
		h.Log.Error("reset token store failed", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusOK, ok)
		return
	}

	msg := notify.BuildPasswordResetEmail(notify.PasswordResetData{
		SiteName: h.SiteName,
		BaseURL:  h.BaseURL,
		Email:    user.Email,
		Token:    token,
	})
	if err := h.Notifier.Send(ctx, msg); err != nil {
		h.Log.Error("reset email failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	c.JSON(http.StatusOK, ok)
}

// @Summary		Confirm a password reset
// @Description	Sets a new password using the emailed token
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			request	body		ResetConfirmRequest	true	"Email, token and new password"
// @Success		200		{object}	response.SuccessResponse
// @Failure		400		{object}	response.ErrorResponse	"Validation error or bad token (VALIDATION_ERROR, INVALID_RESET_TOKEN)"
// @Router			/auth/password-reset/confirm [post]
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	ctx := c.Request.Context()
	invalid := apperr.Validation("INVALID_RESET_TOKEN", "reset link is invalid or expired")

	user, err := h.Store.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			err = invalid
		}
		h.respondError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		h.respondError(c, apperr.Wrap(err, "PASSWORD_HASH_ERROR", "could not hash password"))
		return
	}
	if err := h.Store.ConsumeResetToken(ctx, user.ID, hashToken(strings.TrimSpace(req.Token)), string(hash), h.now().UTC()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "password updated"})
}

func newResetToken() (string, error) {
	buf := make([]byte, resetTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
