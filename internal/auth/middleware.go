package auth

import (
	"context"
	"net/http"
	"strings"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/authz"
	"hoops_signup/internal/models"
	"hoops_signup/internal/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware.
const (
	CtxUserID = "userID"
	CtxRoles  = "roles"
	CtxLabel  = "label"
)

// UserLoader fetches the current state of a user.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (models.User, error)
}

// SetUser stores the caller on the gin context.
func SetUser(c *gin.Context, u models.User) {
	c.Set(CtxUserID, u.ID)
	c.Set(CtxRoles, u.RoleString())
	c.Set(CtxLabel, u.Label())
}

// Middleware checks the bearer access token and reloads the user, so role
// changes take effect on the next request.
func Middleware(tokens *Tokens, users UserLoader) gin.HandlerFunc {
	return authenticate(tokens, users, false)
}

// WebSocketMiddleware is Middleware that also takes the access token from the
// token query parameter, the only credential a browser WebSocket can send.
func WebSocketMiddleware(tokens *Tokens, users UserLoader) gin.HandlerFunc {
	return authenticate(tokens, users, true)
}

func authenticate(tokens *Tokens, users UserLoader, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" && allowQuery {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
				Code:    "NO_AUTH_HEADER",
				Message: "authorization required",
			})
			return
		}

		userID, err := tokens.ParseAccess(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "invalid or expired token",
			})
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if apperr.Is(err, apperr.KindNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
				Code:    "USER_NOT_FOUND",
				Message: "user not found",
			})
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "INTERNAL_ERROR",
				Message: "could not load user",
			})
			return
		}

		SetUser(c, user)
		c.Next()
	}
}

// RequireAdmin lets only callers with the admin role through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.IsAdmin(c.GetString(CtxRoles)) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "admin only",
			})
			return
		}
		c.Next()
	}
}
