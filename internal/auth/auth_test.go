package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type users map[uint]models.User

// brokenID makes the loader fail as if the database were down.
const brokenID = 99

func (u users) GetUser(_ context.Context, id uint) (models.User, error) {
	if id == brokenID {
		return models.User{}, errors.New("connection refused")
	}
	if user, ok := u[id]; ok {
		return user, nil
	}
	return models.User{}, apperr.NotFound("USER_NOT_FOUND", "user not found")
}

func newTokens() *Tokens {
	return NewTokens([]byte("access"), []byte("refresh"), 15*time.Minute, time.Hour)
}

func TestTokens_RoundTrip(t *testing.T) {
	tk := newTokens()
	access, refresh, err := tk.Pair(42)
	require.NoError(t, err)

	id, err := tk.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	id, err = tk.ParseRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = tk.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh token is not an access token")
}

func TestTokens_SameSecretKeepsTypesApart(t *testing.T) {
	tk := NewTokens([]byte("shared"), []byte("shared"), 15*time.Minute, time.Hour)
	access, refresh, err := tk.Pair(7)
	require.NoError(t, err)

	_, err = tk.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tk.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	untyped := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Minute).Unix(),
	})
	raw, err := untyped.SignedString([]byte("shared"))
	require.NoError(t, err)
	_, err = tk.ParseAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_EmptySecret(t *testing.T) {
	tk := NewTokens(nil, nil, 15*time.Minute, time.Hour)
	_, _, err := tk.Pair(7)
	assert.ErrorIs(t, err, ErrNoSecret)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"typ":     TypeAccess,
		"exp":     time.Now().Add(time.Minute).Unix(),
	})
	raw, err := forged.SignedString([]byte{})
	require.NoError(t, err)
	_, err = tk.ParseAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Expired(t *testing.T) {
	tk := newTokens()
	tk.now = func() time.Time { return time.Now().Add(-time.Hour) }
	access, _, err := tk.Pair(1)
	require.NoError(t, err)

	tk.now = time.Now
	_, err = tk.ParseAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newRouter(tk *Tokens, u users) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Middleware(tk, u), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint(CtxUserID), "label": c.GetString(CtxLabel)})
	})
	r.GET("/admin", Middleware(tk, u), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/ws", WebSocketMiddleware(tk, u), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint(CtxUserID)})
	})
	return r
}

func TestMiddleware(t *testing.T) {
	tk := newTokens()
	admin := "admin"
	name := "Ann"
	u := users{
		1: {Model: gorm.Model{ID: 1}, Email: "ann@x", Name: &name},
		2: {Model: gorm.Model{ID: 2}, Email: "boss@x", Roles: &admin},
	}
	r := newRouter(tk, u)

	do := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Bearer junk").Code)

	access1, _, _ := tk.Pair(1)
	w := do("/me", "Bearer "+access1)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"label":"Ann"}`, w.Body.String())
	assert.Equal(t, http.StatusForbidden, do("/admin", "Bearer "+access1).Code)

	access2, _, _ := tk.Pair(2)
	assert.Equal(t, http.StatusNoContent, do("/admin", "Bearer "+access2).Code)

	gone, _, _ := tk.Pair(3)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Bearer "+gone).Code)
}

func TestMiddleware_StoreFailureIsNotUnauthorized(t *testing.T) {
	tk := newTokens()
	r := newRouter(tk, users{})

	access, _, err := tk.Pair(brokenID)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestWebSocketMiddleware_QueryToken(t *testing.T) {
	tk := newTokens()
	r := newRouter(tk, users{5: {Model: gorm.Model{ID: 5}, Email: "eve@x"}})
	access, refresh, err := tk.Pair(5)
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/ws?token=" + access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get("/ws").Code)
	assert.Equal(t, http.StatusUnauthorized, get("/ws?token="+refresh).Code)
	assert.Equal(t, http.StatusUnauthorized, get("/me?token="+access).Code, "plain routes ignore the query token")
}
