// Package auth issues and checks JWTs and guards the gin routes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoSecret     = errors.New("jwt signing secret is empty")
)

// Token types carried in the typ claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Tokens signs access and refresh tokens with separate secrets.
type Tokens struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	now           func() time.Time
}

func NewTokens(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Tokens {
	return &Tokens{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Pair returns a fresh access and refresh token for the user.
func (t *Tokens) Pair(userID uint) (access, refresh string, err error) {
	access, err = t.generate(userID, TypeAccess, t.AccessTTL, t.AccessSecret)
	if err != nil {
		return "", "", err
	}
	refresh, err = t.generate(userID, TypeRefresh, t.RefreshTTL, t.RefreshSecret)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (t *Tokens) ParseAccess(token string) (uint, error) {
	return t.parse(token, TypeAccess, t.AccessSecret)
}

func (t *Tokens) ParseRefresh(token string) (uint, error) {
	return t.parse(token, TypeRefresh, t.RefreshSecret)
}

func (t *Tokens) generate(userID uint, typ string, ttl time.Duration, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	now := t.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"typ":     typ,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (t *Tokens) parse(tokenString, typ string, secret []byte) (uint, error) {
	if len(secret) == 0 {
		return 0, ErrInvalidToken
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if got, _ := claims["typ"].(string); got != typ {
		return 0, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
