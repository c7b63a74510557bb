// Package ratelimit is a fixed-window request counter kept in redis.
package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

type Limiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// New allows limit hits per window for each key. A nil client allows everything.
func New(rdb *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, prefix: prefix, limit: int64(limit), window: window}
}

// Key is the redis key counting hits for id.
func (l *Limiter) Key(id string) string {
	return "ratelimit:" + l.prefix + ":" + strings.ToLower(strings.TrimSpace(id))
}

// Allow records a hit for id and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, id string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}
	key := l.Key(id)

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= l.limit, nil
}
