package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow_NilClient(t *testing.T) {
	l := New(nil, "reset", 1, time.Hour)
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(context.Background(), "a@x")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	var none *Limiter
	ok, err := none.Allow(context.Background(), "a@x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	l := New(nil, "reset", 5, time.Hour)
	assert.Equal(t, "ratelimit:reset:ann@example.com", l.Key(" Ann@Example.com "))
}
