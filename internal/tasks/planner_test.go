package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeArchiver struct {
	calls int
	err   error
}

func (f *fakeArchiver) ArchiveStale(context.Context) (int64, error) {
	f.calls++
	return 2, f.err
}

type fakePurger struct {
	at  time.Time
	err error
}

func (f *fakePurger) PurgeExpiredResetTokens(_ context.Context, now time.Time) (int64, error) {
	f.at = now
	return 1, f.err
}

func TestPlanner_Jobs(t *testing.T) {
	a, p := &fakeArchiver{}, &fakePurger{}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pl := NewPlanner(a, p, nil)
	pl.now = func() time.Time { return fixed }

	pl.ArchiveStaleSchedules()
	pl.PurgeExpiredTokens()

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, fixed, p.at)
}

func TestPlanner_FailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	pl := NewPlanner(&fakeArchiver{err: errors.New("db down")}, &fakePurger{err: errors.New("db down")}, zap.New(core))

	pl.ArchiveStaleSchedules()
	pl.PurgeExpiredTokens()

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "archive stale schedules", logs.All()[0].Message)
	assert.Equal(t, "purge expired reset tokens", logs.All()[1].Message)
}

func TestPlanner_Register(t *testing.T) {
	c := cron.New(cron.WithSeconds())
	require.NoError(t, NewPlanner(&fakeArchiver{}, &fakePurger{}, nil).Register(c))
	assert.Len(t, c.Entries(), 2)
}
