// Package tasks runs the periodic maintenance jobs.
package tasks

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Archiver archives stale schedules.
type Archiver interface {
	ArchiveStale(ctx context.Context) (int64, error)
}

// TokenPurger drops expired password reset tokens.
type TokenPurger interface {
	PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

const (
	ArchiveSpec = "0 */10 * * * *"
	PurgeSpec   = "0 0 * * * *"

	jobTimeout = time.Minute
)

type Planner struct {
	archiver Archiver
	purger   TokenPurger
	log      *zap.Logger
	now      func() time.Time
}

func NewPlanner(archiver Archiver, purger TokenPurger, log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{archiver: archiver, purger: purger, log: log, now: time.Now}
}

// ArchiveStaleSchedules is the body of the archive job.
func (p *Planner) ArchiveStaleSchedules() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := p.archiver.ArchiveStale(ctx)
	if err != nil {
		p.log.Error("archive stale schedules", zap.Error(err))
		return
	}
	p.log.Debug("archive job done", zap.Int64("archived", n))
}

// PurgeExpiredTokens is the body of the token cleanup job.
func (p *Planner) PurgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := p.purger.PurgeExpiredResetTokens(ctx, p.now().UTC())
	if err != nil {
		p.log.Error("purge expired reset tokens", zap.Error(err))
		return
	}
	if n > 0 {
		p.log.Info("purged expired reset tokens", zap.Int64("count", n))
	}
}

// Register adds the jobs to c.
func (p *Planner) Register(c *cron.Cron) error {
	if _, err := c.AddFunc(ArchiveSpec, p.ArchiveStaleSchedules); err != nil {
		return err
	}
	if _, err := c.AddFunc(PurgeSpec, p.PurgeExpiredTokens); err != nil {
		return err
	}
	return nil
}

// InitScheduler starts a seconds-resolution cron with the maintenance jobs.
// Stop the returned cron on shutdown.
func InitScheduler(p *Planner) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if err := p.Register(c); err != nil {
		return nil, err
	}
	c.Start()
	p.log.Info("cron scheduler started")
	return c, nil
}
