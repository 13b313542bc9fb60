// Package scheduler runs background maintenance jobs on cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/strumspace-admin/internal/metrics"
	"github.com/crucial707/strumspace-admin/internal/models"
	"github.com/robfig/cron/v3"
)

// pruneTimeout bounds one prune run.
const pruneTimeout = time.Minute

// SongRequestStore deletes song requests created before cutoff and reports how many went.
type SongRequestStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type AuditLogger interface {
	Log(ctx context.Context, userID int, action, resourceType string, resourceID int, details string) error
}

// Pruner removes song requests older than Retention.
type Pruner struct {
	Store     SongRequestStore
	Audit     AuditLogger
	Retention time.Duration
	Now       func() time.Time
}

// PruneOnce deletes expired requests. A non-empty run is recorded in the
// audit log as a system action (user id 0).
func (p *Pruner) PruneOnce(ctx context.Context) (int64, error) {
	if p.Retention <= 0 {
		return 0, nil
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	cutoff := now().Add(-p.Retention)

	n, err := p.Store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune song requests: %w", err)
	}
	metrics.AddSongRequestsPruned(n)
	if n == 0 {
		return 0, nil
	}

	if p.Audit != nil {
		details := fmt.Sprintf("removed %d song requests created before %s", n, cutoff.UTC().Format(time.RFC3339))
		if err := p.Audit.Log(ctx, 0, models.AuditPrune, models.ResourceSongRequest, 0, details); err != nil {
			slog.WarnContext(ctx, "scheduler: audit prune", "error", err)
		}
	}
	return n, nil
}

// Scheduler wraps a cron runner. Overlapping runs of the same job are skipped.
type Scheduler struct {
	c *cron.Cron
}

// New registers the prune job on expr. It does not start the runner.
func New(expr string, p *Pruner) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
		defer cancel()

		n, err := p.PruneOnce(ctx)
		if err != nil {
			slog.Error("scheduler: prune song requests", "error", err)
			return
		}
		slog.Info("scheduler: pruned song requests", "count", n, "retention", p.Retention.String())
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: invalid cron expression %q: %w", expr, err)
	}
	return &Scheduler{c: c}, nil
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop stops scheduling and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
