// Package backup periodically persists the in-progress session so that
// a crash never loses more than one interval of work.
package backup

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/remilekun/worklog/config"
	"github.com/remilekun/worklog/ledger"
)

var errAlreadyRunning = errors.New("backup scheduler is already running")

// Scheduler writes ledger snapshots to the session store on a fixed
// interval and on every committed transition. Write failures are logged
// and retried on the next tick, never surfaced to the user.
type Scheduler struct {
	ledger   *ledger.Ledger
	interval time.Duration

	started atomic.Bool
}

func New(ldg *ledger.Ledger, cfg *config.Config) *Scheduler {
	return &Scheduler{
		ledger:   ldg,
		interval: cfg.Backup.Interval,
	}
}

// Run ticks until the context is cancelled. Stopping is safe at any
// time: the snapshot written on the last completed tick remains in the
// store.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errAlreadyRunning
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.persist()
		case <-s.ledger.Commits():
			s.persist()
		}
	}
}

// persist asks the ledger to write a snapshot of the in-progress
// session, overwriting any prior snapshot under the same id. The ledger
// orders the write against its own final commit, so a snapshot started
// before EndSession can never replace the committed record.
func (s *Scheduler) persist() {
	snap, err := s.ledger.WriteSnapshot()
	if err != nil {
		slog.Warn(
			"session backup failed, retrying on next tick",
			"session_id", snap.ID,
			"error", err,
		)
	}
}
