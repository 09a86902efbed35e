// Package monitor polls activity samples and drives the ledger's
// auto-idle transitions.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/remilekun/worklog/config"
	"github.com/remilekun/worklog/internal/apperr"
	"github.com/remilekun/worklog/ledger"
)

// Sample is one observation of the user's input activity. IdleFor is
// the time elapsed since the last keyboard, pointer, or window-focus
// event; Window identifies the foreground window.
type Sample struct {
	Timestamp time.Time
	IdleFor   time.Duration
	Window    string
}

// Sampler supplies activity samples. OS-level hooking lives behind this
// boundary; worklog only consumes the values.
type Sampler interface {
	Sample() (Sample, error)
}

var errAlreadyRunning = errors.New("monitor is already running")

// Monitor runs the polling loop. It requires the idle duration to stay
// at or above the threshold across two consecutive polls before firing,
// so a single spurious sample never causes thrashing.
type Monitor struct {
	sampler Sampler
	ledger  *ledger.Ledger
	opts    *config.Config

	started atomic.Bool

	// first sample observed at or above the threshold; the back-dated
	// idle boundary is computed from it, not from the confirming poll
	pending *Sample
	idle    bool
}

func New(sampler Sampler, ldg *ledger.Ledger, cfg *config.Config) *Monitor {
	return &Monitor{
		sampler: sampler,
		ledger:  ldg,
		opts:    cfg,
	}
}

// Run polls until the context is cancelled. It is non-restartable and
// safe to stop at any time; sampler and ledger errors are logged and
// the loop continues on the next tick.
func (m *Monitor) Run(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return errAlreadyRunning
	}

	ticker := time.NewTicker(m.opts.Tracking.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			sample, err := m.sampler.Sample()
			if err != nil {
				slog.Warn("activity sample failed", "error", err)
				continue
			}

			m.observe(sample)
		}
	}
}

// observe applies one sample to the debounce state machine.
func (m *Monitor) observe(sample Sample) {
	threshold := m.opts.Tracking.IdleThreshold

	if sample.IdleFor < threshold {
		m.pending = nil

		if m.idle {
			m.idle = false
			m.signalResumed()
		}

		return
	}

	if m.idle {
		return
	}

	if m.pending == nil {
		s := sample
		m.pending = &s

		return
	}

	idleSince := m.pending.Timestamp.Add(-m.pending.IdleFor)

	m.pending = nil
	m.idle = true

	m.signalIdle(idleSince)
}

func (m *Monitor) signalIdle(idleSince time.Time) {
	err := m.ledger.IdleThresholdExceeded(idleSince)
	if err != nil {
		// nothing to do when no session is running
		if errors.Is(err, &apperr.Error{Kind: apperr.InvalidState}) {
			m.idle = false
			return
		}

		slog.Warn("idle transition failed", "error", err)

		return
	}

	m.notify(
		"Worklog: idle",
		"No activity detected; the session switched to idle time",
	)
}

func (m *Monitor) signalResumed() {
	err := m.ledger.ActivityResumed()
	if err != nil {
		if errors.Is(err, &apperr.Error{Kind: apperr.InvalidState}) {
			return
		}

		slog.Warn("resume transition failed", "error", err)

		return
	}

	m.notify(
		"Worklog: resumed",
		"Activity detected; the session left idle time",
	)
}

// notify sends a desktop notification.
func (m *Monitor) notify(title, msg string) {
	if !m.opts.Notify.Enabled {
		return
	}

	if err := beeep.Notify(title, msg, ""); err != nil {
		slog.Warn("unable to display notification", "error", err)
	}
}
