// Package ledger holds the in-progress session and the state machine
// that governs transitions between active, break, and idle periods.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/remilekun/worklog/config"
	"github.com/remilekun/worklog/internal/clock"
	"github.com/remilekun/worklog/internal/period"
	"github.com/remilekun/worklog/internal/timeutil"
	"github.com/remilekun/worklog/store"
)

// State identifies the ledger's position in its state machine.
type State string

const (
	StateNoSession State = "no_session"
	StateActive    State = "active"
	StateOnBreak   State = "on_break"
	StateAutoIdle  State = "auto_idle"
)

// Ledger exclusively owns the in-progress session. Every read and write
// of its state, whether from a foreground command or a background loop,
// is serialized through one mutex, and no I/O happens while it is held.
type Ledger struct {
	mu sync.Mutex

	// wmu orders session-record writes. A snapshot capture and its
	// store write hold it together, as do EndSession's final commit
	// and state reset, so a slow snapshot write can never land after
	// the committed record and replace it. Commands other than
	// EndSession never touch it.
	wmu sync.Mutex

	db      store.DB
	clock   clock.Clock
	opts    *config.Config
	state   State
	current *period.Session

	// priorKind is the kind of period interrupted by an auto-idle
	// transition; lastProject and lastAction let the resume policy
	// reopen a period with its original label, and lastSecondary
	// carries an active period's secondary tag across a break or idle
	// stretch when the same project is resumed.
	priorKind     period.Kind
	lastProject   string
	lastAction    string
	lastSecondary *period.Secondary

	commits chan struct{}
}

// New creates a ledger in the no-session state.
func New(db store.DB, cfg *config.Config, clk clock.Clock) *Ledger {
	if clk == nil {
		clk = clock.System{}
	}

	return &Ledger{
		db:      db,
		clock:   clk,
		opts:    cfg,
		state:   StateNoSession,
		commits: make(chan struct{}, 1),
	}
}

// State returns the ledger's current state.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state
}

// Commits signals once for every committed transition so that the
// backup scheduler can persist outside its fixed interval. The channel
// never blocks the ledger.
func (l *Ledger) Commits() <-chan struct{} {
	return l.commits
}

func (l *Ledger) notifyCommit() {
	select {
	case l.commits <- struct{}{}:
	default:
	}
}

// StartSession opens a new session and its first active period.
func (l *Ledger) StartSession(sphere, project string) error {
	if err := period.ValidateLabel(sphere); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateNoSession {
		return errInvalidState.Fmt("StartSession", l.state)
	}

	now := l.clock.Now()

	first := period.Period{
		Kind:      period.Active,
		StartTime: now,
		Label:     project,
	}

	if err := first.Validate(); err != nil {
		return err
	}

	if sphere == "" {
		sphere = l.opts.Tracking.DefaultSphere
	}

	l.current = &period.Session{
		ID:      string(timeutil.ToKey(now)),
		Sphere:  sphere,
		Periods: []period.Period{first},
	}
	l.state = StateActive
	l.lastProject = project
	l.lastAction = ""
	l.lastSecondary = nil

	l.debugDump("session started")
	l.notifyCommit()

	return nil
}

// StartBreak closes the active period and opens a break period.
func (l *Ledger) StartBreak(action string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateActive {
		return errInvalidState.Fmt("StartBreak", l.state)
	}

	next := period.Period{
		Kind:  period.Break,
		Label: action,
	}

	if err := next.Validate(); err != nil {
		return err
	}

	l.rollover(next, l.clock.Now())
	l.state = StateOnBreak
	l.lastAction = action

	l.notifyCommit()

	return nil
}

// Resume closes the break period and opens an active period.
func (l *Ledger) Resume(project string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateOnBreak {
		return errInvalidState.Fmt("Resume", l.state)
	}

	next := period.Period{
		Kind:  period.Active,
		Label: project,
	}

	if err := next.Validate(); err != nil {
		return err
	}

	l.rollover(next, l.clock.Now())
	l.state = StateActive
	l.lastProject = project

	l.notifyCommit()

	return nil
}

// IdleThresholdExceeded closes the current period at idleSince rather
// than at detection time, so recorded work is never inflated by polling
// latency, and opens an idle period starting at the same instant.
func (l *Ledger) IdleThresholdExceeded(idleSince time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateActive && l.state != StateOnBreak {
		return errInvalidState.Fmt("IdleThresholdExceeded", l.state)
	}

	open := l.openPeriod()

	// the last observed activity cannot precede the period it interrupts
	if idleSince.Before(open.StartTime) {
		idleSince = open.StartTime
	}

	l.priorKind = open.Kind

	l.rollover(period.Period{Kind: period.Idle}, idleSince)
	l.state = StateAutoIdle

	l.debugDump("auto-idle")
	l.notifyCommit()

	return nil
}

// ActivityResumed closes the idle period and reopens a period whose
// kind is decided by the configured resume policy.
func (l *Ledger) ActivityResumed() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateAutoIdle {
		return errInvalidState.Fmt("ActivityResumed", l.state)
	}

	kind := period.Active
	label := l.lastProject

	if l.opts.Tracking.ResumePolicy == config.ResumePrevious &&
		l.priorKind == period.Break {
		kind = period.Break
		label = l.lastAction
	}

	l.rollover(period.Period{Kind: kind, Label: label}, l.clock.Now())

	if kind == period.Break {
		l.state = StateOnBreak
	} else {
		l.state = StateActive
	}

	l.notifyCommit()

	return nil
}

// TagSecondary attaches a secondary tag to the currently open period.
func (l *Ledger) TagSecondary(label, comment string, fraction float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateNoSession {
		return errInvalidState.Fmt("TagSecondary", l.state)
	}

	open := l.openPeriod()

	tagged := *open
	tagged.Secondary = &period.Secondary{
		Label:    label,
		Comment:  comment,
		Fraction: fraction,
	}

	if err := tagged.Validate(); err != nil {
		return err
	}

	*open = tagged

	return nil
}

// AddComment appends free text to the currently open period.
func (l *Ledger) AddComment(text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateNoSession {
		return errInvalidState.Fmt("AddComment", l.state)
	}

	open := l.openPeriod()

	if open.Comment == "" {
		open.Comment = text
	} else {
		open.Comment += "\n" + text
	}

	return nil
}

// AddNote appends to one of the session's four note channels: "active",
// "break", "idle", or "session".
func (l *Ledger) AddNote(channel, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateNoSession {
		return errInvalidState.Fmt("AddNote", l.state)
	}

	var target *string

	switch channel {
	case "active":
		target = &l.current.Notes.Active
	case "break":
		target = &l.current.Notes.Break
	case "idle":
		target = &l.current.Notes.Idle
	case "session":
		target = &l.current.Notes.Session
	default:
		return errUnknownNoteChannel.Fmt(channel)
	}

	if *target == "" {
		*target = text
	} else {
		*target += "\n" + text
	}

	return nil
}

// EndSession closes the open period, commits the session to the store,
// and returns the committed record. The ledger is left unchanged if the
// commit fails.
func (l *Ledger) EndSession() (*period.Session, error) {
	l.mu.Lock()

	if l.state == StateNoSession {
		l.mu.Unlock()
		return nil, errInvalidState.Fmt("EndSession", l.state)
	}

	committed := l.current.Clone()
	committed.Periods[len(committed.Periods)-1].EndTime = l.clock.Now()

	if err := committed.Validate(); err != nil {
		l.mu.Unlock()
		return nil, err
	}

	// release the state lock before touching storage; the writer
	// mutex keeps this commit ordered against in-flight snapshot
	// writes, and the state reset happens before it is released so
	// that no later snapshot can be taken of the ended session
	l.mu.Unlock()

	l.wmu.Lock()

	if err := l.db.Put(committed); err != nil {
		l.wmu.Unlock()
		return nil, err
	}

	l.mu.Lock()
	if l.current != nil && l.current.ID == committed.ID {
		l.current = nil
		l.state = StateNoSession
	}
	l.mu.Unlock()
	l.wmu.Unlock()

	l.notifyCommit()

	l.runSessionCmd(l.opts.System.SessionCmd)

	return committed, nil
}

// Snapshot returns a copy of the in-progress session with its open
// period closed at the current instant, suitable for serializing
// without mutating ledger state. It returns nil when no session is in
// progress.
func (l *Ledger) Snapshot() *period.Session {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateNoSession {
		return nil
	}

	snap := l.current.Clone()
	snap.Periods[len(snap.Periods)-1].EndTime = l.clock.Now()

	return snap
}

// WriteSnapshot persists a point-in-time copy of the in-progress
// session under its id and returns the snapshot written, or nil when no
// session is in progress. Capture and write hold the writer mutex, so a
// snapshot write that races EndSession either completes before the
// final commit or observes the ended session and writes nothing.
func (l *Ledger) WriteSnapshot() (*period.Session, error) {
	l.wmu.Lock()
	defer l.wmu.Unlock()

	snap := l.Snapshot()
	if snap == nil {
		return nil, nil
	}

	return snap, l.db.Put(snap)
}

// openPeriod returns the in-progress period. Callers must hold the lock
// and have checked that a session exists.
func (l *Ledger) openPeriod() *period.Period {
	return &l.current.Periods[len(l.current.Periods)-1]
}

// rollover closes the open period at the boundary instant and appends
// the next period starting at the same instant, keeping the session
// gapless. A closing active period's secondary tag is remembered and
// reattached when the same project is reopened, so a coffee break does
// not silently drop a fractional attribution.
func (l *Ledger) rollover(next period.Period, boundary time.Time) {
	open := l.openPeriod()
	open.EndTime = boundary

	if open.Kind == period.Active {
		l.lastSecondary = open.Secondary
	}

	if next.Kind == period.Active && next.Label == l.lastProject &&
		next.Secondary == nil && l.lastSecondary != nil {
		sec := *l.lastSecondary
		next.Secondary = &sec
	}

	next.StartTime = boundary

	l.current.Periods = append(l.current.Periods, next)
}

func (l *Ledger) debugDump(msg string) {
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(msg, "state", l.state, "session", spew.Sdump(l.current))
	}
}
