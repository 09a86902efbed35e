package period

import (
	"time"

	"github.com/remilekun/worklog/internal/timeutil"
)

// Notes holds the four independent free-text channels attached to a
// session.
type Notes struct {
	Active  string `json:"active,omitempty"`
	Break   string `json:"break,omitempty"`
	Idle    string `json:"idle,omitempty"`
	Session string `json:"session,omitempty"`
}

// Session is an ordered, non-empty sequence of periods plus
// session-level metadata. Start, end, and the duration totals are
// derived from the periods on read and never stored.
type Session struct {
	ID       string   `json:"id"`
	Sphere   string   `json:"sphere"`
	Periods  []Period `json:"periods"`
	Notes    Notes    `json:"notes"`
	Archived bool     `json:"archived,omitempty"`
}

// StartTime is the first period's start.
func (s *Session) StartTime() time.Time {
	if len(s.Periods) == 0 {
		return time.Time{}
	}

	return s.Periods[0].StartTime
}

// EndTime is the last period's end, or the zero value while the session
// is still in progress.
func (s *Session) EndTime() time.Time {
	if len(s.Periods) == 0 {
		return time.Time{}
	}

	return s.Periods[len(s.Periods)-1].EndTime
}

// Completed reports whether every period of the session is closed.
func (s *Session) Completed() bool {
	return len(s.Periods) > 0 && !s.Periods[len(s.Periods)-1].Open()
}

// TotalDuration is end minus start, truncated to whole seconds.
func (s *Session) TotalDuration() time.Duration {
	if !s.Completed() {
		return 0
	}

	return timeutil.TruncateSeconds(s.EndTime().Sub(s.StartTime()))
}

// DurationOf sums the durations of all closed periods of the given kind.
func (s *Session) DurationOf(kind Kind) time.Duration {
	var total time.Duration

	for i := range s.Periods {
		p := &s.Periods[i]
		if p.Kind == kind {
			total += p.Duration()
		}
	}

	return total
}

func (s *Session) ActiveDuration() time.Duration { return s.DurationOf(Active) }

func (s *Session) BreakDuration() time.Duration { return s.DurationOf(Break) }

func (s *Session) IdleDuration() time.Duration { return s.DurationOf(Idle) }

// Validate checks the session invariants: at least one period, every
// period valid, chronological order, no overlaps, and no open period
// other than the final one.
func (s *Session) Validate() error {
	if len(s.Periods) == 0 {
		return errNoPeriods
	}

	if err := ValidateLabel(s.Sphere); err != nil {
		return err
	}

	for i := range s.Periods {
		p := &s.Periods[i]

		if err := p.Validate(); err != nil {
			return err
		}

		if p.Open() && i != len(s.Periods)-1 {
			return errOpenPeriodNotLast
		}

		if i == 0 {
			continue
		}

		prev := &s.Periods[i-1]

		if p.StartTime.Before(prev.StartTime) {
			return errPeriodOutOfOrder.Fmt(i)
		}

		if p.StartTime.Before(prev.EndTime) {
			return errPeriodOverlap.Fmt(i)
		}
	}

	return nil
}

// Patch describes an amendment to a single period of a committed
// session. Nil fields are left untouched; ClearSecondary removes the
// secondary tag regardless of the Secondary field.
type Patch struct {
	Kind           *Kind
	StartTime      *time.Time
	EndTime        *time.Time
	Label          *string
	Comment        *string
	Secondary      *Secondary
	ClearSecondary bool
}

// ApplyPatch amends the period at index, revalidating the result against
// its immediate neighbours. On any validation failure the session is
// left exactly as it was.
func (s *Session) ApplyPatch(index int, patch Patch) error {
	if index < 0 || index >= len(s.Periods) {
		return errPeriodNotFound.Fmt(index)
	}

	p := s.Periods[index]

	if patch.Kind != nil {
		p.Kind = *patch.Kind
	}

	if patch.StartTime != nil {
		p.StartTime = *patch.StartTime
	}

	if patch.EndTime != nil {
		p.EndTime = *patch.EndTime
	}

	if patch.Label != nil {
		p.Label = *patch.Label
	}

	if patch.Comment != nil {
		p.Comment = *patch.Comment
	}

	if patch.ClearSecondary {
		p.Secondary = nil
	} else if patch.Secondary != nil {
		sec := *patch.Secondary
		p.Secondary = &sec
	}

	if err := p.Validate(); err != nil {
		return err
	}

	if index > 0 {
		prev := &s.Periods[index-1]
		if p.StartTime.Before(prev.EndTime) {
			return errPeriodOverlap.Fmt(index)
		}
	}

	if index < len(s.Periods)-1 {
		next := &s.Periods[index+1]
		if p.Open() || next.StartTime.Before(p.EndTime) {
			return errPeriodOverlap.Fmt(index)
		}
	}

	s.Periods[index] = p

	return nil
}

// Clone returns a deep copy of the session so that snapshots can be
// serialized outside the ledger's lock.
func (s *Session) Clone() *Session {
	c := *s
	c.Periods = make([]Period, len(s.Periods))
	copy(c.Periods, s.Periods)

	for i := range c.Periods {
		if sec := c.Periods[i].Secondary; sec != nil {
			dup := *sec
			c.Periods[i].Secondary = &dup
		}
	}

	return &c
}
