package stats

import (
	"slices"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/remilekun/worklog/internal/apperr"
	"github.com/remilekun/worklog/internal/period"
	"github.com/remilekun/worklog/internal/timeutil"
)

var (
	errInvalidDateRange = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "the end date must not be earlier than the start date",
	}

	errInvalidPeriod = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "please provide a valid time period",
	}

	errInvalidStatus = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "status must be active-only, archived-only, or both, got %q",
	}

	errUnparseableDate = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "could not parse date: %q",
	}
)

// Status selects sessions by their archived flag.
type Status string

const (
	StatusActiveOnly   Status = "active-only"
	StatusArchivedOnly Status = "archived-only"
	StatusBoth         Status = "both"
)

// Filter selects sessions for aggregation. Either Preset or the
// explicit StartTime/EndTime pair bounds the date range; a zero range
// with no preset means all time.
type Filter struct {
	StartTime time.Time
	EndTime   time.Time
	Preset    timeutil.Period
	Sphere    string
	Project   string
	Status    Status
}

// ParseDate turns a human-entered date string into a time value.
func ParseDate(s string) (time.Time, error) {
	dt, err := dateparser.Parse(nil, s)
	if err != nil {
		return time.Time{}, errUnparseableDate.Fmt(s).Wrap(err)
	}

	return dt.Time, nil
}

// Range resolves the filter's date bounds against a reference time
// captured once per aggregation call.
func (f *Filter) Range(now time.Time) (start, end time.Time, err error) {
	if f.Preset != "" {
		if !slices.Contains(timeutil.PeriodCollection, f.Preset) {
			return start, end, errInvalidPeriod
		}

		start, end = timeutil.ResolveRange(f.Preset, now)

		return start, end, nil
	}

	start = f.StartTime
	end = f.EndTime

	if end.IsZero() {
		end = timeutil.RoundToEnd(now)
	}

	if !start.IsZero() && end.Before(start) {
		return start, end, errInvalidDateRange
	}

	return start, end, nil
}

// validate checks the parts of the filter that resolve lazily.
func (f *Filter) validate() error {
	switch f.Status {
	case "", StatusActiveOnly, StatusArchivedOnly, StatusBoth:
		return nil
	default:
		return errInvalidStatus.Fmt(f.Status)
	}
}

// matchSession applies the session-level parts of the filter.
func (f *Filter) matchSession(
	sess *period.Session,
	start, end time.Time,
) bool {
	if !start.IsZero() && sess.EndTime().Before(start) {
		return false
	}

	if sess.StartTime().After(end) {
		return false
	}

	if f.Sphere != "" && sess.Sphere != f.Sphere {
		return false
	}

	switch f.Status {
	case StatusActiveOnly:
		if sess.Archived {
			return false
		}
	case StatusArchivedOnly:
		if !sess.Archived {
			return false
		}
	}

	if f.Project != "" && !sessionMentionsProject(sess, f.Project) {
		return false
	}

	return true
}

// matchPeriod applies the period-level part of the filter for
// breakdown purposes.
func (f *Filter) matchPeriod(p *period.Period) bool {
	if f.Project == "" {
		return true
	}

	if p.Label == f.Project {
		return true
	}

	return p.Secondary != nil && p.Secondary.Label == f.Project
}

func sessionMentionsProject(sess *period.Session, project string) bool {
	for i := range sess.Periods {
		p := &sess.Periods[i]

		if p.Label == project {
			return true
		}

		if p.Secondary != nil && p.Secondary.Label == project {
			return true
		}
	}

	return false
}
