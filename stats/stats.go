// Package stats filters, sums, and buckets committed sessions for
// reporting.
package stats

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/maruel/natural"

	"github.com/remilekun/worklog/internal/period"
)

// Result is the outcome of one aggregation call: the filtered sessions
// plus derived totals. All fields are pure projections of immutable
// session data; concurrent aggregations over the same store snapshot
// need no locking.
type Result struct {
	Sessions    []period.Session         `json:"sessions"`
	TotalActive time.Duration            `json:"total_active"`
	TotalBreak  time.Duration            `json:"total_break"`
	TotalIdle   time.Duration            `json:"total_idle"`
	Projects    map[string]time.Duration `json:"projects"`

	// ReportStart and ReportEnd are the resolved bounds of the
	// reporting period.
	ReportStart time.Time `json:"report_start"`
	ReportEnd   time.Time `json:"report_end"`
}

// Aggregate filters the given sessions and computes totals and the
// per-project breakdown. Date presets resolve against now, which the
// caller captures exactly once per call so that results stay consistent
// across a date boundary.
func Aggregate(
	sessions []period.Session,
	f Filter,
	now time.Time,
) (*Result, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	start, end, err := f.Range(now)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Projects:    make(map[string]time.Duration),
		ReportStart: start,
		ReportEnd:   end,
	}

	for i := range sessions {
		sess := &sessions[i]

		if !f.matchSession(sess, start, end) {
			continue
		}

		res.Sessions = append(res.Sessions, *sess)

		res.TotalActive += sess.ActiveDuration()
		res.TotalBreak += sess.BreakDuration()
		res.TotalIdle += sess.IdleDuration()

		for j := range sess.Periods {
			p := &sess.Periods[j]

			if p.Kind != period.Active || p.Open() {
				continue
			}

			if !f.matchPeriod(p) {
				continue
			}

			splitPeriod(p, res.Projects)
		}
	}

	sortSessions(res.Sessions)

	return res, nil
}

// splitPeriod attributes a period's duration across its primary and
// secondary labels. With a secondary tag at fraction f, the primary
// label receives (1-f) of the duration and the secondary label receives
// f; without one, the primary label receives all of it.
func splitPeriod(p *period.Period, projects map[string]time.Duration) {
	d := p.Duration()

	if p.Secondary == nil {
		projects[p.Label] += d
		return
	}

	secondary := time.Duration(float64(d) * p.Secondary.Fraction)

	projects[p.Label] += d - secondary
	projects[p.Secondary.Label] += secondary
}

// ProjectNames returns the breakdown's project names in natural order.
func (r *Result) ProjectNames() []string {
	names := make([]string, 0, len(r.Projects))
	for name := range r.Projects {
		names = append(names, name)
	}

	sort.Sort(natural.StringSlice(names))

	return names
}

// ToJSON returns the aggregation result in JSON format.
func (r *Result) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// sortSessions orders sessions by start time descending, breaking ties
// by id, so every caller sees the same deterministic order.
func sortSessions(sessions []period.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		si, sj := sessions[i].StartTime(), sessions[j].StartTime()

		if !si.Equal(sj) {
			return si.After(sj)
		}

		return sessions[i].ID < sessions[j].ID
	})
}
