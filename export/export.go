// Package export flattens aggregation results into row records for the
// CSV and spreadsheet sinks. Both sinks receive the identical row set;
// only the transport differs.
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/remilekun/worklog/internal/apperr"
	"github.com/remilekun/worklog/internal/period"
	"github.com/remilekun/worklog/stats"
)

var errPartialExport = &apperr.Error{
	Kind:    apperr.PartialExport,
	Message: "skipped sessions that failed to serialize: %s",
}

// Row is one ordered record of named columns.
type Row []string

// Header returns the ordered column names shared by every sink.
func Header() Row {
	return Row{
		"session_id",
		"date",
		"sphere",
		"session_start",
		"session_end",
		"total_minutes",
		"active_minutes",
		"break_minutes",
		"notes_active",
		"notes_break",
		"notes_idle",
		"notes_session",
		"period_kind",
		"period_start",
		"period_end",
		"period_minutes",
		"label",
		"secondary_label",
		"secondary_comment",
		"secondary_fraction",
		"comment",
	}
}

// Rows converts an aggregation result into one row per period. Every
// row of a session repeats that session's fields identically; a session
// with zero periods yields exactly one summary row with the period
// columns blank. Sessions that fail validation are skipped and their
// ids come back in a partial-export error, alongside the rows of the
// sessions that survived.
func Rows(res *stats.Result) ([]Row, error) {
	var (
		rows    []Row
		skipped []string
	)

	for i := range res.Sessions {
		sess := &res.Sessions[i]

		if len(sess.Periods) == 0 {
			rows = append(rows, summaryRow(sess))
			continue
		}

		if err := sess.Validate(); err != nil {
			skipped = append(skipped, sess.ID)
			continue
		}

		head := sessionColumns(sess)

		for j := range sess.Periods {
			rows = append(rows, periodRow(head, &sess.Periods[j]))
		}
	}

	if len(skipped) > 0 {
		return rows, errPartialExport.Fmt(strings.Join(skipped, ", "))
	}

	return rows, nil
}

// sessionColumns renders the session-level fields shared by all of a
// session's rows.
func sessionColumns(sess *period.Session) Row {
	return Row{
		escapeField(sess.ID),
		sess.StartTime().Format("2006-01-02"),
		escapeField(sess.Sphere),
		sess.StartTime().Format(time.RFC3339),
		formatEnd(sess.EndTime()),
		formatMinutes(sess.TotalDuration()),
		formatMinutes(sess.ActiveDuration()),
		formatMinutes(sess.BreakDuration()),
		escapeField(sess.Notes.Active),
		escapeField(sess.Notes.Break),
		escapeField(sess.Notes.Idle),
		escapeField(sess.Notes.Session),
	}
}

func periodRow(head Row, p *period.Period) Row {
	row := make(Row, 0, len(Header()))
	row = append(row, head...)

	var secLabel, secComment, secFraction string
	if p.Secondary != nil {
		secLabel = escapeField(p.Secondary.Label)
		secComment = escapeField(p.Secondary.Comment)
		secFraction = formatPercent(p.Secondary.Fraction)
	}

	row = append(row,
		string(p.Kind),
		p.StartTime.Format(time.RFC3339),
		formatEnd(p.EndTime),
		formatMinutes(p.Duration()),
		escapeField(p.Label),
		secLabel,
		secComment,
		secFraction,
		escapeField(p.Comment),
	)

	return row
}

// summaryRow covers degenerate records: the period columns stay blank
// rather than the session disappearing from the export.
func summaryRow(sess *period.Session) Row {
	row := sessionColumns(sess)

	for len(row) < len(Header()) {
		row = append(row, "")
	}

	return row
}

// escapeField neutralizes spreadsheet formula injection: a leading =,
// +, -, @, or | gets a quote prefix before the value reaches any sink.
// Structural delimiter escaping is the sink format's job.
func escapeField(s string) string {
	if s == "" {
		return s
	}

	switch s[0] {
	case '=', '+', '-', '@', '|':
		return "'" + s
	}

	return s
}

func formatMinutes(d time.Duration) string {
	return strconv.FormatFloat(d.Minutes(), 'f', 2, 64)
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', -1, 64) + "%"
}

func formatEnd(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339)
}
