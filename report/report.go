// Package report renders aggregation results for on-screen display.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/remilekun/worklog/internal/period"
	"github.com/remilekun/worklog/stats"
)

const noSessionsMsg = "No sessions found for the specified time range"

// Show writes the reporting-period header, the per-kind summary, the
// project breakdown, and the session table to w.
func Show(w io.Writer, res *stats.Result) {
	if len(res.Sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return
	}

	header := pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln("Reporting period: %s - %s",
			formatReportBound(res.ReportStart),
			res.ReportEnd.Format("January 02, 2006"),
		)

	output := fmt.Sprint(
		header,
		summary(res),
		breakdown(res),
	)

	fmt.Fprintln(w, strings.TrimSpace(output))

	printSessionsTable(w, res.Sessions)
}

func formatReportBound(t time.Time) string {
	if t.IsZero() {
		return "all time"
	}

	return t.Format("January 02, 2006")
}

// summary renders the totals for the reporting period.
func summary(res *stats.Result) string {
	header := fmt.Sprintf("%s\n", pterm.Blue("Summary"))

	active := fmt.Sprintf(
		"Active time: %s\n",
		pterm.Green(formatDuration(res.TotalActive)),
	)

	brk := fmt.Sprintf(
		"Break time: %s\n",
		pterm.Green(formatDuration(res.TotalBreak)),
	)

	idle := fmt.Sprintf(
		"Idle time: %s\n",
		pterm.Green(formatDuration(res.TotalIdle)),
	)

	count := fmt.Sprintln("Sessions:", pterm.Green(len(res.Sessions)))

	return header + active + brk + idle + count
}

// breakdown renders the per-project totals in natural name order.
func breakdown(res *stats.Result) string {
	if len(res.Projects) == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("\n%s\n", pterm.Blue("Projects")))

	for _, name := range res.ProjectNames() {
		builder.WriteString(fmt.Sprintf(
			"%s: %s\n",
			name,
			pterm.Green(formatDuration(res.Projects[name])),
		))
	}

	return builder.String()
}

// printSessionsTable prints a session table.
func printSessionsTable(w io.Writer, sessions []period.Session) {
	tableBody := make([][]string, 0, len(sessions))

	for i := range sessions {
		sess := &sessions[i]

		endDate := sess.EndTime().Format("Jan 02, 2006 03:04 PM")
		if sess.EndTime().IsZero() {
			endDate = ""
		}

		row := []string{
			fmt.Sprintf("%d", i+1),
			sess.Sphere,
			sess.StartTime().Format("Jan 02, 2006 03:04 PM"),
			endDate,
			formatDuration(sess.ActiveDuration()),
			formatDuration(sess.BreakDuration()),
			formatDuration(sess.IdleDuration()),
		}

		tableBody = append(tableBody, row)
	}

	data := [][]string{
		{"#", "SPHERE", "START DATE", "END DATE", "ACTIVE", "BREAK", "IDLE"},
	}
	data = append(data, tableBody...)

	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output session table: %s", err.Error())
		return
	}

	fmt.Fprintln(w, str)
}

// formatDuration expresses a duration as hours and minutes.
func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Minute)

	hrs := int(d.Hours())
	mins := int(d.Minutes()) % 60

	if hrs == 0 {
		return fmt.Sprintf("%dm", mins)
	}

	return fmt.Sprintf("%dh %dm", hrs, mins)
}
