// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"time"
)

type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodThisWeek  Period = "this-week"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
	Period180Days   Period = "180days"
	Period365Days   Period = "365days"
)

var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
	Period180Days:   -179,
	Period365Days:   -364,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	PeriodThisWeek,
	Period7Days,
	Period14Days,
	Period30Days,
	Period90Days,
	Period180Days,
	Period365Days,
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// ResolveRange returns the start and end of the specified period relative
// to the provided reference time. The reference time is captured once by
// the caller so that a computation spanning a date boundary remains
// consistent throughout.
func ResolveRange(period Period, now time.Time) (start, end time.Time) {
	start = RoundToStart(now)
	end = RoundToEnd(now)

	//nolint:exhaustive // other cases covered by default
	switch period {
	case PeriodToday:
		return
	case PeriodYesterday:
		start = now.AddDate(0, 0, Range[period])
		start = RoundToStart(start)
		end = RoundToEnd(start)

		return
	case PeriodThisWeek:
		offset := int(now.Weekday() - time.Monday)
		if offset < 0 {
			offset += 7
		}

		start = RoundToStart(now.AddDate(0, 0, -offset))

		return
	case PeriodAllTime:
		start = time.Time{}
		return
	default:
		start = now.AddDate(0, 0, Range[period])
		start = RoundToStart(start)
	}

	return
}

// TruncateSeconds drops any fractional-second component of a duration.
// Stored timestamps retain full precision; truncation happens at read
// time only.
func TruncateSeconds(d time.Duration) time.Duration {
	return d.Truncate(time.Second)
}

// ToKey converts a time value to a database key for Bolt. Session ids
// use the same encoding so that records sort chronologically.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(time.RFC3339Nano))
}
