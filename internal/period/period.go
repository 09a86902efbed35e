// Package period defines the period and session records that every other
// part of worklog produces or consumes.
package period

import (
	"strings"
	"time"
	"unicode"

	"github.com/remilekun/worklog/internal/timeutil"
)

// Kind identifies what a span of tracked time was spent on.
type Kind string

const (
	Active Kind = "active"
	Break  Kind = "break"
	Idle   Kind = "idle"
)

// MaxLabelLength bounds project and action names.
const MaxLabelLength = 120

// Secondary attributes a fraction of a period's duration to a second
// project or action.
type Secondary struct {
	Label    string  `json:"label"`
	Comment  string  `json:"comment,omitempty"`
	Fraction float64 `json:"fraction"`
}

// Period is the minimal unit of tracked time. EndTime is the zero value
// while the period is still open.
type Period struct {
	Kind      Kind       `json:"kind"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time,omitempty"`
	Label     string     `json:"label,omitempty"`
	Secondary *Secondary `json:"secondary,omitempty"`
	Comment   string     `json:"comment,omitempty"`
}

// Open reports whether the period is still in progress.
func (p *Period) Open() bool {
	return p.EndTime.IsZero()
}

// Duration returns the closed period's length, truncated to whole
// seconds. Open periods report zero; use DurationAt for those.
func (p *Period) Duration() time.Duration {
	if p.Open() {
		return 0
	}

	return timeutil.TruncateSeconds(p.EndTime.Sub(p.StartTime))
}

// DurationAt measures the period against the given instant if it is
// still open.
func (p *Period) DurationAt(now time.Time) time.Duration {
	if p.Open() {
		return timeutil.TruncateSeconds(now.Sub(p.StartTime))
	}

	return p.Duration()
}

// PrimaryFraction is the share of the period's duration attributed to
// its primary label.
func (p *Period) PrimaryFraction() float64 {
	if p.Secondary == nil {
		return 1
	}

	return 1 - p.Secondary.Fraction
}

// Validate checks the period's fields at construction rather than at
// point of use.
func (p *Period) Validate() error {
	if p.Kind != Idle && strings.TrimSpace(p.Label) == "" {
		return errLabelRequired.Fmt(p.Kind)
	}

	if err := ValidateLabel(p.Label); err != nil {
		return err
	}

	if p.Secondary != nil {
		if strings.TrimSpace(p.Secondary.Label) == "" {
			return errSecondaryNoLabel
		}

		if err := ValidateLabel(p.Secondary.Label); err != nil {
			return err
		}

		if p.Secondary.Fraction <= 0 || p.Secondary.Fraction > 1 {
			return errFractionRange.Fmt(p.Secondary.Fraction)
		}
	}

	if !p.Open() && p.EndTime.Before(p.StartTime) {
		return errEndBeforeStart.Fmt(p.EndTime, p.StartTime)
	}

	return nil
}

// ValidateLabel rejects labels that are too long or contain control
// characters. Empty labels are allowed here; kind-specific requirements
// are handled by Period.Validate.
func ValidateLabel(label string) error {
	if len(label) > MaxLabelLength {
		return errLabelTooLong.Fmt(MaxLabelLength, label)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return errLabelInvalidChars.Fmt(label)
		}
	}

	return nil
}
