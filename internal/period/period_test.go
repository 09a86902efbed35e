package period

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()

	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}

	return v
}

func sampleSession(t *testing.T) *Session {
	t.Helper()

	return &Session{
		ID:     "2024-03-01T09:00:00Z",
		Sphere: "work",
		Periods: []Period{
			{
				Kind:      Active,
				StartTime: mustTime(t, "2024-03-01T09:00:00Z"),
				EndTime:   mustTime(t, "2024-03-01T09:30:00Z"),
				Label:     "ProjectA",
			},
			{
				Kind:      Break,
				StartTime: mustTime(t, "2024-03-01T09:30:00Z"),
				EndTime:   mustTime(t, "2024-03-01T09:40:00Z"),
				Label:     "Coffee",
			},
			{
				Kind:      Active,
				StartTime: mustTime(t, "2024-03-01T09:40:00Z"),
				EndTime:   mustTime(t, "2024-03-01T10:00:00Z"),
				Label:     "ProjectA",
			},
		},
	}
}

func TestPeriodValidate(t *testing.T) {
	start := mustTime(t, "2024-03-01T09:00:00Z")

	cases := []struct {
		name    string
		period  Period
		wantErr bool
	}{
		{
			name:   "valid active period",
			period: Period{Kind: Active, StartTime: start, Label: "ProjectA"},
		},
		{
			name:   "idle period may have no label",
			period: Period{Kind: Idle, StartTime: start},
		},
		{
			name:    "active period requires a label",
			period:  Period{Kind: Active, StartTime: start},
			wantErr: true,
		},
		{
			name: "end before start",
			period: Period{
				Kind:      Active,
				StartTime: start,
				EndTime:   start.Add(-time.Minute),
				Label:     "ProjectA",
			},
			wantErr: true,
		},
		{
			name: "fraction of zero",
			period: Period{
				Kind:      Active,
				StartTime: start,
				Label:     "ProjectA",
				Secondary: &Secondary{Label: "ProjectB", Fraction: 0},
			},
			wantErr: true,
		},
		{
			name: "fraction above one",
			period: Period{
				Kind:      Active,
				StartTime: start,
				Label:     "ProjectA",
				Secondary: &Secondary{Label: "ProjectB", Fraction: 1.5},
			},
			wantErr: true,
		},
		{
			name: "fraction of exactly one",
			period: Period{
				Kind:      Active,
				StartTime: start,
				Label:     "ProjectA",
				Secondary: &Secondary{Label: "ProjectB", Fraction: 1},
			},
		},
		{
			name: "secondary without a label",
			period: Period{
				Kind:      Active,
				StartTime: start,
				Label:     "ProjectA",
				Secondary: &Secondary{Fraction: 0.5},
			},
			wantErr: true,
		},
		{
			name: "label with control characters",
			period: Period{
				Kind:      Active,
				StartTime: start,
				Label:     "Project\x00A",
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.period.Validate()

			if tc.wantErr && err == nil {
				t.Error("expected a validation error, but got nil")
			}

			if !tc.wantErr && err != nil {
				t.Errorf("expected no error, but got: %v", err)
			}
		})
	}
}

func TestSessionDerivedValues(t *testing.T) {
	sess := sampleSession(t)

	if got := sess.TotalDuration(); got != 60*time.Minute {
		t.Errorf("expected total duration to be 60m, but got: %v", got)
	}

	if got := sess.ActiveDuration(); got != 50*time.Minute {
		t.Errorf("expected active duration to be 50m, but got: %v", got)
	}

	if got := sess.BreakDuration(); got != 10*time.Minute {
		t.Errorf("expected break duration to be 10m, but got: %v", got)
	}

	if got := sess.IdleDuration(); got != 0 {
		t.Errorf("expected idle duration to be 0, but got: %v", got)
	}
}

func TestDurationTruncatesToWholeSeconds(t *testing.T) {
	start := mustTime(t, "2024-03-01T09:00:00Z")

	p := Period{
		Kind:      Active,
		StartTime: start,
		EndTime:   start.Add(90*time.Second + 700*time.Millisecond),
		Label:     "ProjectA",
	}

	if got := p.Duration(); got != 90*time.Second {
		t.Errorf("expected duration to truncate to 90s, but got: %v", got)
	}
}

func TestSessionValidate(t *testing.T) {
	t.Run("valid session", func(t *testing.T) {
		if err := sampleSession(t).Validate(); err != nil {
			t.Errorf("expected no error, but got: %v", err)
		}
	})

	t.Run("no periods", func(t *testing.T) {
		sess := &Session{ID: "x", Sphere: "work"}

		if err := sess.Validate(); err == nil {
			t.Error("expected a validation error, but got nil")
		}
	})

	t.Run("overlapping periods", func(t *testing.T) {
		sess := sampleSession(t)
		sess.Periods[1].StartTime = sess.Periods[1].StartTime.Add(-time.Minute)

		if err := sess.Validate(); err == nil {
			t.Error("expected a validation error, but got nil")
		}
	})

	t.Run("open period before the last", func(t *testing.T) {
		sess := sampleSession(t)
		sess.Periods[0].EndTime = time.Time{}

		if err := sess.Validate(); err == nil {
			t.Error("expected a validation error, but got nil")
		}
	})
}

func TestApplyPatch(t *testing.T) {
	t.Run("relabel a period", func(t *testing.T) {
		sess := sampleSession(t)
		label := "ProjectC"

		err := sess.ApplyPatch(2, Patch{Label: &label})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}

		if sess.Periods[2].Label != "ProjectC" {
			t.Errorf(
				"expected label to be ProjectC, but got: %s",
				sess.Periods[2].Label,
			)
		}
	})

	t.Run("rejected edit leaves the session unchanged", func(t *testing.T) {
		sess := sampleSession(t)
		before := sess.Clone()

		// extend the break into the following active period
		end := mustTime(t, "2024-03-01T09:45:00Z")

		err := sess.ApplyPatch(1, Patch{EndTime: &end})
		if err == nil {
			t.Fatal("expected a validation error, but got nil")
		}

		if diff := cmp.Diff(before, sess); diff != "" {
			t.Errorf("session was mutated by a failed patch:\n%s", diff)
		}
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		sess := sampleSession(t)
		end := mustTime(t, "2024-03-01T08:00:00Z")

		if err := sess.ApplyPatch(0, Patch{EndTime: &end}); err == nil {
			t.Error("expected a validation error, but got nil")
		}
	})

	t.Run("unknown index", func(t *testing.T) {
		sess := sampleSession(t)

		err := sess.ApplyPatch(9, Patch{})
		if !errors.Is(err, errPeriodNotFound) {
			t.Errorf("expected a not-found error, but got: %v", err)
		}
	})

	t.Run("clear secondary", func(t *testing.T) {
		sess := sampleSession(t)
		sess.Periods[0].Secondary = &Secondary{
			Label:    "ProjectB",
			Fraction: 0.2,
		}

		err := sess.ApplyPatch(0, Patch{ClearSecondary: true})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}

		if sess.Periods[0].Secondary != nil {
			t.Error("expected secondary tag to be cleared")
		}
	})
}

func TestSessionRoundTrip(t *testing.T) {
	sess := sampleSession(t)
	sess.Periods[0].Secondary = &Secondary{
		Label:    "ProjectB",
		Comment:  "code review",
		Fraction: 0.2,
	}
	sess.Notes = Notes{
		Active:  "wrote the parser",
		Break:   "coffee",
		Idle:    "",
		Session: "good day",
	}

	b, err := json.Marshal(sess)
	if err != nil {
		t.Fatal(err)
	}

	var got Session

	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(sess, &got); diff != "" {
		t.Errorf("session did not survive a round trip:\n%s", diff)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	sess := sampleSession(t)
	sess.Periods[0].Secondary = &Secondary{Label: "ProjectB", Fraction: 0.2}

	clone := sess.Clone()
	clone.Periods[0].Label = "Changed"
	clone.Periods[0].Secondary.Fraction = 0.9

	if sess.Periods[0].Label != "ProjectA" {
		t.Error("mutating a clone changed the original label")
	}

	if sess.Periods[0].Secondary.Fraction != 0.2 {
		t.Error("mutating a clone changed the original secondary tag")
	}
}
