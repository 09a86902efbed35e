package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/remilekun/worklog/internal/apperr"
	"github.com/remilekun/worklog/internal/period"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(filepath.Join(t.TempDir(), "worklog.db"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

func testSession(t *testing.T, id string) *period.Session {
	t.Helper()

	start, err := time.Parse(time.RFC3339, id)
	if err != nil {
		t.Fatal(err)
	}

	return &period.Session{
		ID:     id,
		Sphere: "work",
		Periods: []period.Period{
			{
				Kind:      period.Active,
				StartTime: start,
				EndTime:   start.Add(time.Hour),
				Label:     "ProjectA",
			},
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c := newTestClient(t)

	sess := testSession(t, "2024-03-01T09:00:00Z")
	sess.Periods[0].Secondary = &period.Secondary{
		Label:    "ProjectB",
		Fraction: 0.25,
	}
	sess.Notes.Session = "good day"

	if err := c.Put(sess); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(sess, got); diff != "" {
		t.Errorf("stored session does not match:\n%s", diff)
	}
}

func TestGetUnknownID(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Get("2024-03-01T09:00:00Z")
	if !errors.Is(err, &apperr.Error{Kind: apperr.NotFound}) {
		t.Errorf("expected a not-found error, but got: %v", err)
	}
}

func TestPutIsIdempotent(t *testing.T) {
	c := newTestClient(t)

	sess := testSession(t, "2024-03-01T09:00:00Z")

	if err := c.Put(sess); err != nil {
		t.Fatal(err)
	}

	if err := c.Put(sess); err != nil {
		t.Fatal(err)
	}

	all, err := c.ListAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(all) != 1 {
		t.Errorf("expected exactly one record, but got: %d", len(all))
	}
}

func TestPutOverwritesByID(t *testing.T) {
	c := newTestClient(t)

	sess := testSession(t, "2024-03-01T09:00:00Z")

	if err := c.Put(sess); err != nil {
		t.Fatal(err)
	}

	sess.Periods[0].EndTime = sess.Periods[0].StartTime.Add(2 * time.Hour)

	if err := c.Put(sess); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	if d := got.TotalDuration(); d != 2*time.Hour {
		t.Errorf("expected the later write to win, but duration is: %v", d)
	}
}

func TestDeleteKeepsABackupCopy(t *testing.T) {
	c := newTestClient(t)

	sess := testSession(t, "2024-03-01T09:00:00Z")

	if err := c.Put(sess); err != nil {
		t.Fatal(err)
	}

	if err := c.Delete(sess.ID); err != nil {
		t.Fatal(err)
	}

	_, err := c.Get(sess.ID)
	if !errors.Is(err, &apperr.Error{Kind: apperr.NotFound}) {
		t.Errorf("expected the session to be gone, but got: %v", err)
	}

	backups, err := c.Backups(sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	if len(backups) != 1 {
		t.Fatalf("expected one backup copy, but got: %d", len(backups))
	}

	if diff := cmp.Diff(*sess, backups[0]); diff != "" {
		t.Errorf("backup copy does not match the deleted record:\n%s", diff)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	c := newTestClient(t)

	err := c.Delete("2024-03-01T09:00:00Z")
	if !errors.Is(err, &apperr.Error{Kind: apperr.NotFound}) {
		t.Errorf("expected a not-found error, but got: %v", err)
	}
}

func TestBackupsAreScopedToTheirSession(t *testing.T) {
	c := newTestClient(t)

	first := testSession(t, "2024-03-01T09:00:00Z")
	second := testSession(t, "2024-03-02T09:00:00Z")

	for _, sess := range []*period.Session{first, second} {
		if err := c.Put(sess); err != nil {
			t.Fatal(err)
		}

		if err := c.Delete(sess.ID); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := c.Backups(first.ID)
	if err != nil {
		t.Fatal(err)
	}

	if len(backups) != 1 {
		t.Fatalf("expected one backup for the first id, but got: %d", len(backups))
	}

	if backups[0].ID != first.ID {
		t.Errorf("expected backup for %s, but got: %s", first.ID, backups[0].ID)
	}
}

func TestSetArchived(t *testing.T) {
	c := newTestClient(t)

	sess := testSession(t, "2024-03-01T09:00:00Z")

	if err := c.Put(sess); err != nil {
		t.Fatal(err)
	}

	if err := c.SetArchived(sess.ID, true); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Archived {
		t.Error("expected the session to be archived")
	}

	if err := c.SetArchived(sess.ID, false); err != nil {
		t.Fatal(err)
	}

	got, err = c.Get(sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	if got.Archived {
		t.Error("expected the session to be restored")
	}
}

func TestSecondOpenIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklog.db")

	c, err := NewClient(path)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = c.Close()
	})

	// the file lock held above must make a second open time out
	_, err = NewClient(path)
	if !errors.Is(err, errWorklogRunning) {
		t.Errorf("expected the single-instance guard, but got: %v", err)
	}
}

func TestListAll(t *testing.T) {
	c := newTestClient(t)

	ids := []string{
		"2024-03-01T09:00:00Z",
		"2024-03-02T09:00:00Z",
		"2024-03-03T09:00:00Z",
	}

	for _, id := range ids {
		if err := c.Put(testSession(t, id)); err != nil {
			t.Fatal(err)
		}
	}

	all, err := c.ListAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(all) != len(ids) {
		t.Errorf("expected %d sessions, but got: %d", len(ids), len(all))
	}
}
