// Package testutil provides shared test doubles.
package testutil

import (
	"sync"
	"time"

	"github.com/remilekun/worklog/internal/apperr"
	"github.com/remilekun/worklog/internal/period"
)

// FakeClock is a manually advanced clock for tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Set moves the clock to the given instant.
func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

var errNotFound = &apperr.Error{
	Kind:    apperr.NotFound,
	Message: "no session found with id: %s",
}

// DBMock is an in-memory implementation of the store.DB interface.
type DBMock struct {
	mu       sync.Mutex
	sessions map[string]*period.Session
	backups  map[string][]period.Session

	// PutErr, when set, makes every Put fail with that error.
	PutErr error
	// PutCount tracks the number of Put calls, failed ones included.
	PutCount int
}

func NewDBMock() *DBMock {
	return &DBMock{
		sessions: make(map[string]*period.Session),
		backups:  make(map[string][]period.Session),
	}
}

func (d *DBMock) Put(sess *period.Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.PutCount++

	if d.PutErr != nil {
		return d.PutErr
	}

	d.sessions[sess.ID] = sess.Clone()

	return nil
}

func (d *DBMock) Get(id string) (*period.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sess, ok := d.sessions[id]
	if !ok {
		return nil, errNotFound.Fmt(id)
	}

	return sess.Clone(), nil
}

func (d *DBMock) Delete(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sess, ok := d.sessions[id]
	if !ok {
		return errNotFound.Fmt(id)
	}

	d.backups[id] = append(d.backups[id], *sess.Clone())
	delete(d.sessions, id)

	return nil
}

func (d *DBMock) ListAll() ([]period.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result := make([]period.Session, 0, len(d.sessions))

	for _, sess := range d.sessions {
		result = append(result, *sess.Clone())
	}

	return result, nil
}

func (d *DBMock) Backups(id string) ([]period.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]period.Session(nil), d.backups[id]...), nil
}

func (d *DBMock) SetArchived(id string, archived bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sess, ok := d.sessions[id]
	if !ok {
		return errNotFound.Fmt(id)
	}

	sess.Archived = archived

	return nil
}

func (d *DBMock) Close() error { return nil }

func (d *DBMock) Open() error { return nil }
