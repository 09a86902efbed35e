package store

import "github.com/remilekun/worklog/internal/period"

// DB is the database storage interface.
type DB interface {
	// Put stores a session or snapshot, overwriting by id (last write
	// wins)
	Put(sess *period.Session) error
	// Get returns the session with the given id
	Get(id string) (*period.Session, error)
	// Delete removes a session after writing a recoverable backup copy
	Delete(id string) error
	// ListAll returns every committed session in no particular order
	ListAll() ([]period.Session, error)
	// Backups returns the pre-deletion copies kept for an id
	Backups(id string) ([]period.Session, error)
	// SetArchived flips the archived flag on a committed session
	SetArchived(id string, archived bool) error
	// Close ends the database connection
	Close() error
	// Open begins a database connection
	Open() error
}
