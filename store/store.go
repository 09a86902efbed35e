// Package store connects to the data store and manages committed
// sessions and in-progress snapshots.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/remilekun/worklog/internal/apperr"
	"github.com/remilekun/worklog/internal/period"
	"github.com/remilekun/worklog/internal/timeutil"
)

const (
	sessionBucket = "sessions"
	backupBucket  = "backups"
)

var (
	errWorklogRunning = errors.New(
		"is worklog already running? Only one instance can be active at a time",
	)

	errSessionNotFound = &apperr.Error{
		Kind:    apperr.NotFound,
		Message: "session %q not found",
	}

	errStorage = &apperr.Error{
		Kind:    apperr.Storage,
		Message: "session store failure",
	}
)

var pathToDB string

// Client is a BoltDB database client. Writes are transactional: a crash
// mid-write leaves the previous record intact.
type Client struct {
	*bolt.DB
}

// Put stores a session under its id, overwriting any prior record or
// snapshot for that id. It is idempotent: writing the same session
// twice leaves the store in the same observable state.
func (c *Client) Put(sess *period.Session) error {
	value, err := json.Marshal(sess)
	if err != nil {
		return errStorage.Wrap(err)
	}

	err = c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(sess.ID), value)
	})
	if err != nil {
		return errStorage.Wrap(err)
	}

	return nil
}

// Get retrieves a session by id.
func (c *Client) Get(id string) (*period.Session, error) {
	var sess period.Session

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket)).Get([]byte(id))
		if len(b) == 0 {
			return errSessionNotFound.Fmt(id)
		}

		return json.Unmarshal(b, &sess)
	})
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// Delete removes a session after writing a timestamped copy of the full
// record to the backup bucket. Both happen in one transaction, so the
// record is never gone without a recoverable copy.
func (c *Client) Delete(id string) error {
	err := c.Update(func(tx *bolt.Tx) error {
		sessions := tx.Bucket([]byte(sessionBucket))

		value := sessions.Get([]byte(id))
		if len(value) == 0 {
			return errSessionNotFound.Fmt(id)
		}

		backupKey := append([]byte(id+"|"), timeutil.ToKey(time.Now())...)

		err := tx.Bucket([]byte(backupBucket)).Put(backupKey, value)
		if err != nil {
			return err
		}

		return sessions.Delete([]byte(id))
	})

	var appErr *apperr.Error
	if err != nil && !errors.As(err, &appErr) {
		return errStorage.Wrap(err)
	}

	return err
}

// ListAll returns every committed session. No order is guaranteed;
// callers sort explicitly.
func (c *Client) ListAll() ([]period.Session, error) {
	var sessions []period.Session

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).
			ForEach(func(_, v []byte) error {
				var sess period.Session

				if err := json.Unmarshal(v, &sess); err != nil {
					return err
				}

				sessions = append(sessions, sess)

				return nil
			})
	})
	if err != nil {
		return nil, errStorage.Wrap(err)
	}

	return sessions, nil
}

// Backups returns the pre-deletion copies stored for the given id,
// oldest first.
func (c *Client) Backups(id string) ([]period.Session, error) {
	var sessions []period.Session

	prefix := []byte(id + "|")

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(backupBucket)).Cursor()

		for k, v := cur.Seek(prefix); k != nil; k, v = cur.Next() {
			if len(k) < len(prefix) || string(k[:len(prefix)]) != string(prefix) {
				break
			}

			var sess period.Session

			if err := json.Unmarshal(v, &sess); err != nil {
				return err
			}

			sessions = append(sessions, sess)
		}

		return nil
	})
	if err != nil {
		return nil, errStorage.Wrap(err)
	}

	return sessions, nil
}

// SetArchived flips the archived flag on a committed session.
func (c *Client) SetArchived(id string, archived bool) error {
	sess, err := c.Get(id)
	if err != nil {
		return err
	}

	sess.Archived = archived

	return c.Put(sess)
}

func (c *Client) Open() error {
	db, err := openDB(pathToDB)
	if err != nil {
		return err
	}

	*c = Client{
		db,
	}

	return nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// a concurrent holder of the file lock surfaces as a timeout
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errWorklogRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	pathToDB = dbPath

	db, err := openDB(pathToDB)
	if err != nil {
		return nil, err
	}
	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(sessionBucket))
		if err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists([]byte(backupBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
