package ledger

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/remilekun/worklog/internal/period"
)

// EditPeriod amends a single period of a committed session. The
// amendment is validated against the period's immediate neighbours
// before anything is written; on failure the stored record is left
// exactly as it was.
func (l *Ledger) EditPeriod(
	sessionID string,
	index int,
	patch period.Patch,
) error {
	if err := l.checkNotCurrent(sessionID); err != nil {
		return err
	}

	sess, err := l.db.Get(sessionID)
	if err != nil {
		return err
	}

	if err := sess.ApplyPatch(index, patch); err != nil {
		return err
	}

	return l.db.Put(sess)
}

// DeleteSession removes a committed session. The store writes a
// timestamped backup copy before the record disappears.
func (l *Ledger) DeleteSession(sessionID string) error {
	if err := l.checkNotCurrent(sessionID); err != nil {
		return err
	}

	return l.db.Delete(sessionID)
}

// ArchiveSession marks a committed session as archived or restores it.
func (l *Ledger) ArchiveSession(sessionID string, archived bool) error {
	if err := l.checkNotCurrent(sessionID); err != nil {
		return err
	}

	return l.db.SetArchived(sessionID, archived)
}

// checkNotCurrent rejects out-of-band operations aimed at the session
// the ledger still owns; the in-progress and committed lifecycles stay
// decoupled.
func (l *Ledger) checkNotCurrent(sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil && l.current.ID == sessionID {
		return errSessionInProgress.Fmt(sessionID)
	}

	return nil
}

// runSessionCmd executes the configured command after a session is
// committed. Failures are logged, never surfaced: the commit already
// happened.
func (l *Ledger) runSessionCmd(sessionCmd string) {
	if sessionCmd == "" {
		return
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		slog.Error(
			"unable to parse session cmd option",
			"cmd", sessionCmd,
			"error", err,
		)

		return
	}

	if len(cmdSlice) == 0 {
		return
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	cmd := exec.Command(name, args...)

	if err := cmd.Run(); err != nil {
		slog.Error(
			"session cmd failed",
			"cmd", fmt.Sprintf("%v", cmdSlice),
			"error", err,
		)
	}
}
