package ledger

import "github.com/remilekun/worklog/internal/apperr"

var (
	errInvalidState = &apperr.Error{
		Kind:    apperr.InvalidState,
		Message: "%s is not valid while the ledger is %s",
	}

	errSessionInProgress = &apperr.Error{
		Kind:    apperr.InvalidState,
		Message: "session %q is still in progress and cannot be amended",
	}

	errUnknownNoteChannel = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "unknown note channel: %q",
	}
)
