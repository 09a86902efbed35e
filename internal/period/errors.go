package period

import "github.com/remilekun/worklog/internal/apperr"

var (
	errFractionRange = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "secondary fraction must be greater than 0 and at most 1, got %v",
	}

	errSecondaryNoLabel = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "secondary tag must have a label",
	}

	errLabelTooLong = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "label must not exceed %d characters: %q",
	}

	errLabelInvalidChars = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "label must not contain control characters: %q",
	}

	errLabelRequired = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "a %s period requires a label",
	}

	errEndBeforeStart = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "period end (%v) must not be earlier than its start (%v)",
	}

	errPeriodOverlap = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "period %d overlaps its neighbour",
	}

	errPeriodOutOfOrder = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "periods are not in chronological order at index %d",
	}

	errOpenPeriodNotLast = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "only the final period of a session may be open",
	}

	errNoPeriods = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "a session must contain at least one period",
	}

	errPeriodNotFound = &apperr.Error{
		Kind:    apperr.NotFound,
		Message: "session has no period at index %d",
	}
)
