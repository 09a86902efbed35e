package config

import (
	"time"

	"github.com/remilekun/worklog/internal/apperr"
)

var minIdleThreshold = 30 * time.Second

var (
	errConfigOption = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "config validation error",
	}

	errIdleThresholdTooShort = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "idle threshold (%v) must be at least %v",
	}

	errInvalidPollInterval = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "poll interval must be positive, got %v",
	}

	errPollExceedsThreshold = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "poll interval (%v) must not exceed the idle threshold (%v)",
	}

	errInvalidResumePolicy = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "resume policy must be %q or %q, got %q",
	}

	errInvalidBackupInterval = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "backup interval must be positive, got %v",
	}
)
