package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure; no infrastructure dependency.

var (
	// Configuration errors. The engine raises no errors for normal inputs;
	// a panicking caller-supplied formula, predicate, or listener is the
	// sole failure category and always wraps ErrConfiguration.
	ErrConfiguration   = errors.New("configuration error")
	ErrUnknownFormula  = errors.New("unknown progression formula")
	ErrMissingFormula  = errors.New("custom formula selected but none provided")
	ErrInvalidSettings = errors.New("invalid engagement settings")

	// Profile / store errors
	ErrProfileNotFound = errors.New("profile not found")

	// Challenge errors
	ErrChallengeNotFound = errors.New("challenge not found")

	// Backup errors
	ErrBackupExists  = errors.New("backup target already exists")
	ErrBackupMissing = errors.New("backup file not found")
)
