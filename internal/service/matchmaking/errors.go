package matchmaking

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the front-end collaborator. Transport maps
// them to status codes in one place; anything unrecognized is treated as a
// storage failure.
var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")

	// ErrNoCandidates is the defined terminal outcome of candidate
	// selection when the eligible set is empty. It is not a failure.
	ErrNoCandidates = errors.New("no candidates available")
)

// ValidationError reports malformed or out-of-range input. It is reported
// synchronously and never persisted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RateLimitedError is an age-change guard denial. Recoverable by the caller
// after the cooldown; Reason is a human-readable explanation.
type RateLimitedError struct {
	Reason string
}

func (e *RateLimitedError) Error() string { return "rate limited: " + e.Reason }
