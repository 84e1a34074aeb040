package session

import "errors"

var (
	// ErrBusy is returned when a dance or action command arrives while a
	// session is still active. Commands are rejected, never queued or
	// preempting; the caller decides whether to stop and retry.
	ErrBusy = errors.New("session: a session is already active")

	// ErrBadDuration is returned for a non-positive dance duration.
	ErrBadDuration = errors.New("session: target duration must be positive")
)
