package dispatch

import "errors"

var (
	// ErrHardwareUnavailable is returned when the serial link cannot be
	// opened or written after the reconnect attempt.
	ErrHardwareUnavailable = errors.New("dispatch: hardware unavailable")

	// ErrShortWrite is returned when the controller accepted less than a
	// full frame; a partial frame is never considered sent.
	ErrShortWrite = errors.New("dispatch: short frame write")

	// ErrClosed is returned when dispatching through a closed adapter.
	ErrClosed = errors.New("dispatch: adapter closed")
)
