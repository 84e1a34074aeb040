// Package session runs the dance session state machine: it repeatedly asks
// the selector for the next action, hands it to a dispatch adapter, and
// times playback until the requested duration is reached or the session is
// stopped.
package session

// Status is the session lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusSelecting
	StatusDispatching
	StatusWaiting
	StatusStopped
	StatusFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSelecting:
		return "selecting"
	case StatusDispatching:
		return "dispatching"
	case StatusWaiting:
		return "waiting"
	case StatusStopped:
		return "stopped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status ends a session.
func (s Status) Terminal() bool {
	return s == StatusStopped || s == StatusFailed
}

// Mode selects whether dispatches reach physical hardware or only a trace.
// It is a per-session parameter, never process-global.
type Mode int

const (
	ModeSimulated Mode = iota
	ModeReal
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	if m == ModeReal {
		return "real"
	}
	return "simulated"
}
