package session

import (
	"time"

	"github.com/teslashibe/go-dancebot/pkg/catalog"
)

// EventType identifies a session event.
type EventType string

const (
	// EventStatus is published on every status transition.
	EventStatus EventType = "status"

	// EventDispatch is published for every dispatched action.
	EventDispatch EventType = "dispatch"
)

// Event carries a session state change for external observers
// (the web dashboard's websocket stream).
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	Status    string         `json:"status,omitempty"`
	Action    *ActionSummary `json:"action,omitempty"`
	Elapsed   time.Duration  `json:"elapsed"`
	Time      time.Time      `json:"time"`
}

// Listener receives session events. It must not block; slow consumers
// should buffer on their side.
type Listener func(Event)

func (s *Scheduler) notifyStatus(st *state) {
	if s.listener == nil {
		return
	}
	s.listener(Event{
		Type:      EventStatus,
		SessionID: st.id,
		Status:    st.status.String(),
		Elapsed:   st.elapsed,
		Time:      time.Now(),
	})
}

func (s *Scheduler) notifyDispatch(st *state, action *catalog.ActionRecord) {
	if s.listener == nil {
		return
	}
	s.listener(Event{
		Type:      EventDispatch,
		SessionID: st.id,
		Status:    st.status.String(),
		Action: &ActionSummary{
			Seq:      action.Seq,
			Title:    action.Title,
			Label:    action.Label,
			Duration: action.Duration,
		},
		Elapsed: st.elapsed,
		Time:    time.Now(),
	})
}
