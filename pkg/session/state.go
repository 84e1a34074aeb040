package session

import (
	"time"

	"github.com/teslashibe/go-dancebot/pkg/catalog"
	"github.com/teslashibe/go-dancebot/pkg/selector"
)

// state is the scheduler-owned mutable session record. It is only ever
// touched under the Scheduler's mutex; Query readers get a Snapshot copy.
type state struct {
	id           string
	mode         Mode
	status       Status
	target       time.Duration
	elapsed      time.Duration
	history      *selector.History
	lastCategory *catalog.Category
	lastAction   *catalog.ActionRecord
	stop         chan struct{}
	stopped      bool
}

// ActionSummary describes the last dispatched action in a Snapshot.
type ActionSummary struct {
	Seq      uint8         `json:"seq"`
	Title    string        `json:"title"`
	Label    string        `json:"label"`
	Duration time.Duration `json:"duration"`
}

// Snapshot is a consistent read-only view of the session for status queries.
type Snapshot struct {
	ID         string         `json:"id,omitempty"`
	Mode       string         `json:"mode"`
	Status     string         `json:"status"`
	Target     time.Duration  `json:"target"`
	Elapsed    time.Duration  `json:"elapsed"`
	History    []uint8        `json:"history"`
	LastAction *ActionSummary `json:"last_action,omitempty"`
}

func (st *state) snapshot() Snapshot {
	snap := Snapshot{
		ID:      st.id,
		Mode:    st.mode.String(),
		Status:  st.status.String(),
		Target:  st.target,
		Elapsed: st.elapsed,
		History: st.history.Seqs(),
	}
	if st.lastAction != nil {
		snap.LastAction = &ActionSummary{
			Seq:      st.lastAction.Seq,
			Title:    st.lastAction.Title,
			Label:    st.lastAction.Label,
			Duration: st.lastAction.Duration,
		}
	}
	return snap
}
