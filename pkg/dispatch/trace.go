package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/teslashibe/go-dancebot/internal/log"
	"github.com/teslashibe/go-dancebot/pkg/catalog"
)

// TraceEntry is one simulated dispatch record.
type TraceEntry struct {
	Seq      uint8         `json:"seq"`
	Title    string        `json:"title"`
	Label    string        `json:"label"`
	Duration time.Duration `json:"duration"`
	Time     time.Time     `json:"time"`
}

// Sink receives trace entries as they are recorded.
type Sink func(TraceEntry)

// Trace is the simulated dispatch adapter: it records a structured trace
// entry instead of touching hardware and always succeeds. It adds no delay
// of its own; pacing is the scheduler's job.
type Trace struct {
	mu      sync.Mutex
	entries []TraceEntry
	sink    Sink
}

// NewTrace creates a trace adapter. sink may be nil.
func NewTrace(sink Sink) *Trace {
	return &Trace{sink: sink}
}

// Dispatch records the action.
func (t *Trace) Dispatch(_ context.Context, action *catalog.ActionRecord) error {
	entry := TraceEntry{
		Seq:      action.Seq,
		Title:    action.Title,
		Label:    action.Label,
		Duration: action.Duration,
		Time:     time.Now(),
	}

	t.mu.Lock()
	t.entries = append(t.entries, entry)
	sink := t.sink
	t.mu.Unlock()

	log.Info("simulated dispatch",
		"seq", action.Seq, "label", action.Label, "duration", action.Duration)

	if sink != nil {
		sink(entry)
	}
	return nil
}

// Entries returns a copy of all recorded entries.
func (t *Trace) Entries() []TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Close implements Dispatcher; a trace has nothing to release.
func (t *Trace) Close() error {
	return nil
}
