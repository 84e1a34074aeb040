package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-dancebot/pkg/catalog"
	"github.com/teslashibe/go-dancebot/pkg/coherence"
	"github.com/teslashibe/go-dancebot/pkg/dispatch"
	"github.com/teslashibe/go-dancebot/pkg/selector"
)

// testStore builds a three-action catalog. With a uniform coherence matrix
// and no music snapshot all candidates score equally, so selection is the
// lowest seq not in the history window.
func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	cat, err := catalog.New([]*catalog.ActionRecord{
		{Seq: 0, Title: "Wave", Label: "wave", Duration: 4 * time.Second, Category: catalog.CategoryGesture},
		{Seq: 1, Title: "Stand", Label: "stand", Duration: time.Second, Category: catalog.CategoryStand},
		{Seq: 2, Title: "Forward", Label: "forward", Duration: 7500 * time.Millisecond, Category: catalog.CategoryForward},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return catalog.NewStore(cat, "", "")
}

func newTestScheduler(t *testing.T, real, sim dispatch.Dispatcher, cfg Config) *Scheduler {
	t.Helper()
	sel := selector.New(coherence.Uniform(), selector.DefaultWeights())
	return NewScheduler(testStore(t), sel, nil, real, sim, cfg)
}

// eventLog is a thread-safe listener that records published events.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) listen(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) statuses() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.events {
		if e.Type == EventStatus {
			out = append(out, e.Status)
		}
	}
	return out
}

func (l *eventLog) dispatchedSeqs() []uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []uint8
	for _, e := range l.events {
		if e.Type == EventDispatch {
			out = append(out, e.Action.Seq)
		}
	}
	return out
}

func waitTerminal(t *testing.T, s *Scheduler) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := s.Snapshot()
		if snap.Status == StatusStopped.String() || snap.Status == StatusFailed.String() {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("session did not reach a terminal status")
	return Snapshot{}
}

func TestTimedDanceRunsToTarget(t *testing.T) {
	trace := dispatch.NewTrace(nil)
	s := newTestScheduler(t, nil, trace, DefaultConfig())
	events := &eventLog{}
	s.SetListener(events.listen)
	s.wait = func(time.Duration, <-chan struct{}) bool { return true }

	id, err := s.StartTimedDance(context.Background(), ModeSimulated, 10*time.Second)
	if err != nil {
		t.Fatalf("StartTimedDance: %v", err)
	}
	if id == "" {
		t.Fatal("expected a session ID")
	}

	snap := waitTerminal(t, s)
	if snap.Status != "stopped" {
		t.Fatalf("status = %q, want stopped", snap.Status)
	}
	// 4000 + 1000 + 7500 ms; the last action is allowed to overrun the
	// 10s target, never cut short.
	if want := 12500 * time.Millisecond; snap.Elapsed != want {
		t.Errorf("elapsed = %v, want %v", snap.Elapsed, want)
	}

	entries := trace.Entries()
	if len(entries) != 3 {
		t.Fatalf("dispatched %d actions, want 3", len(entries))
	}
	for i, want := range []uint8{0, 1, 2} {
		if entries[i].Seq != want {
			t.Errorf("dispatch %d: seq = %d, want %d", i, entries[i].Seq, want)
		}
	}
	if got := events.dispatchedSeqs(); len(got) != 3 {
		t.Errorf("dispatch events = %v, want 3 entries", got)
	}
}

func TestStopDuringWait(t *testing.T) {
	trace := dispatch.NewTrace(nil)
	s := newTestScheduler(t, nil, trace, DefaultConfig())

	waiting := make(chan struct{}, 8)
	s.wait = func(_ time.Duration, cancel <-chan struct{}) bool {
		waiting <- struct{}{}
		<-cancel
		return false
	}

	if _, err := s.StartTimedDance(context.Background(), ModeSimulated, 10*time.Second); err != nil {
		t.Fatalf("StartTimedDance: %v", err)
	}

	select {
	case <-waiting:
	case <-time.After(2 * time.Second):
		t.Fatal("session never reached the playback wait")
	}
	s.Stop()

	snap := waitTerminal(t, s)
	if snap.Status != "stopped" {
		t.Fatalf("status = %q, want stopped", snap.Status)
	}
	// The interrupted wait must not be credited toward the target.
	if snap.Elapsed != 0 {
		t.Errorf("elapsed = %v, want 0", snap.Elapsed)
	}
	if n := len(trace.Entries()); n != 1 {
		t.Errorf("dispatched %d actions after stop, want 1", n)
	}
}

func TestSingleActionRealMode(t *testing.T) {
	mock := dispatch.NewMock()
	trace := dispatch.NewTrace(nil)
	s := newTestScheduler(t, mock, trace, DefaultConfig())
	events := &eventLog{}
	s.SetListener(events.listen)

	if err := s.RunSingleAction(context.Background(), ModeReal, "forward"); err != nil {
		t.Fatalf("RunSingleAction: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("real dispatches = %d, want 1", len(calls))
	}
	if calls[0].Seq != 2 {
		t.Errorf("dispatched seq = %d, want 2", calls[0].Seq)
	}
	if n := len(trace.Entries()); n != 0 {
		t.Errorf("simulated adapter saw %d dispatches, want 0", n)
	}

	snap := s.Snapshot()
	if snap.Status != "stopped" {
		t.Errorf("status = %q, want stopped", snap.Status)
	}
	if snap.LastAction == nil || snap.LastAction.Label != "forward" {
		t.Errorf("last action = %+v, want forward", snap.LastAction)
	}
	// One-shot sessions never enter the playback wait.
	for _, st := range events.statuses() {
		if st == "waiting" {
			t.Error("single action published a waiting status")
		}
	}
}

func TestSingleActionUnknownLabel(t *testing.T) {
	s := newTestScheduler(t, nil, dispatch.NewTrace(nil), DefaultConfig())

	err := s.RunSingleAction(context.Background(), ModeSimulated, "dab")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want catalog.ErrNotFound", err)
	}
	if got := s.Snapshot().Status; got != "idle" {
		t.Errorf("status after unknown label = %q, want idle", got)
	}
}

func TestDispatchFailureRetriesThenFails(t *testing.T) {
	mock := dispatch.NewMock()
	mock.DispatchFunc = func(context.Context, *catalog.ActionRecord) error {
		return dispatch.ErrHardwareUnavailable
	}
	cfg := DefaultConfig()
	cfg.RetryBackoff = time.Millisecond
	s := newTestScheduler(t, mock, dispatch.NewTrace(nil), cfg)

	err := s.RunSingleAction(context.Background(), ModeReal, "wave")
	if !errors.Is(err, dispatch.ErrHardwareUnavailable) {
		t.Fatalf("err = %v, want dispatch.ErrHardwareUnavailable", err)
	}
	if got := mock.CallCount(); got != 3 {
		t.Errorf("dispatch attempts = %d, want 3", got)
	}
	if got := s.Snapshot().Status; got != "failed" {
		t.Errorf("status = %q, want failed", got)
	}
}

func TestTimedDanceDispatchFailure(t *testing.T) {
	mock := dispatch.NewMock()
	mock.DispatchFunc = func(context.Context, *catalog.ActionRecord) error {
		return dispatch.ErrHardwareUnavailable
	}
	cfg := DefaultConfig()
	cfg.RetryBackoff = time.Millisecond
	s := newTestScheduler(t, mock, dispatch.NewTrace(nil), cfg)
	s.wait = func(time.Duration, <-chan struct{}) bool { return true }

	if _, err := s.StartTimedDance(context.Background(), ModeReal, 10*time.Second); err != nil {
		t.Fatalf("StartTimedDance: %v", err)
	}

	snap := waitTerminal(t, s)
	if snap.Status != "failed" {
		t.Fatalf("status = %q, want failed", snap.Status)
	}
	if got := mock.CallCount(); got != 3 {
		t.Errorf("dispatch attempts = %d, want 3", got)
	}
}

func TestBusyReject(t *testing.T) {
	s := newTestScheduler(t, nil, dispatch.NewTrace(nil), DefaultConfig())

	waiting := make(chan struct{}, 8)
	s.wait = func(_ time.Duration, cancel <-chan struct{}) bool {
		waiting <- struct{}{}
		<-cancel
		return false
	}

	if _, err := s.StartTimedDance(context.Background(), ModeSimulated, 10*time.Second); err != nil {
		t.Fatalf("StartTimedDance: %v", err)
	}
	select {
	case <-waiting:
	case <-time.After(2 * time.Second):
		t.Fatal("session never reached the playback wait")
	}

	if _, err := s.StartTimedDance(context.Background(), ModeSimulated, 5*time.Second); !errors.Is(err, ErrBusy) {
		t.Errorf("second dance: err = %v, want ErrBusy", err)
	}
	if err := s.RunSingleAction(context.Background(), ModeSimulated, "wave"); !errors.Is(err, ErrBusy) {
		t.Errorf("single action while busy: err = %v, want ErrBusy", err)
	}

	s.Stop()
	waitTerminal(t, s)

	// A terminal session frees the scheduler for the next command.
	s.wait = func(time.Duration, <-chan struct{}) bool { return true }
	if _, err := s.StartTimedDance(context.Background(), ModeSimulated, time.Second); err != nil {
		t.Errorf("dance after stop: %v", err)
	}
	waitTerminal(t, s)
}

func TestBadDuration(t *testing.T) {
	s := newTestScheduler(t, nil, dispatch.NewTrace(nil), DefaultConfig())
	for _, d := range []time.Duration{0, -time.Second} {
		if _, err := s.StartTimedDance(context.Background(), ModeSimulated, d); !errors.Is(err, ErrBadDuration) {
			t.Errorf("target %v: err = %v, want ErrBadDuration", d, err)
		}
	}
}

func TestStopIdleIsNoop(t *testing.T) {
	s := newTestScheduler(t, nil, dispatch.NewTrace(nil), DefaultConfig())
	s.Stop()
	if got := s.Snapshot().Status; got != "idle" {
		t.Errorf("status = %q, want idle", got)
	}
}
