package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-dancebot/internal/log"
	"github.com/teslashibe/go-dancebot/pkg/catalog"
	"github.com/teslashibe/go-dancebot/pkg/dispatch"
	"github.com/teslashibe/go-dancebot/pkg/music"
	"github.com/teslashibe/go-dancebot/pkg/selector"
)

// Config tunes the scheduler.
type Config struct {
	// HistorySize is the non-repetition window K (default 3).
	HistorySize int

	// DispatchRetries is the number of dispatch attempts before a session
	// fails (default 3).
	DispatchRetries int

	// RetryBackoff is the initial delay between attempts, doubling each
	// retry (default 50ms).
	RetryBackoff time.Duration
}

// DefaultConfig returns the standard scheduler tuning.
func DefaultConfig() Config {
	return Config{
		HistorySize:     3,
		DispatchRetries: 3,
		RetryBackoff:    50 * time.Millisecond,
	}
}

// Scheduler drives dance sessions. Exactly one session is active at a time;
// commands arriving while one is active are rejected with ErrBusy. All
// session state is owned by the scheduler and only exposed through Snapshot.
type Scheduler struct {
	store    *catalog.Store
	sel      *selector.Selector
	cell     *music.Cell // nil when no music source is attached
	real     dispatch.Dispatcher
	sim      dispatch.Dispatcher
	cfg      Config
	listener Listener

	// wait blocks for d or until cancel fires; returns true when the full
	// duration elapsed. Swapped in tests for deterministic timing.
	wait func(d time.Duration, cancel <-chan struct{}) bool

	mu      sync.Mutex
	current *state
}

// NewScheduler creates a scheduler over the given catalog store, selector
// and per-mode dispatch adapters.
func NewScheduler(store *catalog.Store, sel *selector.Selector, cell *music.Cell, real, sim dispatch.Dispatcher, cfg Config) *Scheduler {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultConfig().HistorySize
	}
	if cfg.DispatchRetries <= 0 {
		cfg.DispatchRetries = DefaultConfig().DispatchRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultConfig().RetryBackoff
	}
	return &Scheduler{
		store: store,
		sel:   sel,
		cell:  cell,
		real:  real,
		sim:   sim,
		cfg:   cfg,
		wait:  timerWait,
	}
}

// SetListener registers the event listener. Must be called before any
// session starts.
func (s *Scheduler) SetListener(l Listener) {
	s.listener = l
}

// StartTimedDance begins a timed session and returns its ID. The session
// runs in the background; progress is observed via Snapshot and events.
func (s *Scheduler) StartTimedDance(ctx context.Context, mode Mode, target time.Duration) (string, error) {
	if target <= 0 {
		return "", ErrBadDuration
	}

	s.mu.Lock()
	if s.busyLocked() {
		s.mu.Unlock()
		return "", ErrBusy
	}
	st := s.newState(mode)
	st.target = target
	st.status = StatusSelecting
	s.current = st
	s.mu.Unlock()

	log.Info("dance session started",
		"session", st.id, "mode", mode.String(), "target", target)
	s.notifyStatus(st)

	go s.runTimed(ctx, st)
	return st.id, nil
}

// RunSingleAction plays one catalog action by voice label and returns when
// it has been dispatched. An unknown label is reported without touching
// session state.
func (s *Scheduler) RunSingleAction(ctx context.Context, mode Mode, label string) error {
	action, err := s.store.Current().ByLabel(label)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.busyLocked() {
		s.mu.Unlock()
		return ErrBusy
	}
	st := s.newState(mode)
	st.status = StatusDispatching
	s.current = st
	s.mu.Unlock()

	log.Info("single action", "session", st.id, "mode", mode.String(), "label", label)
	s.notifyStatus(st)

	if err := s.dispatchWithRetry(ctx, st, action); err != nil {
		s.finish(st, StatusFailed)
		return err
	}
	s.recordDispatch(st, action)

	// One-shot sessions stop right after acknowledgment; playback timing
	// is the hardware's business.
	s.finish(st, StatusStopped)
	return nil
}

// Stop cancels the active session immediately. The action already
// dispatched is not recalled. Stopping an idle scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.current
	if st == nil || st.status.Terminal() || st.stopped {
		return
	}
	st.stopped = true
	close(st.stop)
	log.Info("stop requested", "session", st.id)
}

// Snapshot returns a consistent view of the current (or last) session.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Snapshot{
			Mode:    ModeSimulated.String(),
			Status:  StatusIdle.String(),
			History: []uint8{},
		}
	}
	return s.current.snapshot()
}

func (s *Scheduler) busyLocked() bool {
	return s.current != nil && !s.current.status.Terminal()
}

func (s *Scheduler) newState(mode Mode) *state {
	return &state{
		id:      uuid.NewString(),
		mode:    mode,
		history: selector.NewHistory(s.cfg.HistorySize),
		stop:    make(chan struct{}),
	}
}

// runTimed is the session loop: Selecting -> Dispatching -> Waiting, back to
// Selecting until the accumulated playback reaches the target. Actions are
// never cut short by timing; only an explicit stop cancels the wait.
func (s *Scheduler) runTimed(ctx context.Context, st *state) {
	for {
		if st.stoppedNow() || ctx.Err() != nil {
			s.finish(st, StatusStopped)
			return
		}

		s.transition(st, StatusSelecting)

		var snap *music.Snapshot
		if s.cell != nil {
			snap, _ = s.cell.Latest()
		}

		s.mu.Lock()
		hist, last := st.history, st.lastCategory
		s.mu.Unlock()

		action, err := s.sel.Select(s.store.Current(), snap, hist, last)
		if err != nil {
			log.Error("selection failed", "session", st.id, "error", err)
			s.finish(st, StatusFailed)
			return
		}

		s.transition(st, StatusDispatching)
		if err := s.dispatchWithRetry(ctx, st, action); err != nil {
			if st.stoppedNow() {
				s.finish(st, StatusStopped)
				return
			}
			log.Error("dispatch failed", "session", st.id, "seq", action.Seq, "error", err)
			s.finish(st, StatusFailed)
			return
		}
		s.recordDispatch(st, action)

		s.transition(st, StatusWaiting)
		if !s.wait(action.Duration, st.stop) {
			// Stop during the wait: elapsed stays short of the full action.
			s.finish(st, StatusStopped)
			return
		}

		s.mu.Lock()
		st.elapsed += action.Duration
		done := st.elapsed >= st.target
		elapsed := st.elapsed
		s.mu.Unlock()

		if done {
			log.Info("dance session complete",
				"session", st.id, "elapsed", elapsed, "target", st.target)
			s.finish(st, StatusStopped)
			return
		}
	}
}

// dispatchWithRetry hands the action to the mode's adapter, retrying with
// doubling backoff before giving up.
func (s *Scheduler) dispatchWithRetry(ctx context.Context, st *state, action *catalog.ActionRecord) error {
	d := s.sim
	if st.mode == ModeReal {
		d = s.real
	}
	if d == nil {
		return fmt.Errorf("session: no %s dispatcher configured", st.mode)
	}

	backoff := s.cfg.RetryBackoff
	var err error
	for attempt := 1; attempt <= s.cfg.DispatchRetries; attempt++ {
		if err = d.Dispatch(ctx, action); err == nil {
			return nil
		}
		if attempt < s.cfg.DispatchRetries {
			log.Warn("dispatch retry",
				"session", st.id, "seq", action.Seq, "attempt", attempt, "error", err)
			if !s.wait(backoff, st.stop) {
				return err
			}
			backoff *= 2
		}
	}
	return err
}

// recordDispatch updates history, last category and last action, then
// publishes the dispatch event.
func (s *Scheduler) recordDispatch(st *state, action *catalog.ActionRecord) {
	s.mu.Lock()
	st.history.Push(action.Seq)
	cat := action.Category
	st.lastCategory = &cat
	st.lastAction = action
	s.mu.Unlock()
	s.notifyDispatch(st, action)
}

func (s *Scheduler) transition(st *state, status Status) {
	s.mu.Lock()
	st.status = status
	s.mu.Unlock()
	s.notifyStatus(st)
}

func (s *Scheduler) finish(st *state, status Status) {
	s.transition(st, status)
}

func (st *state) stoppedNow() bool {
	select {
	case <-st.stop:
		return true
	default:
		return false
	}
}

// timerWait blocks for d or until cancel fires, with effectively immediate
// cancellation latency.
func timerWait(d time.Duration, cancel <-chan struct{}) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-cancel:
		return false
	}
}
