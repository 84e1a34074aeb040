package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/teslashibe/go-dancebot/pkg/catalog"
)

// Mock implements Dispatcher for testing.
// Behavior is customized via function fields.
type Mock struct {
	// DispatchFunc is called when Dispatch is invoked.
	// If nil, Dispatch succeeds.
	DispatchFunc func(ctx context.Context, action *catalog.ActionRecord) error

	// CloseFunc is called when Close is invoked. If nil, returns nil.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a dispatch invocation for verification.
type MockCall struct {
	Seq   uint8
	Label string
	Time  time.Time
}

// NewMock creates a mock whose dispatches succeed.
func NewMock() *Mock {
	return &Mock{}
}

// Dispatch records the call and delegates to DispatchFunc.
func (m *Mock) Dispatch(ctx context.Context, action *catalog.ActionRecord) error {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Seq: action.Seq, Label: action.Label, Time: time.Now()})
	m.mu.Unlock()

	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, action)
	}
	return nil
}

// Close delegates to CloseFunc.
func (m *Mock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns all recorded dispatches.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of dispatches.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
