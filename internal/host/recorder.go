package host

import (
	"context"
	"sync"
	"time"

	"github.com/opencode-ai/haptic/internal/haptic"
)

// Call methods recorded by Recorder.
const (
	MethodImpact       = "impact"
	MethodNotification = "notification"
	MethodSelection    = "selection"
)

// Call is one recorded host call.
type Call struct {
	Method string      `json:"method"`
	Kind   haptic.Kind `json:"kind,omitempty"`
	At     time.Time   `json:"at"`
}

func (c Call) String() string {
	if c.Kind == "" {
		return c.Method
	}
	return c.Method + ":" + string(c.Kind)
}

// Recorder records every call it receives. It can be told to fail after a
// number of successful calls.
type Recorder struct {
	mu        sync.Mutex
	calls     []Call
	failErr   error
	failAfter int
	now       func() time.Time
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// FailAfter makes every call after the first n successful ones return err.
func (r *Recorder) FailAfter(n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAfter = n
	r.failErr = err
}

// ImpactOccurred records an impact call.
func (r *Recorder) ImpactOccurred(ctx context.Context, style haptic.Kind) error {
	return r.record(MethodImpact, style)
}

// NotificationOccurred records a notification call.
func (r *Recorder) NotificationOccurred(ctx context.Context, outcome haptic.Kind) error {
	return r.record(MethodNotification, outcome)
}

// SelectionChanged records a selection call.
func (r *Recorder) SelectionChanged(ctx context.Context) error {
	return r.record(MethodSelection, "")
}

func (r *Recorder) record(method string, kind haptic.Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failErr != nil && len(r.calls) >= r.failAfter {
		return r.failErr
	}
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	r.calls = append(r.calls, Call{Method: method, Kind: kind, At: now()})
	return nil
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns the number of recorded calls.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Reset clears recorded calls and failure settings.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.failErr = nil
	r.failAfter = 0
}
