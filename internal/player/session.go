package player

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/opencode-ai/haptic/internal/patterns"
)

// Outcome describes how a session ended.
type Outcome string

const (
	OutcomeRunning   Outcome = "running"
	OutcomeFinished  Outcome = "finished"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Session is the handle for one pattern playback. It is live from Play until
// the pattern completes, fails, is cancelled or is superseded.
type Session struct {
	id        string
	pattern   *patterns.Pattern
	startedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	calls atomic.Int64

	mu      sync.Mutex
	outcome Outcome
	err     error
	endedAt time.Time
}

func newSession(parent context.Context, pattern *patterns.Pattern, now time.Time) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		id:        uuid.NewString(),
		pattern:   pattern,
		startedAt: now,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		outcome:   OutcomeRunning,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Pattern returns the pattern being played.
func (s *Session) Pattern() *patterns.Pattern {
	return s.pattern
}

// StartedAt returns when playback began.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Cancel stops playback at the next step boundary. A host call already in
// progress completes. Safe to call more than once and after completion.
func (s *Session) Cancel() {
	s.cancel()
}

// Live reports whether the session may still issue host calls.
func (s *Session) Live() bool {
	return s.ctx.Err() == nil
}

// Done is closed once the session has been released.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session is released and returns Err.
func (s *Session) Wait() error {
	<-s.done
	return s.Err()
}

// Err returns nil for a finished session, ErrCancelled for a cancelled one and
// the host error for a failed one.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Outcome returns the current outcome.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Calls returns the number of host calls issued so far.
func (s *Session) Calls() int {
	return int(s.calls.Load())
}

// Elapsed returns the playback time so far, or the total once ended.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endedAt.IsZero() {
		return time.Since(s.startedAt)
	}
	return s.endedAt.Sub(s.startedAt)
}

func (s *Session) finish(outcome Outcome, err error, now time.Time) {
	s.mu.Lock()
	s.outcome = outcome
	s.err = err
	s.endedAt = now
	s.mu.Unlock()

	s.cancel()
	close(s.done)
}
