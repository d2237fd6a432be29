// Package player plays haptic patterns against a host, one session at a time.
package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/haptic/internal/haptic"
	"github.com/opencode-ai/haptic/internal/logging"
	"github.com/opencode-ai/haptic/internal/patterns"
)

// Player errors.
var (
	ErrCancelled      = errors.New("playback cancelled")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrHostRequired   = errors.New("haptic host is required")
)

// WaitFunc suspends for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Option configures a Player.
type Option func(*Player)

// WithSink sets the lifecycle event sink.
func WithSink(sink EventSink) Option {
	return func(p *Player) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithRand sets the source for random delays. intN must return [0,n).
func WithRand(intN func(n int) int) Option {
	return func(p *Player) {
		if intN != nil {
			p.intN = intN
		}
	}
}

// WithWait replaces the delay implementation.
func WithWait(wait WaitFunc) Option {
	return func(p *Player) {
		if wait != nil {
			p.wait = wait
		}
	}
}

// WithSpeed divides every delay by speed. Values <= 0 are ignored.
func WithSpeed(speed float64) Option {
	return func(p *Player) {
		if speed > 0 {
			p.speed = speed
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Player) {
		if now != nil {
			p.now = now
		}
	}
}

// Stats contains player counters.
type Stats struct {
	Sessions  int64 `json:"sessions"`
	Finished  int64 `json:"finished"`
	Cancelled int64 `json:"cancelled"`
	Failed    int64 `json:"failed"`
	Triggers  int64 `json:"triggers"`
	HostCalls int64 `json:"host_calls"`
}

// Player owns the current session. Starting a session or firing a trigger
// cancels whatever session is live.
type Player struct {
	host   haptic.Host
	sink   EventSink
	logger zerolog.Logger
	intN   func(n int) int
	wait   WaitFunc
	speed  float64
	now    func() time.Time

	// mu guards current and is held across every host call, so a session
	// cancelled under mu can never issue another call.
	mu      sync.Mutex
	current *Session

	statsMu sync.Mutex
	stats   Stats
}

// New creates a Player for host.
func New(host haptic.Host, opts ...Option) (*Player, error) {
	if host == nil {
		return nil, ErrHostRequired
	}

	p := &Player{
		host:   host,
		sink:   NoopSink{},
		logger: logging.Component("player"),
		intN:   rand.Intn,
		wait:   sleepContext,
		speed:  1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Play cancels the live session, if any, and starts playing pattern in the
// background. The returned session is the handle for cancellation and
// completion. Cancelling ctx cancels the session.
func (p *Player) Play(ctx context.Context, pattern *patterns.Pattern) (*Session, error) {
	if err := patterns.Check(pattern); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := newSession(ctx, pattern, p.now())

	p.mu.Lock()
	previous := p.current
	if previous != nil {
		previous.Cancel()
	}
	p.current = session
	p.mu.Unlock()

	if previous != nil {
		p.logger.Debug().
			Str("session_id", previous.ID()).
			Str("superseded_by", session.ID()).
			Msg("session superseded")
	}

	p.addStats(func(s *Stats) { s.Sessions++ })
	go p.run(session)
	return session, nil
}

// Run plays pattern and blocks until the session ends.
func (p *Player) Run(ctx context.Context, pattern *patterns.Pattern) (*Session, error) {
	session, err := p.Play(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return session, session.Wait()
}

// Trigger cancels the live session and issues the single host call kind maps
// to: selection, notification or impact. The none kind issues nothing.
func (p *Player) Trigger(ctx context.Context, kind haptic.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", haptic.ErrInvalidKind, kind)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.Lock()
	previous := p.current
	if previous != nil {
		previous.Cancel()
		p.current = nil
	}
	err := haptic.Dispatch(ctx, p.host, kind, kind.IsNotification())
	p.mu.Unlock()

	p.addStats(func(s *Stats) {
		s.Triggers++
		if err == nil && !kind.IsNone() {
			s.HostCalls++
		}
	})

	event := Event{
		Type:         EventTriggered,
		Timestamp:    p.now(),
		Kind:         kind,
		Notification: kind.IsNotification(),
	}
	if err != nil {
		event.Error = err.Error()
		p.logger.Warn().Err(err).Str("kind", string(kind)).Msg("trigger failed")
	}
	p.emit(ctx, event)
	return err
}

// Stop cancels the live session. It reports whether a session was live.
func (p *Player) Stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return false
	}
	p.current.Cancel()
	p.current = nil
	return true
}

// Current returns the live session, or nil.
func (p *Player) Current() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Stats returns a snapshot of the player counters.
func (p *Player) Stats() Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	return p.stats
}

// Close stops playback and closes the event sink.
func (p *Player) Close() error {
	p.Stop()
	return p.sink.Close()
}

func (p *Player) run(session *Session) {
	pattern := session.Pattern()
	logger := p.logger.With().
		Str("session_id", session.ID()).
		Str("pattern", pattern.Ref()).
		Logger()

	logger.Debug().Int("repeat", pattern.Repeat).Int("steps", len(pattern.Sequence)).Msg("session started")
	p.emit(session.ctx, Event{
		Type:      EventStarted,
		Timestamp: session.StartedAt(),
		SessionID: session.ID(),
		Pattern:   pattern.Ref(),
	})

	err := p.playSequence(session)

	outcome := OutcomeFinished
	eventType := EventFinished
	switch {
	case err == nil:
	case errors.Is(err, ErrCancelled):
		outcome = OutcomeCancelled
		eventType = EventCancelled
	default:
		outcome = OutcomeFailed
		eventType = EventFailed
		logger.Error().Err(err).Int("calls", session.Calls()).Msg("session failed")
	}

	p.release(session)

	p.addStats(func(s *Stats) {
		switch outcome {
		case OutcomeFinished:
			s.Finished++
		case OutcomeCancelled:
			s.Cancelled++
		case OutcomeFailed:
			s.Failed++
		}
	})

	endedAt := p.now()
	event := Event{
		Type:      eventType,
		Timestamp: endedAt,
		SessionID: session.ID(),
		Pattern:   pattern.Ref(),
		Calls:     session.Calls(),
	}
	if outcome == OutcomeFailed {
		event.Error = err.Error()
	}
	p.emit(context.Background(), event)

	logger.Debug().
		Str("outcome", string(outcome)).
		Int("calls", session.Calls()).
		Dur("elapsed", endedAt.Sub(session.StartedAt())).
		Msg("session ended")

	session.finish(outcome, err, endedAt)
}

func (p *Player) playSequence(session *Session) error {
	pattern := session.Pattern()

	for iteration := 0; iteration < pattern.Repeat; iteration++ {
		if !session.Live() {
			return ErrCancelled
		}

		for index, step := range pattern.Sequence {
			if err := p.issue(session, step); err != nil {
				if errors.Is(err, ErrCancelled) {
					return err
				}
				return fmt.Errorf("%s step %d (%s): %w", pattern.Ref(), index+1, step.Type, err)
			}

			delay := p.effectiveDelay(step.Delay)
			p.emit(session.ctx, Event{
				Type:         EventStep,
				Timestamp:    p.now(),
				SessionID:    session.ID(),
				Pattern:      pattern.Ref(),
				Kind:         step.Type,
				Notification: step.Notification,
				Iteration:    iteration,
				Step:         index,
				Delay:        delay,
				Calls:        session.Calls(),
			})

			if err := p.wait(session.ctx, delay); err != nil {
				return ErrCancelled
			}
		}
	}
	return nil
}

// issue performs the host call for step while holding mu, after checking
// that the session is still live.
func (p *Player) issue(session *Session, step patterns.Step) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !session.Live() {
		return ErrCancelled
	}
	if step.Type.IsNone() {
		return nil
	}

	if err := haptic.Dispatch(session.ctx, p.host, step.Type, step.Notification); err != nil {
		if !session.Live() && errors.Is(err, context.Canceled) {
			return ErrCancelled
		}
		return err
	}

	session.calls.Add(1)
	p.addStats(func(s *Stats) { s.HostCalls++ })
	return nil
}

func (p *Player) release(session *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == session {
		p.current = nil
	}
}

func (p *Player) effectiveDelay(delay patterns.Delay) time.Duration {
	d := delay.Resolve(p.intN)
	if p.speed != 1 {
		d = time.Duration(float64(d) / p.speed)
	}
	if d < 0 {
		return 0
	}
	return d
}

func (p *Player) emit(ctx context.Context, event Event) {
	if err := p.sink.Emit(ctx, event); err != nil {
		p.logger.Debug().Err(err).Str("event", string(event.Type)).Msg("event sink rejected event")
	}
}

func (p *Player) addStats(update func(*Stats)) {
	p.statsMu.Lock()
	update(&p.stats)
	p.statsMu.Unlock()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
