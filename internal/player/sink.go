package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/opencode-ai/haptic/internal/haptic"
)

// EventType names a playback lifecycle event.
type EventType string

const (
	EventStarted   EventType = "started"
	EventStep      EventType = "step"
	EventFinished  EventType = "finished"
	EventCancelled EventType = "cancelled"
	EventFailed    EventType = "failed"
	EventTriggered EventType = "triggered"
)

// Event is emitted for every lifecycle change. Step events are emitted after
// the host call and carry the delay that follows.
type Event struct {
	Type         EventType     `json:"type"`
	Timestamp    time.Time     `json:"timestamp"`
	SessionID    string        `json:"session_id,omitempty"`
	Pattern      string        `json:"pattern,omitempty"`
	Kind         haptic.Kind   `json:"kind,omitempty"`
	Notification bool          `json:"notification,omitempty"`
	Iteration    int           `json:"iteration"`
	Step         int           `json:"step"`
	Delay        time.Duration `json:"delay_ns,omitempty"`
	Calls        int           `json:"calls,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// EventSink receives player events.
type EventSink interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}

// NoopSink drops all events.
type NoopSink struct{}

// Emit ignores events.
func (NoopSink) Emit(ctx context.Context, event Event) error {
	return nil
}

// Close is a no-op.
func (NoopSink) Close() error {
	return nil
}

// FuncSink adapts a function to EventSink.
type FuncSink func(Event)

// Emit calls the function.
func (f FuncSink) Emit(ctx context.Context, event Event) error {
	if f != nil {
		f(event)
	}
	return nil
}

// Close is a no-op.
func (FuncSink) Close() error {
	return nil
}

// JSONLSink writes events as JSON lines.
type JSONLSink struct {
	mu      sync.Mutex
	encoder *json.Encoder
	closer  io.Closer
	closed  bool
}

// NewJSONLSink writes to w. Close does not close w.
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{encoder: json.NewEncoder(w)}
}

// OpenJSONLSink appends events to the file at path.
func OpenJSONLSink(path string) (*JSONLSink, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("event file path is required")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open event file %s: %w", path, err)
	}
	return &JSONLSink{encoder: json.NewEncoder(f), closer: f}, nil
}

// Emit writes one event line.
func (s *JSONLSink) Emit(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("event sink closed")
	}
	return s.encoder.Encode(event)
}

// Close closes the event file, if the sink owns one.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// MultiSink fans events out to several sinks.
type MultiSink []EventSink

// Emit forwards to every sink and joins their errors.
func (m MultiSink) Emit(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (m MultiSink) Close() error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ChannelSink delivers events on a buffered channel without blocking. Events
// are dropped while the buffer is full.
type ChannelSink struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(size int) *ChannelSink {
	if size <= 0 {
		size = 64
	}
	return &ChannelSink{ch: make(chan Event, size)}
}

// Events returns the receive side. It is closed by Close.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// Emit queues the event, or drops it when the buffer is full.
func (s *ChannelSink) Emit(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("event sink closed")
	}
	select {
	case s.ch <- event:
		return nil
	default:
		return errors.New("event buffer full")
	}
}

// Close closes the channel.
func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}
