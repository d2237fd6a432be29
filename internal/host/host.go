// Package host provides implementations of the haptic host API and a registry
// to select one by name.
package host

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/haptic/internal/haptic"
	"github.com/opencode-ai/haptic/internal/logging"
)

// Unsupported is the host for platforms without haptics. Every call fails
// with haptic.ErrUnsupported.
type Unsupported struct{}

// ImpactOccurred fails.
func (Unsupported) ImpactOccurred(ctx context.Context, style haptic.Kind) error {
	return haptic.ErrUnsupported
}

// NotificationOccurred fails.
func (Unsupported) NotificationOccurred(ctx context.Context, outcome haptic.Kind) error {
	return haptic.ErrUnsupported
}

// SelectionChanged fails.
func (Unsupported) SelectionChanged(ctx context.Context) error {
	return haptic.ErrUnsupported
}

// Check fails, so callers can warn before the first call.
func (Unsupported) Check(ctx context.Context) error {
	return haptic.ErrUnsupported
}

// Logger writes every call to a zerolog logger at info level.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger returns a Logger host. A zero logger uses the "host" component.
func NewLogger(logger *zerolog.Logger) *Logger {
	if logger == nil {
		l := logging.Component("host")
		logger = &l
	}
	return &Logger{logger: *logger}
}

// ImpactOccurred logs an impact.
func (l *Logger) ImpactOccurred(ctx context.Context, style haptic.Kind) error {
	l.log(MethodImpact, style)
	return nil
}

// NotificationOccurred logs a notification.
func (l *Logger) NotificationOccurred(ctx context.Context, outcome haptic.Kind) error {
	l.log(MethodNotification, outcome)
	return nil
}

// SelectionChanged logs a selection change.
func (l *Logger) SelectionChanged(ctx context.Context) error {
	l.log(MethodSelection, haptic.KindSelection)
	return nil
}

func (l *Logger) log(method string, kind haptic.Kind) {
	effect := haptic.EffectFor(kind)
	l.logger.Info().
		Str("method", method).
		Str("kind", string(kind)).
		Float64("intensity", effect.Intensity).
		Msg("haptic feedback")
}

// Bell renders calls as text on a terminal. Each call writes a glyph whose
// width follows the kind's intensity, optionally preceded by a BEL.
type Bell struct {
	mu    sync.Mutex
	out   io.Writer
	audio bool
}

// NewBell writes to out. With audible set each call also rings the bell.
func NewBell(out io.Writer, audible bool) *Bell {
	return &Bell{out: out, audio: audible}
}

// ImpactOccurred writes an impact glyph.
func (b *Bell) ImpactOccurred(ctx context.Context, style haptic.Kind) error {
	return b.write(style)
}

// NotificationOccurred writes a notification glyph.
func (b *Bell) NotificationOccurred(ctx context.Context, outcome haptic.Kind) error {
	return b.write(outcome)
}

// SelectionChanged writes a selection glyph.
func (b *Bell) SelectionChanged(ctx context.Context) error {
	return b.write(haptic.KindSelection)
}

func (b *Bell) write(kind haptic.Kind) error {
	if b.out == nil {
		return haptic.ErrUnsupported
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	if b.audio {
		sb.WriteByte('\a')
	}
	sb.WriteString(Glyph(kind))
	sb.WriteByte('\n')

	_, err := io.WriteString(b.out, sb.String())
	return err
}

// Glyph returns the text rendering of one call, e.g. "heavy ████████".
func Glyph(kind haptic.Kind) string {
	effect := haptic.EffectFor(kind)
	bars := int(effect.Intensity*8 + 0.5)
	if bars < 1 {
		bars = 1
	}
	mark := "█"
	switch {
	case kind.IsNotification():
		mark = "▓"
	case kind.IsSelection():
		mark = "░"
	}
	return fmt.Sprintf("%-9s %s", kind, strings.Repeat(mark, bars))
}
