package haptic

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned by hosts that cannot produce haptics.
	ErrUnsupported = errors.New("haptic feedback is not supported by this host")
	// ErrInvalidKind indicates a kind that does not fit the requested call.
	ErrInvalidKind = errors.New("invalid haptic kind")
)

// Host is the platform feedback API.
type Host interface {
	// ImpactOccurred plays an impact of the given intensity.
	ImpactOccurred(ctx context.Context, style Kind) error
	// NotificationOccurred plays an error, success or warning outcome.
	NotificationOccurred(ctx context.Context, outcome Kind) error
	// SelectionChanged plays the selection pulse.
	SelectionChanged(ctx context.Context) error
}

// Dispatch issues the one host call that kind maps to. The none kind issues
// nothing. When notification is set the kind must be a notification outcome;
// otherwise it must be an impact or selection.
func Dispatch(ctx context.Context, host Host, kind Kind, notification bool) error {
	if host == nil {
		return errors.New("haptic host is required")
	}

	switch {
	case kind.IsNone():
		return nil
	case notification:
		if !kind.IsNotification() {
			return fmt.Errorf("%w: %q is not a notification outcome", ErrInvalidKind, kind)
		}
		return host.NotificationOccurred(ctx, kind)
	case kind.IsSelection():
		return host.SelectionChanged(ctx)
	case kind.IsImpact():
		return host.ImpactOccurred(ctx, kind)
	default:
		return fmt.Errorf("%w: %q is not an impact style", ErrInvalidKind, kind)
	}
}

// Checker is implemented by hosts that can tell before any call whether
// they produce feedback.
type Checker interface {
	Check(ctx context.Context) error
}

// Check reports whether host can produce feedback. Hosts that do not
// implement Checker are assumed to.
func Check(ctx context.Context, host Host) error {
	if host == nil {
		return errors.New("haptic host is required")
	}
	if c, ok := host.(Checker); ok {
		return c.Check(ctx)
	}
	return nil
}

// Drainer is implemented by hosts whose output outlives the call that
// started it, such as audio still in the device buffer.
type Drainer interface {
	Drain(ctx context.Context) error
}

// Drain blocks until host has finished its pending output or ctx is done.
// Hosts that do not implement Drainer return at once.
func Drain(ctx context.Context, host Host) error {
	if d, ok := host.(Drainer); ok {
		return d.Drain(ctx)
	}
	return nil
}
