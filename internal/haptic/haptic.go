// Package haptic defines feedback kinds, their visual effects and the host
// feedback API that patterns are played against.
package haptic

import (
	"fmt"
	"strings"
)

// Kind identifies a single feedback primitive.
type Kind string

const (
	KindLight  Kind = "light"
	KindMedium Kind = "medium"
	KindHeavy  Kind = "heavy"
	KindRigid  Kind = "rigid"
	KindSoft   Kind = "soft"

	KindError   Kind = "error"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"

	KindSelection Kind = "selection"
	KindNone      Kind = "none"
)

var allKinds = []Kind{
	KindLight,
	KindMedium,
	KindHeavy,
	KindRigid,
	KindSoft,
	KindError,
	KindSuccess,
	KindWarning,
	KindSelection,
	KindNone,
}

// Kinds returns every known kind in display order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind normalizes and validates a kind name.
func ParseKind(value string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(value)))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, value)
	}
	return kind, nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsImpact reports whether k is an impact intensity.
func (k Kind) IsImpact() bool {
	switch k {
	case KindLight, KindMedium, KindHeavy, KindRigid, KindSoft:
		return true
	default:
		return false
	}
}

// IsNotification reports whether k is a notification outcome.
func (k Kind) IsNotification() bool {
	switch k {
	case KindError, KindSuccess, KindWarning:
		return true
	default:
		return false
	}
}

// IsSelection reports whether k is the selection-changed pulse.
func (k Kind) IsSelection() bool {
	return k == KindSelection
}

// IsNone reports whether k is the no-op kind.
func (k Kind) IsNone() bool {
	return k == KindNone
}

func (k Kind) String() string {
	return string(k)
}
