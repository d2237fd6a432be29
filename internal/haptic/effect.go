package haptic

import "fmt"

// Effect describes how a kind is rendered on screen and through synthetic
// hosts.
type Effect struct {
	// Shake is the horizontal displacement in cells/pixels.
	Shake float64 `json:"shake"`
	// Rotate is the tilt in degrees.
	Rotate float64 `json:"rotate"`
	// Scale is the zoom applied to single-impact buttons.
	Scale float64 `json:"scale"`
	// SequenceScale is the zoom applied to pattern buttons while a step plays.
	SequenceScale float64 `json:"sequence_scale"`
	// Color is the highlight color as #RRGGBB.
	Color string `json:"color"`
	// Intensity is a normalized strength in [0,1].
	Intensity float64 `json:"intensity"`
}

var effects = map[Kind]Effect{
	KindHeavy:     {Shake: 8, Rotate: 3, Scale: 1.15, SequenceScale: 1.3, Color: "#7c4dff", Intensity: 1.0},
	KindRigid:     {Shake: 6, Rotate: 2, Scale: 1.12, SequenceScale: 1.25, Color: "#ff4081", Intensity: 0.8},
	KindMedium:    {Shake: 4, Rotate: 1.5, Scale: 1.1, SequenceScale: 1.2, Color: "#00bcd4", Intensity: 0.6},
	KindLight:     {Shake: 2, Rotate: 1, Scale: 1.08, SequenceScale: 1.15, Color: "#4CAF50", Intensity: 0.4},
	KindSoft:      {Shake: 1, Rotate: 0.5, Scale: 1.05, SequenceScale: 1.1, Color: "#03a9f4", Intensity: 0.2},
	KindError:     {Shake: 10, Rotate: 4, Scale: 1.2, SequenceScale: 1.4, Color: "#ff4444", Intensity: 1.0},
	KindSuccess:   {Shake: 6, Rotate: 2, Scale: 1.15, SequenceScale: 1.3, Color: "#00C851", Intensity: 0.7},
	KindWarning:   {Shake: 8, Rotate: 3, Scale: 1.18, SequenceScale: 1.35, Color: "#ffbb33", Intensity: 0.85},
	KindSelection: {Shake: 3, Rotate: 1, Scale: 1.08, SequenceScale: 1.15, Color: "#9e9e9e", Intensity: 0.3},
	KindNone:      {Shake: 0, Rotate: 0, Scale: 1, SequenceScale: 1, Color: "#808080", Intensity: 0},
}

func init() {
	if err := validateEffects(effects); err != nil {
		panic(err)
	}
}

func validateEffects(table map[Kind]Effect) error {
	for _, kind := range allKinds {
		effect, ok := table[kind]
		if !ok {
			return fmt.Errorf("haptic: no effect defined for kind %q", kind)
		}
		if effect.Color == "" {
			return fmt.Errorf("haptic: effect for kind %q has no color", kind)
		}
		if effect.Scale < 1 || effect.SequenceScale < 1 {
			return fmt.Errorf("haptic: effect for kind %q scales below 1", kind)
		}
	}
	if len(table) != len(allKinds) {
		return fmt.Errorf("haptic: effect table has %d entries, want %d", len(table), len(allKinds))
	}
	return nil
}

// EffectFor returns the effect for a kind. Unknown kinds render as none.
func EffectFor(kind Kind) Effect {
	if effect, ok := effects[kind]; ok {
		return effect
	}
	return effects[KindNone]
}
