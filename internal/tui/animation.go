package tui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/opencode-ai/haptic/internal/haptic"
)

const (
	fps           = 60
	frameTime     = time.Second / fps
	settleEpsilon = 0.01

	// shakeCells converts effect pixels to terminal cells.
	shakeCells = 0.35
	// flashFor is how long a button keeps the kind color after a pulse.
	flashFor = 250 * time.Millisecond
)

// buttonAnim springs a button back to rest after each pulse.
type buttonAnim struct {
	shake harmonica.Spring
	grow  harmonica.Spring

	x, xVel         float64
	scale, scaleVel float64
	tilt, tiltVel   float64
	flash           string
	flashUntil      time.Time
	sign            float64
}

func newButtonAnim() *buttonAnim {
	return &buttonAnim{
		// Low damping for a visible wobble on shake, near critical on scale.
		shake: harmonica.NewSpring(harmonica.FPS(fps), 18, 0.25),
		grow:  harmonica.NewSpring(harmonica.FPS(fps), 10, 0.8),
		scale: 1,
		sign:  1,
	}
}

// pulse kicks the button with the effect for kind. sequence selects the
// stronger scale used while a pattern plays.
func (a *buttonAnim) pulse(kind haptic.Kind, sequence bool, now time.Time) {
	effect := haptic.EffectFor(kind)
	if kind.IsNone() {
		return
	}

	a.x = a.sign * effect.Shake * shakeCells
	a.tilt = a.sign * effect.Rotate
	a.sign = -a.sign
	if sequence {
		a.scale = math.Max(a.scale, effect.SequenceScale)
	} else {
		a.scale = math.Max(a.scale, effect.Scale)
	}
	a.flash = effect.Color
	a.flashUntil = now.Add(flashFor)
}

// step advances one frame and reports whether the button is still moving.
func (a *buttonAnim) step(now time.Time) bool {
	a.x, a.xVel = a.shake.Update(a.x, a.xVel, 0)
	a.tilt, a.tiltVel = a.shake.Update(a.tilt, a.tiltVel, 0)
	a.scale, a.scaleVel = a.grow.Update(a.scale, a.scaleVel, 1)

	if !a.flashUntil.IsZero() && now.After(a.flashUntil) {
		a.flash = ""
		a.flashUntil = time.Time{}
	}
	return !a.settled()
}

func (a *buttonAnim) settled() bool {
	return math.Abs(a.x) < settleEpsilon &&
		math.Abs(a.xVel) < settleEpsilon &&
		math.Abs(a.tilt) < settleEpsilon &&
		math.Abs(a.tiltVel) < settleEpsilon &&
		math.Abs(a.scale-1) < settleEpsilon &&
		math.Abs(a.scaleVel) < settleEpsilon &&
		a.flash == ""
}

// reset snaps the button to rest.
func (a *buttonAnim) reset() {
	a.x, a.xVel = 0, 0
	a.tilt, a.tiltVel = 0, 0
	a.scale, a.scaleVel = 1, 0
	a.flash = ""
	a.flashUntil = time.Time{}
}

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(frameTime, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
