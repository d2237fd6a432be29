// Package audio plays a short synthesized tone for every haptic call. It is
// the closest a desktop gets to a vibration motor.
package audio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/opencode-ai/haptic/internal/haptic"
	"github.com/opencode-ai/haptic/internal/host"
)

// SampleRate used for synthesis and the speaker.
const SampleRate = beep.SampleRate(44100)

// bufferLatency is the speaker buffer; a tone starts at most this late.
const bufferLatency = time.Second / 10

// Note is one segment of a tone.
type Note struct {
	Freq   float64
	Length time.Duration
	Gain   float64
}

// Notes returns the tone for kind. Impacts are a single note whose pitch
// drops and length grows with intensity; outcomes get short phrases.
func Notes(kind haptic.Kind) []Note {
	effect := haptic.EffectFor(kind)
	switch kind {
	case haptic.KindNone:
		return nil
	case haptic.KindSuccess:
		return []Note{
			{Freq: 880, Length: 60 * time.Millisecond, Gain: effect.Intensity},
			{Freq: 1320, Length: 90 * time.Millisecond, Gain: effect.Intensity},
		}
	case haptic.KindWarning:
		return []Note{
			{Freq: 660, Length: 80 * time.Millisecond, Gain: effect.Intensity},
			{Freq: 660, Length: 80 * time.Millisecond, Gain: effect.Intensity},
		}
	case haptic.KindError:
		return []Note{
			{Freq: 350, Length: 70 * time.Millisecond, Gain: effect.Intensity},
			{Freq: 0, Length: 40 * time.Millisecond},
			{Freq: 350, Length: 70 * time.Millisecond, Gain: effect.Intensity},
		}
	case haptic.KindSelection:
		return []Note{{Freq: 1800, Length: 15 * time.Millisecond, Gain: effect.Intensity}}
	}

	return []Note{{
		Freq:   1400 - 1000*effect.Intensity,
		Length: time.Duration(20+60*effect.Intensity) * time.Millisecond,
		Gain:   effect.Intensity,
	}}
}

// Length is how long notes take to play.
func Length(notes []Note) time.Duration {
	var total time.Duration
	for _, note := range notes {
		total += note.Length
	}
	return total
}

// Synth returns a streamer playing notes back to back at sr.
func Synth(sr beep.SampleRate, notes []Note) beep.Streamer {
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, note := range notes {
		streamers = append(streamers, beep.Take(sr.N(note.Length), sine(sr, note)))
	}
	return beep.Seq(streamers...)
}

// sine is a sine wave with a linear decay so notes do not click.
func sine(sr beep.SampleRate, note Note) beep.Streamer {
	total := sr.N(note.Length)
	step := note.Freq / float64(sr)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			var v float64
			if note.Freq > 0 && total > 0 {
				decay := 1 - float64(pos)/float64(total)
				if decay < 0 {
					decay = 0
				}
				v = math.Sin(2*math.Pi*step*float64(pos)) * note.Gain * decay
			}
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	})
}

// Host plays tones through the system speaker.
type Host struct {
	volume float64

	initOnce sync.Once
	initErr  error

	mu        sync.Mutex
	// busyUntil is when the last queued tone stops sounding.
	busyUntil time.Time
}

// New returns an audio host. volume is 0..1; the speaker is opened lazily on
// the first call.
func New(volume float64) *Host {
	if volume <= 0 || volume > 1 {
		volume = 1
	}
	return &Host{volume: volume}
}

// ImpactOccurred plays the impact tone.
func (h *Host) ImpactOccurred(ctx context.Context, style haptic.Kind) error {
	return h.play(ctx, style)
}

// NotificationOccurred plays the outcome phrase.
func (h *Host) NotificationOccurred(ctx context.Context, outcome haptic.Kind) error {
	return h.play(ctx, outcome)
}

// SelectionChanged plays a tick.
func (h *Host) SelectionChanged(ctx context.Context) error {
	return h.play(ctx, haptic.KindSelection)
}

// Check opens the speaker and reports whether it is usable.
func (h *Host) Check(ctx context.Context) error {
	return h.open()
}

// Drain waits until every queued tone has played, so a process exiting
// right after its last call does not cut the tone off.
func (h *Host) Drain(ctx context.Context) error {
	h.mu.Lock()
	wait := time.Until(h.busyUntil)
	h.mu.Unlock()
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (h *Host) open() error {
	h.initOnce.Do(func() {
		if err := speaker.Init(SampleRate, SampleRate.N(bufferLatency)); err != nil {
			h.initErr = fmt.Errorf("%w: speaker: %v", haptic.ErrUnsupported, err)
		}
	})
	return h.initErr
}

func (h *Host) play(ctx context.Context, kind haptic.Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.open(); err != nil {
		return err
	}

	notes := Notes(kind)
	if len(notes) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.extend(time.Now(), Length(notes))
	speaker.Play(&effects.Volume{
		Streamer: Synth(SampleRate, notes),
		Base:     2,
		Volume:   math.Log2(h.volume),
	})
	return nil
}

// extend pushes busyUntil past a tone of length queued at now.
func (h *Host) extend(now time.Time, length time.Duration) {
	if end := now.Add(length + bufferLatency); end.After(h.busyUntil) {
		h.busyUntil = end
	}
}

func init() {
	host.DefaultRegistry.MustRegister("audio", func(opts host.Options) (haptic.Host, error) {
		return New(opts.Volume), nil
	})
}
