package audio

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/haptic/internal/haptic"
)

func TestNotesFollowIntensity(t *testing.T) {
	light := Notes(haptic.KindLight)
	heavy := Notes(haptic.KindHeavy)
	require.Len(t, light, 1)
	require.Len(t, heavy, 1)
	require.Greater(t, light[0].Freq, heavy[0].Freq)
	require.Less(t, light[0].Length, heavy[0].Length)
	require.Nil(t, Notes(haptic.KindNone))
	require.Len(t, Notes(haptic.KindError), 3)
}

func TestSynthLength(t *testing.T) {
	sr := SampleRate
	notes := []Note{
		{Freq: 440, Length: 10 * time.Millisecond, Gain: 1},
		{Freq: 0, Length: 5 * time.Millisecond},
	}
	streamer := Synth(sr, notes)

	want := sr.N(10*time.Millisecond) + sr.N(5*time.Millisecond)
	buf := make([][2]float64, 256)
	got := 0
	peak := 0.0
	for {
		n, ok := streamer.Stream(buf)
		for _, s := range buf[:n] {
			peak = math.Max(peak, math.Abs(s[0]))
			require.Equal(t, s[0], s[1])
		}
		got += n
		if !ok {
			break
		}
	}
	require.Equal(t, want, got)
	require.Greater(t, peak, 0.1)
	require.LessOrEqual(t, peak, 1.0)
}

func TestLength(t *testing.T) {
	require.Equal(t, 180*time.Millisecond, Length(Notes(haptic.KindError)))
	require.Zero(t, Length(nil))
}

func TestDrainWaitsForQueuedTones(t *testing.T) {
	h := New(1)
	require.NoError(t, h.Drain(context.Background()))

	start := time.Now()
	h.extend(start, 30*time.Millisecond)
	h.extend(start, 10*time.Millisecond)
	require.Equal(t, start.Add(30*time.Millisecond+bufferLatency), h.busyUntil)

	require.NoError(t, h.Drain(context.Background()))
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond+bufferLatency)
}

func TestDrainStopsOnCancel(t *testing.T) {
	h := New(1)
	h.extend(time.Now(), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, h.Drain(ctx), context.Canceled)
}
