package player

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/haptic/internal/haptic"
	"github.com/opencode-ai/haptic/internal/host"
	"github.com/opencode-ai/haptic/internal/patterns"
)

// timeline records host calls and waits in one ordered log.
type timeline struct {
	mu      sync.Mutex
	entries []string
}

func (t *timeline) add(entry string) {
	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()
}

func (t *timeline) snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.entries...)
}

func (t *timeline) ImpactOccurred(ctx context.Context, style haptic.Kind) error {
	t.add("impact:" + string(style))
	return nil
}

func (t *timeline) NotificationOccurred(ctx context.Context, outcome haptic.Kind) error {
	t.add("notification:" + string(outcome))
	return nil
}

func (t *timeline) SelectionChanged(ctx context.Context) error {
	t.add("selection")
	return nil
}

func (t *timeline) wait(ctx context.Context, d time.Duration) error {
	t.add(fmt.Sprintf("wait:%s", d))
	return ctx.Err()
}

func pattern(repeat int, steps ...patterns.Step) *patterns.Pattern {
	return &patterns.Pattern{
		Name:     "test",
		Category: "unit",
		Repeat:   repeat,
		Sequence: steps,
	}
}

func impact(kind haptic.Kind, ms int) patterns.Step {
	return patterns.Step{Type: kind, Delay: patterns.Fixed(ms)}
}

func notify(kind haptic.Kind, ms int) patterns.Step {
	return patterns.Step{Type: kind, Delay: patterns.Fixed(ms), Notification: true}
}

func newTimelinePlayer(t *testing.T, opts ...Option) (*Player, *timeline) {
	t.Helper()
	tl := &timeline{}
	p, err := New(tl, append([]Option{WithWait(tl.wait)}, opts...)...)
	require.NoError(t, err)
	return p, tl
}

func TestNewRequiresHost(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrHostRequired)
}

func TestPlayIssuesCallsInOrderWithDelays(t *testing.T) {
	p, tl := newTimelinePlayer(t)

	pat := pattern(2,
		impact(haptic.KindLight, 10),
		patterns.Step{Type: haptic.KindNone, Delay: patterns.Fixed(20)},
		notify(haptic.KindSuccess, 30),
	)
	session, err := p.Run(context.Background(), pat)
	require.NoError(t, err)
	require.Equal(t, OutcomeFinished, session.Outcome())
	require.Equal(t, pat.HostCalls(), session.Calls())
	require.Equal(t, 4, session.Calls())

	require.Equal(t, []string{
		"impact:light", "wait:10ms",
		"wait:20ms",
		"notification:success", "wait:30ms",
		"impact:light", "wait:10ms",
		"wait:20ms",
		"notification:success", "wait:30ms",
	}, tl.snapshot())
}

func TestScenarioSingleLight(t *testing.T) {
	rec := host.NewRecorder()
	p, err := New(rec)
	require.NoError(t, err)

	start := time.Now()
	session, err := p.Play(context.Background(), pattern(1, impact(haptic.KindLight, 100)))
	require.NoError(t, err)
	require.Equal(t, session, p.Current())

	require.NoError(t, session.Wait())
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	require.Nil(t, p.Current())

	calls := rec.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "impact:light", calls[0].String())
}

func TestScenarioNoneAndNotification(t *testing.T) {
	rec := host.NewRecorder()
	p, err := New(rec)
	require.NoError(t, err)

	start := time.Now()
	session, err := p.Run(context.Background(), pattern(2,
		patterns.Step{Type: haptic.KindNone, Delay: patterns.Fixed(50)},
		notify(haptic.KindError, 50),
	))
	require.NoError(t, err)
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	require.Less(t, elapsed, 2*time.Second)
	require.Equal(t, 2, session.Calls())
	for _, call := range rec.Calls() {
		require.Equal(t, "notification:error", call.String())
	}
}

func TestScenarioSupersede(t *testing.T) {
	rec := host.NewRecorder()
	p, err := New(rec)
	require.NoError(t, err)

	long := pattern(10,
		impact(haptic.KindLight, 1000),
		impact(haptic.KindLight, 1000),
	)
	first, err := p.Play(context.Background(), long)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.Count() == 1 }, time.Second, 5*time.Millisecond)

	second, err := p.Run(context.Background(), pattern(2, impact(haptic.KindHeavy, 0)))
	require.NoError(t, err)
	require.Equal(t, 2, second.Calls())

	require.ErrorIs(t, first.Wait(), ErrCancelled)
	require.Equal(t, OutcomeCancelled, first.Outcome())
	require.Equal(t, 1, first.Calls())

	var got []string
	for _, call := range rec.Calls() {
		got = append(got, call.String())
	}
	require.Equal(t, []string{"impact:light", "impact:heavy", "impact:heavy"}, got)

	stats := p.Stats()
	require.Equal(t, int64(2), stats.Sessions)
	require.Equal(t, int64(1), stats.Cancelled)
	require.Equal(t, int64(1), stats.Finished)
	require.Equal(t, int64(3), stats.HostCalls)
}

func TestNoCallsFromSupersededSessionAfterPlayReturns(t *testing.T) {
	rec := host.NewRecorder()
	p, err := New(rec, WithWait(func(ctx context.Context, d time.Duration) error { return ctx.Err() }))
	require.NoError(t, err)

	// The first pattern never waits, so it is issuing calls when superseded.
	busy := pattern(100000, impact(haptic.KindLight, 0))
	first, err := p.Play(context.Background(), busy)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.Count() > 0 }, time.Second, time.Millisecond)

	second, err := p.Play(context.Background(), pattern(0))
	require.NoError(t, err)
	atSupersede := first.Calls()

	require.ErrorIs(t, first.Wait(), ErrCancelled)
	require.NoError(t, second.Wait())
	require.Equal(t, atSupersede, first.Calls())
	require.Equal(t, atSupersede, rec.Count())
}

func TestStopIsIdempotent(t *testing.T) {
	p, err := New(host.NewRecorder())
	require.NoError(t, err)

	require.False(t, p.Stop())
	require.False(t, p.Stop())

	session, err := p.Play(context.Background(), pattern(1, impact(haptic.KindSoft, 5000)))
	require.NoError(t, err)
	require.True(t, p.Stop())
	require.False(t, p.Stop())
	session.Cancel()
	session.Cancel()

	require.ErrorIs(t, session.Wait(), ErrCancelled)
	session.Cancel()
}

func TestParentContextCancelsSession(t *testing.T) {
	p, err := New(host.NewRecorder())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	session, err := p.Play(ctx, pattern(1, impact(haptic.KindRigid, 5000)))
	require.NoError(t, err)
	cancel()

	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end after context cancel")
	}
	require.ErrorIs(t, session.Err(), ErrCancelled)
	require.Nil(t, p.Current())
}

func TestRandomDelayBound(t *testing.T) {
	var sampled []int
	p, tl := newTimelinePlayer(t, WithRand(func(n int) int {
		sampled = append(sampled, n)
		return n - 1
	}))

	_, err := p.Run(context.Background(), pattern(1,
		patterns.Step{Type: haptic.KindMedium, Delay: patterns.RandomUpTo(250)},
	))
	require.NoError(t, err)
	require.Equal(t, []int{250}, sampled)
	require.Equal(t, []string{"impact:medium", "wait:249ms"}, tl.snapshot())
}

func TestRandomDelayDefaultSource(t *testing.T) {
	var waits []time.Duration
	var mu sync.Mutex
	p, err := New(host.NewRecorder(), WithWait(func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		waits = append(waits, d)
		mu.Unlock()
		return nil
	}))
	require.NoError(t, err)

	_, err = p.Run(context.Background(), pattern(200,
		patterns.Step{Type: haptic.KindNone, Delay: patterns.RandomUpTo(40)},
	))
	require.NoError(t, err)
	require.Len(t, waits, 200)
	for _, d := range waits {
		require.GreaterOrEqual(t, d, time.Duration(0))
		require.Less(t, d, 40*time.Millisecond)
	}
}

func TestSpeedScalesDelays(t *testing.T) {
	p, tl := newTimelinePlayer(t, WithSpeed(2))
	_, err := p.Run(context.Background(), pattern(1, impact(haptic.KindLight, 100)))
	require.NoError(t, err)
	require.Equal(t, []string{"impact:light", "wait:50ms"}, tl.snapshot())
}

func TestEmptyPatternsCompleteImmediately(t *testing.T) {
	p, tl := newTimelinePlayer(t)

	for _, pat := range []*patterns.Pattern{
		pattern(1),
		pattern(0, impact(haptic.KindHeavy, 10)),
	} {
		session, err := p.Run(context.Background(), pat)
		require.NoError(t, err)
		require.Equal(t, OutcomeFinished, session.Outcome())
		require.Zero(t, session.Calls())
	}
	require.Empty(t, tl.snapshot())
}

func TestClassificationAcrossBuiltinCatalog(t *testing.T) {
	catalog, err := patterns.LoadBuiltin()
	require.NoError(t, err)

	rec := host.NewRecorder()
	p, err := New(rec, WithWait(func(ctx context.Context, d time.Duration) error { return ctx.Err() }))
	require.NoError(t, err)

	for _, pat := range catalog.All() {
		rec.Reset()
		session, err := p.Run(context.Background(), pat)
		require.NoError(t, err, pat.Ref())
		require.Equal(t, pat.HostCalls(), session.Calls(), pat.Ref())

		for _, call := range rec.Calls() {
			switch call.Method {
			case host.MethodNotification:
				require.True(t, call.Kind.IsNotification(), "%s: %s", pat.Ref(), call)
			case host.MethodImpact:
				require.True(t, call.Kind.IsImpact(), "%s: %s", pat.Ref(), call)
			default:
				t.Fatalf("%s: unexpected call %s", pat.Ref(), call)
			}
		}
	}
}

func TestPlayRejectsInvalidPattern(t *testing.T) {
	p, _ := newTimelinePlayer(t)

	_, err := p.Play(context.Background(), pattern(1, impact(haptic.KindSuccess, 0)))
	require.ErrorIs(t, err, ErrInvalidPattern)

	_, err = p.Play(context.Background(), pattern(1, notify(haptic.KindLight, 0)))
	require.ErrorIs(t, err, ErrInvalidPattern)

	_, err = p.Play(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidPattern)
	require.Nil(t, p.Current())
}

func TestHostFailureAbortsAndReleases(t *testing.T) {
	boom := errors.New("actuator offline")
	rec := host.NewRecorder()
	rec.FailAfter(1, boom)
	p, err := New(rec, WithWait(func(ctx context.Context, d time.Duration) error { return ctx.Err() }))
	require.NoError(t, err)

	session, err := p.Run(context.Background(), pattern(1,
		impact(haptic.KindLight, 0),
		impact(haptic.KindMedium, 0),
		impact(haptic.KindHeavy, 0),
	))
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "step 2")
	require.Equal(t, OutcomeFailed, session.Outcome())
	require.Equal(t, 1, session.Calls())
	require.Nil(t, p.Current())
	require.Equal(t, int64(1), p.Stats().Failed)

	rec.Reset()
	_, err = p.Run(context.Background(), pattern(1, impact(haptic.KindLight, 0)))
	require.NoError(t, err)
	require.Equal(t, 1, rec.Count())
}

func TestUnsupportedHostPropagates(t *testing.T) {
	p, err := New(host.Unsupported{})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), pattern(1, impact(haptic.KindLight, 0)))
	require.ErrorIs(t, err, haptic.ErrUnsupported)
	require.ErrorIs(t, p.Trigger(context.Background(), haptic.KindLight), haptic.ErrUnsupported)
}

func TestTriggerRouting(t *testing.T) {
	p, tl := newTimelinePlayer(t)
	ctx := context.Background()

	require.NoError(t, p.Trigger(ctx, haptic.KindSelection))
	require.NoError(t, p.Trigger(ctx, haptic.KindWarning))
	require.NoError(t, p.Trigger(ctx, haptic.KindRigid))
	require.NoError(t, p.Trigger(ctx, haptic.KindNone))
	require.ErrorIs(t, p.Trigger(ctx, haptic.Kind("buzz")), haptic.ErrInvalidKind)

	require.Equal(t, []string{"selection", "notification:warning", "impact:rigid"}, tl.snapshot())
	require.Equal(t, int64(4), p.Stats().Triggers)
	require.Equal(t, int64(3), p.Stats().HostCalls)
}

func TestTriggerCancelsRunningSession(t *testing.T) {
	rec := host.NewRecorder()
	p, err := New(rec)
	require.NoError(t, err)

	session, err := p.Play(context.Background(), pattern(3, impact(haptic.KindLight, 5000)))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.Count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, p.Trigger(context.Background(), haptic.KindSuccess))
	require.Nil(t, p.Current())
	require.ErrorIs(t, session.Wait(), ErrCancelled)

	var got []string
	for _, call := range rec.Calls() {
		got = append(got, call.String())
	}
	require.Equal(t, []string{"impact:light", "notification:success"}, got)
}

func TestJSONLSinkReceivesLifecycle(t *testing.T) {
	var buf bytes.Buffer
	p, _ := newTimelinePlayer(t, WithSink(NewJSONLSink(&buf)))

	session, err := p.Run(context.Background(), pattern(1,
		impact(haptic.KindLight, 10),
		notify(haptic.KindSuccess, 20),
	))
	require.NoError(t, err)
	require.NoError(t, p.Close())

	var types []EventType
	var steps []Event
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var event Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &event))
		require.Equal(t, session.ID(), event.SessionID)
		require.Equal(t, "unit/test", event.Pattern)
		types = append(types, event.Type)
		if event.Type == EventStep {
			steps = append(steps, event)
		}
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, []EventType{EventStarted, EventStep, EventStep, EventFinished}, types)
	require.Equal(t, haptic.KindSuccess, steps[1].Kind)
	require.True(t, steps[1].Notification)
	require.Equal(t, 20*time.Millisecond, steps[1].Delay)
	require.Equal(t, 2, steps[1].Calls)
}

func TestFailedEventCarriesError(t *testing.T) {
	var events []Event
	var mu sync.Mutex
	sink := FuncSink(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	p, err := New(host.Unsupported{}, WithSink(sink))
	require.NoError(t, err)

	_, err = p.Run(context.Background(), pattern(1, impact(haptic.KindLight, 0)))
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	last := events[len(events)-1]
	require.Equal(t, EventFailed, last.Type)
	require.Contains(t, last.Error, "not supported")
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	sink := NewChannelSink(1)
	ctx := context.Background()

	require.NoError(t, sink.Emit(ctx, Event{Type: EventStarted}))
	require.Error(t, sink.Emit(ctx, Event{Type: EventStep}))
	require.Equal(t, EventStarted, (<-sink.Events()).Type)

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())
	require.Error(t, sink.Emit(ctx, Event{Type: EventStep}))
	_, ok := <-sink.Events()
	require.False(t, ok)
}

func TestMultiSinkFansOut(t *testing.T) {
	var a, b int
	sink := MultiSink{
		FuncSink(func(Event) { a++ }),
		nil,
		FuncSink(func(Event) { b++ }),
	}
	require.NoError(t, sink.Emit(context.Background(), Event{Type: EventTriggered}))
	require.NoError(t, sink.Close())
	require.Equal(t, 1, a)
	require.Equal(t, 1, b)
}
