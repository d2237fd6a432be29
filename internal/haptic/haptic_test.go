package haptic

import (
	"context"
	"errors"
	"testing"
)

type callLog struct {
	calls []string
	err   error
}

func (c *callLog) ImpactOccurred(ctx context.Context, style Kind) error {
	c.calls = append(c.calls, "impact:"+string(style))
	return c.err
}

func (c *callLog) NotificationOccurred(ctx context.Context, outcome Kind) error {
	c.calls = append(c.calls, "notification:"+string(outcome))
	return c.err
}

func (c *callLog) SelectionChanged(ctx context.Context) error {
	c.calls = append(c.calls, "selection")
	return c.err
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"light", KindLight, false},
		{"  HEAVY ", KindHeavy, false},
		{"warning", KindWarning, false},
		{"none", KindNone, false},
		{"selection", KindSelection, false},
		{"thud", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKind) {
					t.Fatalf("expected ErrInvalidKind, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Fatalf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKindClassificationIsPartition(t *testing.T) {
	for _, kind := range Kinds() {
		classes := 0
		for _, in := range []bool{kind.IsImpact(), kind.IsNotification(), kind.IsSelection(), kind.IsNone()} {
			if in {
				classes++
			}
		}
		if classes != 1 {
			t.Fatalf("kind %q belongs to %d classes, want 1", kind, classes)
		}
	}
}

func TestEffectTableCoversEveryKind(t *testing.T) {
	if err := validateEffects(effects); err != nil {
		t.Fatalf("validateEffects: %v", err)
	}

	partial := map[Kind]Effect{KindLight: effects[KindLight]}
	if err := validateEffects(partial); err == nil {
		t.Fatal("expected error for incomplete effect table")
	}
}

func TestEffectFor(t *testing.T) {
	if got := EffectFor(KindError).Shake; got != 10 {
		t.Fatalf("error shake = %v, want 10", got)
	}
	if got := EffectFor(KindHeavy).Color; got != "#7c4dff" {
		t.Fatalf("heavy color = %q, want #7c4dff", got)
	}
	if got := EffectFor(Kind("bogus")); got != EffectFor(KindNone) {
		t.Fatalf("unknown kind should render as none, got %+v", got)
	}
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name         string
		kind         Kind
		notification bool
		want         []string
		wantErr      error
	}{
		{"impact", KindRigid, false, []string{"impact:rigid"}, nil},
		{"notification", KindSuccess, true, []string{"notification:success"}, nil},
		{"selection", KindSelection, false, []string{"selection"}, nil},
		{"none", KindNone, false, nil, nil},
		{"none flagged", KindNone, true, nil, nil},
		{"outcome without flag", KindError, false, nil, ErrInvalidKind},
		{"impact with flag", KindLight, true, nil, ErrInvalidKind},
		{"unknown", Kind("thud"), false, nil, ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &callLog{}
			err := Dispatch(context.Background(), host, tt.kind, tt.notification)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Dispatch error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			if len(host.calls) != len(tt.want) {
				t.Fatalf("calls = %v, want %v", host.calls, tt.want)
			}
			for i := range tt.want {
				if host.calls[i] != tt.want[i] {
					t.Fatalf("call %d = %q, want %q", i, host.calls[i], tt.want[i])
				}
			}
		})
	}
}

func TestDispatchPropagatesHostError(t *testing.T) {
	host := &callLog{err: ErrUnsupported}
	err := Dispatch(context.Background(), host, KindMedium, false)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

type checkedHost struct {
	callLog
	checkErr error
	drained  int
}

func (h *checkedHost) Check(ctx context.Context) error { return h.checkErr }

func (h *checkedHost) Drain(ctx context.Context) error {
	h.drained++
	return nil
}

func TestCheckAndDrain(t *testing.T) {
	ctx := context.Background()

	if err := Check(ctx, &callLog{}); err != nil {
		t.Fatalf("plain host Check = %v, want nil", err)
	}
	if err := Drain(ctx, &callLog{}); err != nil {
		t.Fatalf("plain host Drain = %v, want nil", err)
	}

	host := &checkedHost{checkErr: ErrUnsupported}
	if err := Check(ctx, host); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Check = %v, want ErrUnsupported", err)
	}
	if err := Drain(ctx, host); err != nil || host.drained != 1 {
		t.Fatalf("Drain = %v, drained = %d", err, host.drained)
	}
	if err := Check(ctx, nil); err == nil {
		t.Fatalf("Check(nil) should fail")
	}
}
