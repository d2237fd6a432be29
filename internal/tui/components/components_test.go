package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/haptic/internal/player"
	"github.com/opencode-ai/haptic/internal/tui/styles"
)

func TestRenderButton(t *testing.T) {
	styleSet := styles.DefaultStyles()

	t.Run("label and hint", func(t *testing.T) {
		out := RenderButton(styleSet, Button{Label: "Heavy Impact", Hint: "heavy"}, 16)
		if !strings.Contains(out, "Heavy Impact") {
			t.Errorf("expected label in output, got: %s", out)
		}
		if !strings.Contains(out, "heavy") {
			t.Errorf("expected hint in output, got: %s", out)
		}
	})

	t.Run("playing indicator replaces hint", func(t *testing.T) {
		out := RenderButton(styleSet, Button{Label: "heartbeat", Hint: "3 steps", Playing: true}, 16)
		if !strings.Contains(out, "Playing") {
			t.Errorf("expected playing indicator, got: %s", out)
		}
		if strings.Contains(out, "3 steps") {
			t.Errorf("hint should be hidden while playing, got: %s", out)
		}
	})

	t.Run("width is stable while shaking", func(t *testing.T) {
		rest := lipgloss.Width(RenderButton(styleSet, Button{Label: "x"}, 12))
		for _, offset := range []float64{-10, -2, 0, 2, 10} {
			b := Button{Label: "x", Offset: offset, Scale: 1.4}
			if got := lipgloss.Width(RenderButton(styleSet, b, 12)); got != rest {
				t.Errorf("offset %v: width %d, want %d", offset, got, rest)
			}
		}
	})

	t.Run("long labels are truncated", func(t *testing.T) {
		out := RenderButton(styleSet, Button{Label: strings.Repeat("a", 40)}, 10)
		if !strings.Contains(out, "…") {
			t.Errorf("expected ellipsis, got: %s", out)
		}
	})
}

func TestRenderSessionBadge(t *testing.T) {
	styleSet := styles.DefaultStyles()

	tests := []struct {
		name   string
		status SessionStatus
		want   string
	}{
		{"idle", SessionStatus{}, "Idle"},
		{"running", SessionStatus{Pattern: "status/loading", Outcome: player.OutcomeRunning, Calls: 1, Total: 4}, "Playing status/loading  1/4 calls"},
		{"finished", SessionStatus{Pattern: "a/b", Outcome: player.OutcomeFinished, Elapsed: time.Second}, "Finished"},
		{"cancelled", SessionStatus{Pattern: "a/b", Outcome: player.OutcomeCancelled}, "Cancelled"},
		{"failed", SessionStatus{Pattern: "a/b", Outcome: player.OutcomeFailed, Err: "boom"}, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderSessionBadge(styleSet, tt.status)
			if !strings.Contains(out, tt.want) {
				t.Errorf("RenderSessionBadge() = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestEmptyCatalog(t *testing.T) {
	out := EmptyCatalog().Render(styles.DefaultStyles())
	for _, want := range []string{"No patterns loaded", "Get started", "haptic init"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}
