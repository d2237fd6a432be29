package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/haptic/internal/player"
	"github.com/opencode-ai/haptic/internal/tui/styles"
)

// SessionStatus is what the status line knows about the last session.
type SessionStatus struct {
	Pattern string
	Outcome player.Outcome
	Calls   int
	Total   int
	Elapsed time.Duration
	Err     string
}

// RenderSessionBadge renders the session outcome with icon and color.
func RenderSessionBadge(styleSet styles.Styles, status SessionStatus) string {
	if status.Pattern == "" {
		return styleSet.Muted.Render("- Idle")
	}
	icon, label, style := outcomeDescriptor(styleSet, status.Outcome)

	detail := fmt.Sprintf("%s %s %s  %d/%d calls", icon, label, status.Pattern, status.Calls, status.Total)
	if status.Outcome != player.OutcomeRunning && status.Elapsed > 0 {
		detail += fmt.Sprintf("  %s", status.Elapsed.Round(10*time.Millisecond))
	}
	if status.Err != "" {
		detail += "  " + status.Err
	}
	return style.Render(detail)
}

func outcomeDescriptor(styleSet styles.Styles, outcome player.Outcome) (string, string, lipgloss.Style) {
	switch outcome {
	case player.OutcomeRunning:
		return ">", "Playing", styleSet.Info
	case player.OutcomeFinished:
		return "OK", "Finished", styleSet.Success
	case player.OutcomeCancelled:
		return "-", "Cancelled", styleSet.Warning
	case player.OutcomeFailed:
		return "ERR", "Failed", styleSet.Error
	default:
		return "-", string(outcome), styleSet.Muted
	}
}
