package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/haptic/internal/player"
)

// PlayerEventMsg wraps a player lifecycle event for the TUI.
type PlayerEventMsg struct {
	Event player.Event
}

// eventsClosedMsg is sent once the event channel is closed.
type eventsClosedMsg struct{}

// waitForEvent returns a command that delivers the next player event. The
// model re-issues it after every event, so at most one read is pending.
func waitForEvent(events <-chan player.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return PlayerEventMsg{Event: event}
	}
}
