package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/haptic/internal/tui/styles"
)

// EmptyState is shown in place of a section with nothing to list.
type EmptyState struct {
	Title       string
	Subtitle    string
	Suggestions []Suggestion
}

// Suggestion is a command the user can run.
type Suggestion struct {
	Command     string
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	lines := []string{styleSet.Muted.Render(e.Title)}
	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}
	if len(e.Suggestions) > 0 {
		lines = append(lines, "", styleSet.Text.Render("Get started:"))
		for _, s := range e.Suggestions {
			line := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				line += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// EmptyCatalog is shown when no patterns were loaded.
func EmptyCatalog() EmptyState {
	return EmptyState{
		Title:    "No patterns loaded",
		Subtitle: "Single impacts still work.",
		Suggestions: []Suggestion{
			{Command: "haptic init", Description: "create an example pattern file"},
			{Command: "haptic validate <file>", Description: "check a pattern file"},
		},
	}
}
