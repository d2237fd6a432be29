// Package components provides reusable TUI components.
package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/haptic/internal/tui/styles"
)

// MaxShake is the largest horizontal displacement a button is drawn with.
const MaxShake = 3

// Button is one pressable cell of the demo grid.
type Button struct {
	Label string
	// Hint is a second line under the label, e.g. the kind or step count.
	Hint string
	// Background is the resting fill; Flash, when set, replaces it.
	Background string
	Flash      string
	// Edge colors the border when the button is not selected.
	Edge string
	// Offset is the shake displacement in cells, clamped to MaxShake.
	Offset float64
	// Scale grows the button; 1 is rest size.
	Scale float64
	// Tilt is the rotation in degrees; any tilt draws a thick border.
	Tilt     float64
	Selected bool
	Playing  bool
}

// RenderButton draws b at the given rest width. The result is always
// CellWidth(width) cells wide so the grid does not reflow while shaking.
func RenderButton(styleSet styles.Styles, b Button, width int) string {
	if width < 4 {
		width = 4
	}

	scale := b.Scale
	if scale < 1 {
		scale = 1
	}
	grow := int(math.Round(float64(width) * (scale - 1)))
	if grow > 2*MaxShake {
		grow = 2 * MaxShake
	}
	inner := width + grow

	style := styleSet.Button.Copy().Width(inner)
	background := b.Background
	if b.Flash != "" {
		background = b.Flash
	}
	if background != "" {
		style = style.Background(lipgloss.Color(background))
	}
	switch {
	case b.Selected:
		style = style.BorderForeground(styleSet.Selected.GetBorderTopForeground())
	case b.Edge != "":
		style = style.BorderForeground(lipgloss.Color(b.Edge))
	}
	if math.Abs(b.Tilt) >= 1 {
		style = style.BorderStyle(lipgloss.ThickBorder())
	}

	lines := []string{truncateCells(b.Label, inner-2)}
	switch {
	case b.Playing:
		lines = append(lines, styleSet.Playing.Render("● Playing"))
	case b.Hint != "":
		lines = append(lines, truncateCells(b.Hint, inner-2))
	default:
		lines = append(lines, "")
	}
	box := style.Render(strings.Join(lines, "\n"))

	offset := int(math.Round(clamp(b.Offset, -MaxShake, MaxShake)))
	left := MaxShake + offset - grow/2
	if left < 0 {
		left = 0
	}
	return lipgloss.NewStyle().Width(CellWidth(width)).PaddingLeft(left).Render(box)
}

// CellWidth is the rendered width of a button with the given rest width.
func CellWidth(width int) int {
	if width < 4 {
		width = 4
	}
	return width + 4*MaxShake + 2
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func truncateCells(value string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(value) <= max {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
