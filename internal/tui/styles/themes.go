package styles

import "strings"

// ThemeTokens defines the semantic color roles for the TUI.
type ThemeTokens struct {
	Background string
	Panel      string
	Text       string
	TextMuted  string
	Border     string
	Accent     string
	Focus      string
	Success    string
	Warning    string
	Error      string
	Info       string
	// ButtonText is drawn on category and kind colored buttons.
	ButtonText string
	// Idle fills single impact buttons at rest.
	Idle string
}

// Theme bundles a palette with a name.
type Theme struct {
	Name   string
	Tokens ThemeTokens
	// Gradients overrides CategoryGradients per category.
	Gradients map[string]Gradient
}

// DefaultTheme is the baseline dark palette.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Background: "#0B0F14",
		Panel:      "#121821",
		Text:       "#E6EDF3",
		TextMuted:  "#8B9AAE",
		Border:     "#223043",
		Accent:     "#5B8DEF",
		Focus:      "#7AA2F7",
		Success:    "#00C851",
		Warning:    "#ffbb33",
		Error:      "#ff4444",
		Info:       "#58A6FF",
		ButtonText: "#FFFFFF",
		Idle:       "#1C2533",
	},
}

// HighContrastTheme flattens the gradients to saturated primaries.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	Tokens: ThemeTokens{
		Background: "#000000",
		Panel:      "#0A0A0A",
		Text:       "#FFFFFF",
		TextMuted:  "#C0C0C0",
		Border:     "#FFFFFF",
		Accent:     "#00A2FF",
		Focus:      "#FFD400",
		Success:    "#00FF5A",
		Warning:    "#FFB000",
		Error:      "#FF4040",
		Info:       "#66CCFF",
		ButtonText: "#000000",
		Idle:       "#C0C0C0",
	},
	Gradients: map[string]Gradient{
		"notification": {From: "#00FFFF", To: "#00FFFF"},
		"gameFeedback": {From: "#FF0044", To: "#FF0044"},
		"emotional":    {From: "#FFD400", To: "#FFD400"},
	},
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

// ThemeByName returns the named theme, falling back to DefaultTheme.
func ThemeByName(name string) (Theme, bool) {
	theme, ok := Themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return DefaultTheme, false
	}
	return theme, true
}

// ThemeNames returns theme names in cycling order.
func ThemeNames() []string {
	return []string{DefaultTheme.Name, HighContrastTheme.Name}
}
