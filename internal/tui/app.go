// Package tui implements the haptic demo terminal user interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/haptic/internal/haptic"
	"github.com/opencode-ai/haptic/internal/host"
	"github.com/opencode-ai/haptic/internal/logging"
	"github.com/opencode-ai/haptic/internal/patterns"
	"github.com/opencode-ai/haptic/internal/player"
	"github.com/opencode-ai/haptic/internal/tui/components"
	"github.com/opencode-ai/haptic/internal/tui/styles"
)

// Config wires the TUI to a player and catalog.
type Config struct {
	Player *player.Player
	// Events should be fed by a player.ChannelSink attached to Player.
	Events   <-chan player.Event
	Catalog  *patterns.Catalog
	Theme    string
	ShowHelp bool
	// Notice is shown under the title, e.g. when the host has no haptics.
	Notice   string
}

// Run launches the TUI program and blocks until it exits.
func Run(cfg Config) error {
	if cfg.Player == nil {
		return fmt.Errorf("tui: player is required")
	}
	program := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	_, err := program.Run()
	cfg.Player.Stop()
	return err
}

const (
	minWidth    = 40
	minHeight   = 12
	buttonWidth = 18
)

type singleImpact struct {
	label string
	kind  haptic.Kind
}

var singleImpacts = []singleImpact{
	{"Light Impact", haptic.KindLight},
	{"Medium Impact", haptic.KindMedium},
	{"Heavy Impact", haptic.KindHeavy},
	{"Rigid Impact", haptic.KindRigid},
	{"Soft Impact", haptic.KindSoft},
	{"Error Notification", haptic.KindError},
	{"Success Notification", haptic.KindSuccess},
	{"Warning Notification", haptic.KindWarning},
	{"Selection Changed", haptic.KindSelection},
}

type item struct {
	label   string
	hint    string
	kind    haptic.Kind
	pattern *patterns.Pattern
	section int
	pos     int
}

type section struct {
	title       string
	description string
	category    string
	items       []int
}

type model struct {
	cfg    Config
	ctx    context.Context
	styles styles.Styles
	keys   KeyMap
	help   help.Model

	items     []item
	sections  []section
	byRef     map[string]int
	cursor    int
	anims     []*buttonAnim
	animating bool

	// playing maps a pattern ref to the session playing it.
	playing   map[string]string
	sessionID string
	started   time.Time
	status    components.SessionStatus
	lastCall  string
	lastErr   string

	// superseded holds sessions replaced by a newer one whose events may
	// still be queued. Their started events must not be adopted.
	superseded map[string]struct{}

	width  int
	height int
	now    func() time.Time
	logger zerolog.Logger
}

func newModel(cfg Config) model {
	theme, _ := styles.ThemeByName(cfg.Theme)
	m := model{
		cfg:        cfg,
		ctx:        context.Background(),
		styles:     styles.BuildStyles(theme),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		byRef:      make(map[string]int),
		playing:    make(map[string]string),
		superseded: make(map[string]struct{}),
		now:        time.Now,
		logger:     logging.Component("tui"),
	}
	m.help.ShowAll = cfg.ShowHelp

	impacts := section{title: "Single impacts"}
	for i, s := range singleImpacts {
		impacts.items = append(impacts.items, m.addItem(item{label: s.label, hint: string(s.kind), kind: s.kind, pos: i}))
	}
	m.sections = append(m.sections, impacts)

	if cfg.Catalog != nil {
		for _, cat := range cfg.Catalog.Categories() {
			sec := section{title: cat.Name, description: cat.Description, category: cat.Name}
			index := len(m.sections)
			for i, p := range cat.Patterns {
				idx := m.addItem(item{label: p.Name, hint: patternHint(p), pattern: p, section: index, pos: i})
				m.byRef[p.Ref()] = idx
				sec.items = append(sec.items, idx)
			}
			if len(sec.items) > 0 {
				m.sections = append(m.sections, sec)
			}
		}
	}
	return m
}

func (m *model) addItem(it item) int {
	m.items = append(m.items, it)
	m.anims = append(m.anims, newButtonAnim())
	return len(m.items) - 1
}

func patternHint(p *patterns.Pattern) string {
	if p.Repeat == 1 {
		return fmt.Sprintf("%d steps", len(p.Sequence))
	}
	return fmt.Sprintf("%d steps ×%d", len(p.Sequence), p.Repeat)
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.cfg.Events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case PlayerEventMsg:
		m.handleEvent(msg.Event)
		animate := m.startAnimation()
		return m, tea.Batch(waitForEvent(m.cfg.Events), animate)
	case eventsClosedMsg:
		return m, nil
	case frameMsg:
		now := time.Time(msg)
		moving := false
		for _, anim := range m.anims {
			if anim.step(now) {
				moving = true
			}
		}
		if !moving {
			m.animating = false
			return m, nil
		}
		return m, frameCmd()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cfg.Player.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor = m.moveVertical(-1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = m.moveVertical(1)
	case key.Matches(msg, m.keys.Left):
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	case key.Matches(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % len(m.items)
	case key.Matches(msg, m.keys.Press):
		m.press()
		animate := m.startAnimation()
		return m, animate
	case key.Matches(msg, m.keys.Stop):
		m.cfg.Player.Stop()
	case key.Matches(msg, m.keys.Theme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *model) press() {
	it := m.items[m.cursor]
	m.lastErr = ""

	if it.pattern == nil {
		if err := m.cfg.Player.Trigger(m.ctx, it.kind); err != nil {
			m.lastErr = err.Error()
			return
		}
		m.anims[m.cursor].pulse(it.kind, false, m.now())
		return
	}

	session, err := m.cfg.Player.Play(m.ctx, it.pattern)
	if err != nil {
		m.lastErr = err.Error()
		return
	}
	m.beginSession(session.ID(), it.pattern, session.StartedAt())
}

func (m *model) beginSession(id string, p *patterns.Pattern, startedAt time.Time) {
	if m.sessionID == id {
		return
	}
	if m.sessionID != "" {
		m.superseded[m.sessionID] = struct{}{}
	}
	for ref := range m.playing {
		delete(m.playing, ref)
	}
	m.sessionID = id
	m.started = startedAt
	m.playing[p.Ref()] = id
	m.status = components.SessionStatus{
		Pattern: p.Ref(),
		Outcome: player.OutcomeRunning,
		Total:   p.HostCalls(),
	}
}

func (m *model) handleEvent(event player.Event) {
	m.logger.Debug().Str("event", string(event.Type)).Str("pattern", event.Pattern).Msg("player event")

	switch event.Type {
	case player.EventStarted:
		if _, old := m.superseded[event.SessionID]; old {
			return
		}
		if idx, ok := m.byRef[event.Pattern]; ok {
			m.beginSession(event.SessionID, m.items[idx].pattern, event.Timestamp)
		}
	case player.EventStep:
		if event.SessionID != m.sessionID {
			return
		}
		if idx, ok := m.byRef[event.Pattern]; ok {
			m.anims[idx].pulse(event.Kind, true, m.now())
		}
		m.status.Calls = event.Calls
		if !event.Kind.IsNone() {
			m.lastCall = host.Glyph(event.Kind)
		}
	case player.EventFinished, player.EventCancelled, player.EventFailed:
		delete(m.superseded, event.SessionID)
		if m.playing[event.Pattern] == event.SessionID {
			delete(m.playing, event.Pattern)
			if idx, ok := m.byRef[event.Pattern]; ok && event.Type != player.EventFinished {
				m.anims[idx].reset()
			}
		}
		if event.SessionID != m.sessionID {
			return
		}
		m.status.Calls = event.Calls
		m.status.Outcome = outcomeFor(event.Type)
		m.status.Elapsed = event.Timestamp.Sub(m.started)
		m.status.Err = event.Error
	case player.EventTriggered:
		if event.Error != "" {
			m.lastErr = event.Error
			return
		}
		if !event.Kind.IsNone() {
			m.lastCall = host.Glyph(event.Kind)
		}
	}
}

func outcomeFor(t player.EventType) player.Outcome {
	switch t {
	case player.EventCancelled:
		return player.OutcomeCancelled
	case player.EventFailed:
		return player.OutcomeFailed
	default:
		return player.OutcomeFinished
	}
}

func (m *model) startAnimation() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return frameCmd()
}

func (m *model) cycleTheme() {
	names := styles.ThemeNames()
	next := names[0]
	for i, name := range names {
		if name == m.styles.Theme.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	theme, _ := styles.ThemeByName(next)
	m.styles = styles.BuildStyles(theme)
}

func (m model) columns() int {
	if m.width <= 0 {
		return 4
	}
	cols := m.width / components.CellWidth(buttonWidth)
	if cols < 1 {
		return 1
	}
	return cols
}

// moveVertical moves the cursor one grid row, crossing into the previous or
// next section and keeping the column where possible.
func (m model) moveVertical(dir int) int {
	cols := m.columns()
	it := m.items[m.cursor]
	sec := m.sections[it.section]
	col := it.pos % cols

	target := it.pos + dir*cols
	if target >= 0 && target < len(sec.items) {
		return sec.items[target]
	}

	next := it.section + dir
	if next < 0 || next >= len(m.sections) {
		return m.cursor
	}
	items := m.sections[next].items
	if dir > 0 {
		return items[min(col, len(items)-1)]
	}
	lastRow := (len(items) - 1) / cols * cols
	return items[min(lastRow+col, len(items)-1)]
}

func (m model) View() string {
	if m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight) {
		return fmt.Sprintf("%s\n", joinLines(m.smallViewLines()))
	}

	header := []string{
		m.styles.Title.Render("Haptic Feedback Demo"),
		m.styles.Muted.Render(fmt.Sprintf("%d patterns · theme %s", len(m.byRef), m.styles.Theme.Name)),
	}
	if m.cfg.Notice != "" {
		header = append(header, m.styles.Warning.Render("⚠ "+m.cfg.Notice))
	}
	body, cursorLine := m.bodyLines()
	footer := m.footerLines()

	if m.height > 0 {
		visible := m.height - len(header) - len(footer) - 1
		body = scrollWindow(body, cursorLine, visible)
	}

	lines := append(header, body...)
	lines = append(lines, footer...)
	return fmt.Sprintf("%s\n", joinLines(lines))
}

func (m model) bodyLines() ([]string, int) {
	var lines []string
	cursorLine := 0
	cols := m.columns()

	for si, sec := range m.sections {
		lines = append(lines, "", m.sectionTitle(sec))
		if sec.description != "" {
			lines = append(lines, m.styles.Muted.Render(sec.description))
		}

		for start := 0; start < len(sec.items); start += cols {
			end := min(start+cols, len(sec.items))
			cells := make([]string, 0, end-start)
			for _, idx := range sec.items[start:end] {
				if idx == m.cursor {
					cursorLine = len(lines)
				}
				cells = append(cells, components.RenderButton(m.styles, m.button(idx), buttonWidth))
			}
			row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
			lines = append(lines, strings.Split(row, "\n")...)
		}

		if si == 0 && len(m.sections) == 1 {
			lines = append(lines, "", components.EmptyCatalog().Render(m.styles))
		}
	}
	return lines, cursorLine
}

func (m model) sectionTitle(sec section) string {
	if sec.category == "" {
		return m.styles.Section.Render(sec.title)
	}
	gradient := m.styles.Theme.CategoryGradient(sec.category)
	return m.styles.Section.Copy().Foreground(lipgloss.Color(gradient.From)).Render(sec.title)
}

func (m model) button(idx int) components.Button {
	it := m.items[idx]
	anim := m.anims[idx]
	b := components.Button{
		Label:    it.label,
		Hint:     it.hint,
		Flash:    anim.flash,
		Offset:   anim.x,
		Scale:    anim.scale,
		Tilt:     anim.tilt,
		Selected: idx == m.cursor,
	}
	if it.pattern != nil {
		gradient := m.styles.Theme.CategoryGradient(it.pattern.Category)
		b.Background = gradient.From
		b.Edge = gradient.To
		_, b.Playing = m.playing[it.pattern.Ref()]
	} else {
		b.Background = m.styles.Theme.Tokens.Idle
		b.Edge = haptic.EffectFor(it.kind).Color
	}
	return b
}

func (m model) footerLines() []string {
	lines := []string{"", components.RenderSessionBadge(m.styles, m.status)}
	if m.lastCall != "" {
		lines = append(lines, m.styles.Accent.Render("Last call: "+m.lastCall))
	}
	if m.lastErr != "" {
		lines = append(lines, m.styles.Error.Render("Error: "+m.lastErr))
	}
	lines = append(lines, "", m.help.View(m.keys))
	return lines
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press q to quit."),
	}
}

// scrollWindow returns at most visible lines of lines, keeping focus in view.
func scrollWindow(lines []string, focus, visible int) []string {
	if visible <= 0 || len(lines) <= visible {
		return lines
	}
	start := focus - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > len(lines) {
		start = len(lines) - visible
	}
	return lines[start : start+visible]
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
