package viz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/voronoi/internal/config"
	"github.com/san-kum/voronoi/internal/sim"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var presetInfo = map[string]string{
	"classic":  "linear reveal, dot markers",
	"reveal":   "eased grow after a delay",
	"restart":  "grow, then shrink and regrow",
	"centered": "center origin, happy palette",
	"pastel":   "pastel sites, cubic easing",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one tunable value on the config screen.
type param struct {
	name string
	step float64
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var params = []param{
	{"sites", 1,
		func(c *config.Config) float64 { return float64(c.Sites.Count) },
		func(c *config.Config, v float64) { c.Sites.Count = int(v) }},
	{"speed", 0.1,
		func(c *config.Config) float64 { return c.Motion.Speed },
		func(c *config.Config, v float64) { c.Motion.Speed = v }},
	{"turn_rate", 0.001,
		func(c *config.Config) float64 { return c.Motion.TurnRate },
		func(c *config.Config, v float64) { c.Motion.TurnRate = v }},
	{"dot_radius", 1,
		func(c *config.Config) float64 { return c.Motion.DotRadius },
		func(c *config.Config, v float64) { c.Motion.DotRadius = v }},
	{"seed", 1,
		func(c *config.Config) float64 { return float64(c.Seed) },
		func(c *config.Config, v float64) { c.Seed = int64(v) }},
}

// picker lets the user choose a preset, tune a few values and start the
// live view.
type picker struct {
	ctx    context.Context
	log    *slog.Logger
	opts   Options
	state  int
	cursor int
	names  []string

	cfg         *config.Config
	paramCursor int
	err         error
	live        Model
}

func NewInteractiveApp(ctx context.Context, opts Options, logger *slog.Logger) *picker {
	return &picker{ctx: ctx, log: logger, opts: opts, state: stateMenu, names: config.ListPresets()}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(key)
		case stateConfig:
			return m.configKey(key)
		}
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.names[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	p := params[m.paramCursor]
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)-p.step)
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)+p.step)
	case "s", "enter":
		cmd, err := m.start()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, cmd
	}
	return m, nil
}

func (m *picker) start() (tea.Cmd, error) {
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}
	sc, err := m.cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	s, err := sim.New(sc, m.log)
	if err != nil {
		return nil, err
	}
	style, err := m.cfg.Style()
	if err != nil {
		return nil, err
	}

	opts := m.opts
	opts.Title = m.names[m.cursor]
	opts.Style = style
	m.live = NewModel(m.ctx, s, opts, m.log)
	m.state = stateSim
	return m.live.Init(), nil
}

func (m picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("VORONOI") + "\n    " + subStyle.Render("closest-site field") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.names {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", idleStyle.Render(fmt.Sprintf("%-10s", name)), subStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") + keyStyle.Render("enter") + idleStyle.Render(" select  ") + keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}

func (m picker) viewConfig() string {
	var b strings.Builder
	name := m.names[m.cursor]
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(name)) + "\n    " + subStyle.Render(presetInfo[name]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, p := range params {
		val := fmt.Sprintf("%8.3f", p.get(m.cfg))
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", p.name)), descStyle.Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", idleStyle.Render(fmt.Sprintf("%-10s", p.name)), subStyle.Render(val)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" select  ") + keyStyle.Render("h/l") + idleStyle.Render(" adjust  ") + keyStyle.Render("s") + idleStyle.Render(" start  ") + keyStyle.Render("esc") + idleStyle.Render(" back") + "\n")
	return b.String()
}

func RunInteractive(ctx context.Context, opts Options, logger *slog.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(ctx, opts, logger), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
