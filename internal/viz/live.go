package viz

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/voronoi/internal/export"
	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/reveal"
	"github.com/san-kum/voronoi/internal/sim"
)

const (
	defaultCols = 80
	defaultRows = 24
	// cellPixels is the viewport size of one half-block sample.
	cellPixels      = 8
	historyCapacity = 120
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	Title       string
	FPS         int
	Theme       string
	Style       field.Style
	Workers     int
	GIFPath     string
	SnapshotDir string
}

// Model is the bubbletea model of the live view.
type Model struct {
	ctx      context.Context
	sim      *sim.Simulator
	renderer *field.Renderer
	raster   *field.Raster
	log      *slog.Logger

	title       string
	interval    time.Duration
	cols, rows  int
	theme       Theme
	styles      Styles
	showHelp    bool
	recording   bool
	anim        *export.Animation
	gifPath     string
	snapshotDir string
	status      string

	frameTimes []float64
	lastTick   time.Time
	fps        float64
}

// NewModel wraps s. The reveal is started from Init.
func NewModel(ctx context.Context, s *sim.Simulator, opts Options, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "voronoi.gif"
	}
	if opts.Title == "" {
		opts.Title = "voronoi"
	}
	theme := GetTheme(opts.Theme)

	m := Model{
		ctx:         ctx,
		sim:         s,
		renderer:    field.NewRenderer(opts.Style, opts.Workers),
		raster:      field.NewRaster(1, 1),
		log:         logger.With("component", "viz"),
		title:       opts.Title,
		interval:    time.Second / time.Duration(fps),
		theme:       theme,
		styles:      NewStyles(theme),
		anim:        export.NewAnimation(fps),
		gifPath:     opts.GIFPath,
		snapshotDir: opts.SnapshotDir,
		frameTimes:  make([]float64, 0, historyCapacity),
	}
	m.resize(defaultCols, defaultRows)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	m.sim.Start(m.ctx)
	return m.tick()
}

// Update handles input events and advances the simulator once per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			if m.sim.TogglePause() {
				m.status = "resumed"
			} else {
				m.status = "paused"
			}
		case "r":
			if m.sim.Restart(m.ctx) {
				m.status = "restarting"
			} else {
				m.status = "restart ignored while animating"
			}
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.anim.Reset()
				m.status = "recording"
			}
		case "s":
			m.saveSnapshot()
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
			m.status = "theme " + m.theme.Name
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

// resize fits the field to the terminal, leaving room for the panel.
func (m *Model) resize(cols, rows int) {
	m.cols, m.rows = cols, rows
	w := cols - panelWidth - 1
	if w < 8 {
		w = 8
	}
	h := rows * 2
	if h < 4 {
		h = 4
	}
	m.raster.Resize(w, h)
	m.sim.Resize(float64(w*cellPixels), float64(h*cellPixels))
}

func (m *Model) step(now time.Time) {
	start := time.Now()
	snap := m.sim.Tick()
	m.renderer.Render(m.raster, snap)
	if m.recording {
		m.anim.Add(m.raster, snap, m.renderer.Style)
	}

	m.frameTimes = append(m.frameTimes, float64(time.Since(start))/float64(time.Millisecond))
	if len(m.frameTimes) > historyCapacity {
		m.frameTimes = m.frameTimes[1:]
	}
	if !m.lastTick.IsZero() {
		if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
			m.fps = 0.9*m.fps + 0.1/dt
		}
	}
	m.lastTick = now
}

func (m *Model) stopRecording() {
	m.recording = false
	n := m.anim.Len()
	if err := m.anim.Save(m.gifPath); err != nil {
		m.status = "gif: " + err.Error()
		m.log.Error("gif save failed", "path", m.gifPath, "error", err)
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", n, m.gifPath)
	m.log.Info("gif saved", "path", m.gifPath, "frames", n)
	m.anim.Reset()
}

// saveSnapshot renders the current frame at viewport resolution with the
// debug overlay.
func (m *Model) saveSnapshot() {
	snap := m.sim.Snapshot()
	r := field.NewRaster(int(snap.Viewport.Width), int(snap.Viewport.Height))
	m.renderer.Render(r, snap)

	f := export.NewFrame(r, snap)
	f.Overlay(export.DefaultOverlay())
	f.Caption(fmt.Sprintf("frame %d  radius %.0f", snap.Frame, snap.Radius))

	path := filepath.Join(m.snapshotDir, fmt.Sprintf("voronoi_%06d.png", snap.Frame))
	if err := f.SavePNG(path); err != nil {
		m.status = "snapshot: " + err.Error()
		m.log.Error("snapshot failed", "path", path, "error", err)
		return
	}
	m.status = "saved " + path
	m.log.Info("snapshot saved", "path", path)
}

func (m Model) statusLine() string {
	switch {
	case m.recording:
		return m.styles.Recording.Render(fmt.Sprintf("● REC %d", m.anim.Len()))
	case m.sim.Running():
		return m.styles.Running.Render("RUNNING")
	default:
		return m.styles.Paused.Render("PAUSED")
	}
}

func (m Model) row(label, value string) string {
	return m.styles.Label.Render(label) + m.styles.Value.Render(value) + "\n"
}

// View renders the field and the status panel.
func (m Model) View() string {
	ctrl := m.sim.Reveal()
	radius, phase := ctrl.State()
	max := ctrl.Config().MaxRadius
	vp := m.sim.Viewport()

	var s strings.Builder
	s.WriteString(m.styles.Header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	s.WriteString(m.row("Frame", fmt.Sprintf("%d", m.sim.Frame())))
	s.WriteString(m.row("Phase", phase.String()))
	s.WriteString(m.row("Radius", fmt.Sprintf("%.0f / %.0f", radius, max)))
	progress := 0.0
	if max > 0 {
		progress = radius / max
	}
	s.WriteString(m.styles.Accent.Render(ProgressBar(progress, panelWidth-6)) + "\n\n")

	s.WriteString(m.row("Viewport", fmt.Sprintf("%.0fx%.0f %s", vp.Width, vp.Height, vp.Origin)))
	s.WriteString(m.row("Seed", fmt.Sprintf("%d", m.sim.Seed())))
	s.WriteString(m.row("FPS", fmt.Sprintf("%.1f", m.fps)))
	last := 0.0
	if n := len(m.frameTimes); n > 0 {
		last = m.frameTimes[n-1]
	}
	s.WriteString(m.row("Frame ms", fmt.Sprintf("%.2f", last)))
	s.WriteString(m.styles.Accent.Render(Sparkline(m.frameTimes, panelWidth-6)) + "\n")

	if m.status != "" {
		s.WriteString("\n" + m.styles.Hint.Render(m.status) + "\n")
	}
	s.WriteString("\n" + m.styles.Hint.Render("SP:Pause R:Restart Q:Quit\nG:Record S:Snap T:Theme ?:Help"))

	panel := m.styles.Panel.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, HalfBlocks(m.raster), " ", panel)

	if m.showHelp {
		return helpText(phase) + "\n\n" + mainView
	}
	return mainView
}

func helpText(phase reveal.Phase) string {
	return fmt.Sprintf(`
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume motion      ║
║  R        - Restart reveal           ║
║  G        - Toggle GIF recording     ║
║  S        - Save PNG snapshot        ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
  reveal is %s`, phase)
}

// Run starts the live view on the alternate screen.
func Run(ctx context.Context, s *sim.Simulator, opts Options, logger *slog.Logger) error {
	p := tea.NewProgram(NewModel(ctx, s, opts, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
