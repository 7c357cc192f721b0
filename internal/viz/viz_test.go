package viz

import (
	"context"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/reveal"
	"github.com/san-kum/voronoi/internal/sim"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := sim.DefaultConfig(320, 180)
	cfg.Seed = 1
	cfg.Sites = 6
	cfg.Reveal.Mode = reveal.ModeStep
	cfg.Reveal.StepSize = 50
	s, err := sim.New(cfg, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	return NewModel(context.Background(), s, Options{
		Style:       field.DefaultStyle(),
		Workers:     2,
		GIFPath:     filepath.Join(dir, "out.gif"),
		SnapshotDir: dir,
	}, quietLogger())
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestHalfBlocks(t *testing.T) {
	r := field.NewRaster(4, 5)
	for i := range r.Pix {
		r.Pix[i] = color.RGBA{255, 0, 0, 255}
	}
	out := HalfBlocks(r)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines for 5 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if got := strings.Count(line, upperHalf); got != 4 {
			t.Errorf("line %d: expected 4 cells, got %d", i, got)
		}
	}
}

func TestModelResize(t *testing.T) {
	m := testModel(t)
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	wantW := 100 - panelWidth - 1
	if m.raster.W != wantW || m.raster.H != 60 {
		t.Errorf("expected raster %dx60, got %dx%d", wantW, m.raster.W, m.raster.H)
	}
	vp := m.sim.Viewport()
	if vp.Width != float64(wantW*cellPixels) || vp.Height != 60*cellPixels {
		t.Errorf("unexpected viewport %vx%v", vp.Width, vp.Height)
	}
}

func TestModelTickAndPause(t *testing.T) {
	m := testModel(t)
	m.Init()

	m = update(m, TickMsg(time.Now()))
	if m.sim.Frame() != 1 {
		t.Errorf("expected frame 1, got %d", m.sim.Frame())
	}
	if m.sim.Reveal().Radius() != 50 {
		t.Errorf("expected radius 50 after one step, got %f", m.sim.Reveal().Radius())
	}

	m = update(m, key(" "))
	if m.sim.Running() {
		t.Error("expected paused after space")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected PAUSED in view")
	}
	m = update(m, key(" "))
	if !m.sim.Running() {
		t.Error("expected running after second space")
	}
}

func TestModelRestartIgnoredWhileAnimating(t *testing.T) {
	m := testModel(t)
	m.Init()
	m = update(m, TickMsg(time.Now()))

	m = update(m, key("r"))
	if !strings.Contains(m.status, "ignored") {
		t.Errorf("expected ignored status, got %q", m.status)
	}
}

func TestModelRecording(t *testing.T) {
	m := testModel(t)
	m.Init()

	m = update(m, key("g"))
	if !m.recording {
		t.Fatal("expected recording")
	}
	for i := 0; i < 3; i++ {
		m = update(m, TickMsg(time.Now()))
	}
	if m.anim.Len() != 3 {
		t.Errorf("expected 3 captured frames, got %d", m.anim.Len())
	}

	m = update(m, key("g"))
	if m.recording {
		t.Error("expected recording stopped")
	}
	if _, err := os.Stat(m.gifPath); err != nil {
		t.Errorf("expected gif written: %v", err)
	}
}

func TestModelSnapshot(t *testing.T) {
	m := testModel(t)
	m = update(m, TickMsg(time.Now()))
	m = update(m, key("s"))

	matches, _ := filepath.Glob(filepath.Join(m.snapshotDir, "voronoi_*.png"))
	if len(matches) != 1 {
		t.Errorf("expected one snapshot, got %v (status %q)", matches, m.status)
	}
}

func TestModelThemeAndHelp(t *testing.T) {
	m := testModel(t)
	m = update(m, key("t"))
	if m.theme.Name != ThemeRetro.Name {
		t.Errorf("expected retro theme, got %s", m.theme.Name)
	}
	m = update(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay")
	}
}

func TestModelQuit(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != ThemeDefault.Name {
		t.Error("expected fallback to default theme")
	}
	last := Themes[len(Themes)-1]
	if NextTheme(last.Name).Name != Themes[0].Name {
		t.Error("expected NextTheme to wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("expected one name per theme")
	}
}

func TestProgressAndSparkline(t *testing.T) {
	tests := []struct {
		fraction float64
		filled   int
	}{
		{0, 0}, {0.5, 5}, {1, 10}, {1.7, 10}, {-1, 0},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.fraction, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("fraction %v: expected %d filled, got %d", tt.fraction, tt.filled, got)
		}
	}

	spark := Sparkline([]float64{1, 2, 3, 4, 5, 6}, 4)
	if n := len([]rune(spark)); n != 4 {
		t.Errorf("expected 4 runes, got %d", n)
	}
	if []rune(spark)[3] != '█' {
		t.Errorf("expected max value as full block, got %q", spark)
	}
}

func TestPickerFlow(t *testing.T) {
	app := NewInteractiveApp(context.Background(), Options{Workers: 1}, quietLogger())

	var m tea.Model = *app
	m, _ = m.Update(key("j"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p := m.(picker)
	if p.state != stateConfig {
		t.Fatalf("expected config state, got %d", p.state)
	}
	if p.cfg == nil {
		t.Fatal("expected preset config loaded")
	}

	before := p.cfg.Sites.Count
	m, _ = m.Update(key("l"))
	if m.(picker).cfg.Sites.Count != before+1 {
		t.Errorf("expected sites %d, got %d", before+1, m.(picker).cfg.Sites.Count)
	}

	m, cmd := m.Update(key("s"))
	if m.(picker).state != stateSim || cmd == nil {
		t.Errorf("expected live view to start, err %v", m.(picker).err)
	}
}
