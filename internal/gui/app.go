package gui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/voronoi/internal/config"
	"github.com/san-kum/voronoi/internal/export"
	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPanel   = rl.NewColor(0, 0, 0, 170)
)

// Options configures a window session. Window size, title, frame rate and
// field scale come from the config's gui section.
type Options struct {
	Preset      string
	Interactive bool
	SnapshotDir string
}

type App struct {
	ctx  context.Context
	log  *slog.Logger
	opts Options
	cfg  *config.Config
	err  error

	sim      *sim.Simulator
	renderer *field.Renderer
	raster   *field.Raster
	snap     field.Snapshot
	tex      rl.Texture2D
	hasTex   bool

	screenW, screenH int
	scale            float64

	inMenu   bool
	presets  []string
	selected int
	quit     bool

	showOverlay bool
	showHUD     bool
	status      string
}

func initWindow(g config.GUIConfig) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(g.Width), int32(g.Height), g.Title)
	rl.SetTargetFPS(int32(g.FPS))
	rl.SetExitKey(0)
}

// NewApp prepares an App for an open window. In interactive mode it starts
// in the preset menu, otherwise cfg is loaded immediately.
func NewApp(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		ctx:     ctx,
		log:     logger.With("component", "gui"),
		opts:    opts,
		cfg:     cfg,
		screenW: rl.GetScreenWidth(),
		screenH: rl.GetScreenHeight(),
		scale:   cfg.GUI.Scale,
		inMenu:  opts.Interactive,
		presets: config.ListPresets(),
		showHUD: true,
	}
	if !opts.Interactive {
		if err := a.load(cfg, opts.Preset); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Run opens a window and blocks until it is closed.
func Run(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) error {
	initWindow(cfg.GUI)
	defer rl.CloseWindow()

	a, err := NewApp(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}
	defer a.Unload()
	a.RunLoop()
	return a.err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		if a.ctx.Err() != nil {
			return
		}
		a.Update()
		a.Draw()
	}
}

// load builds a simulator for cfg sized to the window and starts its
// reveal.
func (a *App) load(cfg *config.Config, name string) error {
	sc, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	style, err := cfg.Style()
	if err != nil {
		return err
	}
	sc.Viewport = sc.Viewport.Resize(float64(a.screenW), float64(a.screenH))

	s, err := sim.New(sc, a.log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.opts.Preset = name
	a.sim = s
	a.renderer = field.NewRenderer(style, cfg.Render.Workers)
	a.raster = field.NewRaster(fieldSize(a.screenW, a.screenH, a.scale))
	a.allocTexture()
	a.sim.Start(a.ctx)

	a.log.Info("field loaded", "preset", name, "sites", cfg.Sites.Count,
		"window", fmt.Sprintf("%dx%d", a.screenW, a.screenH),
		"field", fmt.Sprintf("%dx%d", a.raster.W, a.raster.H))
	return nil
}

// fieldSize is the raster size for a window at the given scale.
func fieldSize(w, h int, scale float64) (int, int) {
	fw, fh := int(float64(w)*scale), int(float64(h)*scale)
	if fw < 1 {
		fw = 1
	}
	if fh < 1 {
		fh = 1
	}
	return fw, fh
}

func (a *App) allocTexture() {
	if a.hasTex {
		rl.UnloadTexture(a.tex)
	}
	img := rl.GenImageColor(a.raster.W, a.raster.H, rl.Black)
	a.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(a.tex, rl.FilterPoint)
	rl.UnloadImage(img)
	a.hasTex = true
}

func (a *App) Unload() {
	if a.hasTex {
		rl.UnloadTexture(a.tex)
		a.hasTex = false
	}
}

func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if w == a.screenW && h == a.screenH {
		return
	}
	a.screenW, a.screenH = w, h
	if a.sim == nil {
		return
	}
	a.sim.Resize(float64(w), float64(h))
	a.raster.Resize(fieldSize(w, h, a.scale))
	a.allocTexture()
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}
	a.handleResize()

	if a.inMenu {
		a.updateMenu()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) && a.opts.Interactive {
		a.inMenu = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if a.sim.TogglePause() {
			a.status = "resumed"
		} else {
			a.status = "paused"
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if a.sim.Restart(a.ctx) {
			a.status = "restarting"
		} else {
			a.status = "restart ignored while animating"
		}
	}
	if rl.IsKeyPressed(rl.KeyO) {
		a.showOverlay = !a.showOverlay
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.showHUD = !a.showHUD
	}

	a.snap = a.sim.Tick()
	a.renderer.Render(a.raster, a.snap)
	rl.UpdateTexture(a.tex, a.raster.Pix)

	if rl.IsKeyPressed(rl.KeyS) {
		a.saveSnapshot()
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.selected = (a.selected + 1) % len(a.presets)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.selected--
		if a.selected < 0 {
			a.selected = len(a.presets) - 1
		}
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		name := a.presets[a.selected]
		cfg := config.GetPreset(name)
		if err := a.load(cfg, name); err != nil {
			a.status = err.Error()
			a.log.Error("preset rejected", "preset", name, "error", err)
			return
		}
		a.inMenu = false
		a.status = ""
	}
}

// saveSnapshot writes the current frame at window resolution with the
// debug overlay.
func (a *App) saveSnapshot() {
	r := field.NewRaster(a.screenW, a.screenH)
	a.renderer.Render(r, a.snap)

	f := export.NewFrame(r, a.snap)
	f.Overlay(export.DefaultOverlay())
	f.Caption(fmt.Sprintf("%s  frame %d  radius %.0f", a.opts.Preset, a.snap.Frame, a.snap.Radius))

	path := filepath.Join(a.opts.SnapshotDir, fmt.Sprintf("voronoi_%06d.png", a.snap.Frame))
	if err := f.SavePNG(path); err != nil {
		a.status = "snapshot: " + err.Error()
		a.log.Error("snapshot failed", "path", path, "error", err)
		return
	}
	a.status = "saved " + path
	a.log.Info("snapshot saved", "path", path)
}
