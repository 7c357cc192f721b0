package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/reveal"
	"github.com/san-kum/voronoi/internal/sim"
)

const (
	DefaultWidth      = 640
	DefaultHeight     = 360
	DefaultFPS        = 60
	DefaultFrames     = 300
	DefaultBackground = "#ffffff"
	DefaultMarker     = "#000000"
	DefaultTheme      = "default"
)

type Config struct {
	Viewport ViewportConfig `yaml:"viewport"`
	Sites    SitesConfig    `yaml:"sites"`
	Motion   MotionConfig   `yaml:"motion"`
	Reveal   RevealConfig   `yaml:"reveal"`
	Render   RenderConfig   `yaml:"render"`
	TUI      TUIConfig      `yaml:"tui"`
	GUI      GUIConfig      `yaml:"gui"`
	Seed     int64          `yaml:"seed"`
}

type ViewportConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Origin     string  `yaml:"origin"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

type SitesConfig struct {
	Count   int    `yaml:"count"`
	Palette string `yaml:"palette"`
}

type MotionConfig struct {
	Speed             float64 `yaml:"speed"`
	TurnRate          float64 `yaml:"turn_rate"`
	RetargetThreshold float64 `yaml:"retarget_threshold"`
	DotRadius         float64 `yaml:"dot_radius"`
	SideBuffer        float64 `yaml:"side_buffer"`
}

type RevealConfig struct {
	Mode          string        `yaml:"mode"`
	MinRadius     float64       `yaml:"min_radius"`
	MaxRadius     float64       `yaml:"max_radius"` // 0 derives from viewport width
	InitialRadius float64       `yaml:"initial_radius"`
	StartDelay    time.Duration `yaml:"start_delay"`
	Duration      time.Duration `yaml:"duration"`
	Interval      time.Duration `yaml:"interval"`
	Grow          string        `yaml:"grow"`
	Shrink        string        `yaml:"shrink"`
	StepSize      float64       `yaml:"step_size"`
	AutoRestart   time.Duration `yaml:"auto_restart"`
}

type RenderConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Frames     int    `yaml:"frames"`
	FPS        int    `yaml:"fps"`
	Workers    int    `yaml:"workers"`
	DotMarker  bool   `yaml:"dot_marker"`
	Background string `yaml:"background"`
	Marker     string `yaml:"marker"`
}

type TUIConfig struct {
	Theme string `yaml:"theme"`
	FPS   int    `yaml:"fps"`
}

type GUIConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Title  string  `yaml:"title"`
	Scale  float64 `yaml:"scale"` // field resolution relative to the window
	FPS    int     `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Origin:     field.OriginCorner.String(),
			PixelRatio: 1,
		},
		Sites: SitesConfig{
			Count:   field.DefaultSites,
			Palette: "uniform",
		},
		Motion: MotionConfig{
			Speed:             field.DefaultSpeed,
			TurnRate:          field.DefaultTurnRate,
			RetargetThreshold: field.DefaultRetargetThreshold,
			DotRadius:         field.DefaultDotRadius,
			SideBuffer:        field.DefaultSideBuffer,
		},
		Reveal: RevealConfig{
			Mode:       "eased",
			MinRadius:  field.DefaultDotRadius,
			StartDelay: reveal.DefaultStartDelay,
			Duration:   reveal.DefaultDuration,
			Interval:   reveal.DefaultInterval,
			Grow:       "in-quart",
			Shrink:     "out-quart",
			StepSize:   reveal.DefaultStepSize,
		},
		Render: RenderConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Frames:     DefaultFrames,
			FPS:        DefaultFPS,
			Background: DefaultBackground,
			Marker:     DefaultMarker,
		},
		TUI: TUIConfig{
			Theme: DefaultTheme,
			FPS:   DefaultFPS,
		},
		GUI: GUIConfig{
			Width:  1280,
			Height: 720,
			Title:  "voronoi",
			Scale:  0.5,
			FPS:    DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy; Config holds no reference types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks every section by building the runtime values from it.
func (c *Config) Validate() error {
	if _, err := c.SimConfig(); err != nil {
		return err
	}
	if _, err := c.Style(); err != nil {
		return err
	}
	if c.Render.Width < 1 || c.Render.Height < 1 {
		return &field.ConfigError{Field: "render.size", Value: fmt.Sprintf("%dx%d", c.Render.Width, c.Render.Height), Wrapped: ErrInvalidSize}
	}
	for name, fps := range map[string]int{"render.fps": c.Render.FPS, "tui.fps": c.TUI.FPS, "gui.fps": c.GUI.FPS} {
		if fps < 1 {
			return &field.ConfigError{Field: name, Value: fps, Wrapped: ErrInvalidFPS}
		}
	}
	if !(c.GUI.Scale > 0 && c.GUI.Scale <= 1) {
		return &field.ConfigError{Field: "gui.scale", Value: c.GUI.Scale, Wrapped: ErrInvalidScale}
	}
	return nil
}

func (c *Config) FieldMotion() field.Motion {
	return field.Motion{
		Speed:             c.Motion.Speed,
		TurnRate:          c.Motion.TurnRate,
		RetargetThreshold: c.Motion.RetargetThreshold,
		DotRadius:         c.Motion.DotRadius,
		SideBuffer:        c.Motion.SideBuffer,
	}
}

func (c *Config) RevealConfig() (reveal.Config, error) {
	mode, err := reveal.ParseMode(c.Reveal.Mode)
	if err != nil {
		return reveal.Config{}, err
	}
	grow, err := reveal.ParseEasing(c.Reveal.Grow)
	if err != nil {
		return reveal.Config{}, err
	}
	shrink, err := reveal.ParseEasing(c.Reveal.Shrink)
	if err != nil {
		return reveal.Config{}, err
	}
	return reveal.Config{
		MinRadius:     c.Reveal.MinRadius,
		MaxRadius:     c.Reveal.MaxRadius,
		InitialRadius: c.Reveal.InitialRadius,
		StartDelay:    c.Reveal.StartDelay,
		Duration:      c.Reveal.Duration,
		Interval:      c.Reveal.Interval,
		Grow:          grow,
		Shrink:        shrink,
		Mode:          mode,
		StepSize:      c.Reveal.StepSize,
	}, nil
}

// SimConfig resolves names into the frame driver configuration.
func (c *Config) SimConfig() (sim.Config, error) {
	origin, err := field.ParseOrigin(c.Viewport.Origin)
	if err != nil {
		return sim.Config{}, err
	}
	palette, err := field.ParsePalette(c.Sites.Palette)
	if err != nil {
		return sim.Config{}, err
	}
	rcfg, err := c.RevealConfig()
	if err != nil {
		return sim.Config{}, err
	}
	if c.Sites.Count <= 0 {
		return sim.Config{}, &field.ConfigError{Field: "sites.count", Value: c.Sites.Count, Wrapped: field.ErrEmptyPopulation}
	}
	motion := c.FieldMotion()
	if err := motion.Validate(); err != nil {
		return sim.Config{}, err
	}
	if rcfg.MaxRadius != 0 {
		if err := rcfg.Validate(); err != nil {
			return sim.Config{}, err
		}
	} else {
		probe := rcfg
		probe.MaxRadius = rcfg.MinRadius
		if err := probe.Validate(); err != nil {
			return sim.Config{}, err
		}
	}

	return sim.Config{
		Sites:       c.Sites.Count,
		Motion:      motion,
		Viewport:    field.NewViewport(c.Viewport.Width, c.Viewport.Height, origin),
		PixelRatio:  c.Viewport.PixelRatio,
		Reveal:      rcfg,
		AutoRestart: c.Reveal.AutoRestart,
		Palette:     palette,
		Seed:        c.Seed,
	}, nil
}

// Style resolves the render colors.
func (c *Config) Style() (field.Style, error) {
	bg, err := field.ParseHexColor(c.Render.Background)
	if err != nil {
		return field.Style{}, &field.ConfigError{Field: "render.background", Value: c.Render.Background, Wrapped: err}
	}
	marker, err := field.ParseHexColor(c.Render.Marker)
	if err != nil {
		return field.Style{}, &field.ConfigError{Field: "render.marker", Value: c.Render.Marker, Wrapped: err}
	}
	return field.Style{
		Background: bg,
		Marker:     marker,
		DotMarker:  c.Render.DotMarker,
		DotRadius:  c.Motion.DotRadius,
	}, nil
}
