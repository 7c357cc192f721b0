package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/reveal"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Sites.Count != 60 {
		t.Errorf("expected 60 sites, got %d", cfg.Sites.Count)
	}
	if cfg.Motion.Speed != 0.4 {
		t.Errorf("expected speed 0.4, got %f", cfg.Motion.Speed)
	}
	if cfg.Reveal.Duration != 3*time.Second {
		t.Errorf("expected 3s duration, got %v", cfg.Reveal.Duration)
	}
	if cfg.Reveal.StartDelay != 1500*time.Millisecond {
		t.Errorf("expected 1.5s start delay, got %v", cfg.Reveal.StartDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viewport.Origin = "center"
	cfg.Seed = 7

	sc, err := cfg.SimConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Viewport.Origin != field.OriginCenter {
		t.Errorf("expected center origin, got %s", sc.Viewport.Origin)
	}
	if sc.Reveal.MaxRadius != 0 {
		t.Errorf("expected max radius left for derivation, got %f", sc.Reveal.MaxRadius)
	}
	if sc.Reveal.Grow(0.5) != 0.0625 {
		t.Errorf("expected in-quart grow, got %f at 0.5", sc.Reveal.Grow(0.5))
	}
	if sc.Seed != 7 {
		t.Errorf("expected seed 7, got %d", sc.Seed)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"empty population", func(c *Config) { c.Sites.Count = 0 }, field.ErrEmptyPopulation},
		{"negative speed", func(c *Config) { c.Motion.Speed = -1 }, field.ErrInvalidMotion},
		{"zero turn rate", func(c *Config) { c.Motion.TurnRate = 0 }, field.ErrInvalidMotion},
		{"zero duration", func(c *Config) { c.Reveal.Duration = 0 }, reveal.ErrInvalidDuration},
		{"max below min", func(c *Config) { c.Reveal.MaxRadius = 1 }, reveal.ErrInvalidRadius},
		{"unknown easing", func(c *Config) { c.Reveal.Grow = "bounce" }, reveal.ErrUnknownEasing},
		{"unknown origin", func(c *Config) { c.Viewport.Origin = "top" }, field.ErrUnknownOrigin},
		{"unknown palette", func(c *Config) { c.Sites.Palette = "neon" }, field.ErrUnknownPalette},
		{"zero render size", func(c *Config) { c.Render.Width = 0 }, ErrInvalidSize},
		{"zero fps", func(c *Config) { c.TUI.FPS = 0 }, ErrInvalidFPS},
		{"gui scale", func(c *Config) { c.GUI.Scale = 2 }, ErrInvalidScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStyle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.Marker = "#ff0000"
	cfg.Render.DotMarker = true

	st, err := cfg.Style()
	if err != nil {
		t.Fatal(err)
	}
	if st.Marker.R != 255 || st.Marker.G != 0 {
		t.Errorf("expected red marker, got %v", st.Marker)
	}
	if st.DotRadius != cfg.Motion.DotRadius {
		t.Errorf("expected dot radius %f, got %f", cfg.Motion.DotRadius, st.DotRadius)
	}

	cfg.Render.Background = "white"
	var cerr *field.ConfigError
	if _, err := cfg.Style(); !errors.As(err, &cerr) || cerr.Field != "render.background" {
		t.Errorf("expected ConfigError for render.background, got %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voronoi.yaml")

	cfg := DefaultConfig()
	cfg.Sites.Count = 12
	cfg.Reveal.Duration = 750 * time.Millisecond
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Sites.Count != 12 {
		t.Errorf("expected 12 sites, got %d", loaded.Sites.Count)
	}
	if loaded.Reveal.Duration != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %v", loaded.Reveal.Duration)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "sites:\n  count: 5\nreveal:\n  duration: 2s\n  grow: linear\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sites.Count != 5 || cfg.Reveal.Duration != 2*time.Second {
		t.Errorf("expected overrides applied, got %d sites %v", cfg.Sites.Count, cfg.Reveal.Duration)
	}
	if cfg.Motion.SideBuffer != field.DefaultSideBuffer {
		t.Errorf("expected default side buffer, got %f", cfg.Motion.SideBuffer)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("reveal:\n  grow: wobble\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, reveal.ErrUnknownEasing) {
		t.Errorf("expected ErrUnknownEasing, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("classic")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Reveal.Mode != "step" || !cfg.Render.DotMarker {
		t.Errorf("expected step mode with markers, got %s %v", cfg.Reveal.Mode, cfg.Render.DotMarker)
	}

	cfg.Sites.Count = 1
	if Presets["classic"].Sites.Count == 1 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if _, err := LookupPreset("nonexistent"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"centered", "classic", "pastel", "restart", "reveal"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %s at %d, got %s", want[i], i, names[i])
		}
	}
}
