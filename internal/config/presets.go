package config

import (
	"fmt"
	"sort"
	"time"
)

// Presets are the shipped variants, each a full configuration.
var Presets = map[string]*Config{
	// Per-frame linear reveal with black markers on every site.
	"classic": preset(func(c *Config) {
		c.Reveal.Mode = "step"
		c.Reveal.StepSize = 2
		c.Reveal.MinRadius = 0
		c.Reveal.StartDelay = 0
		c.Render.DotMarker = true
	}),
	"reveal": preset(func(c *Config) {}),
	"restart": preset(func(c *Config) {
		c.Reveal.AutoRestart = 12 * time.Second
	}),
	"centered": preset(func(c *Config) {
		c.Viewport.Origin = "center"
		c.Sites.Palette = "happy"
	}),
	"pastel": preset(func(c *Config) {
		c.Sites.Palette = "pastel"
		c.Reveal.Grow = "in-out-cubic"
		c.Reveal.Shrink = "in-out-cubic"
		c.Render.DotMarker = true
		c.Render.Marker = "#333333"
	}),
}

func preset(modify func(*Config)) *Config {
	c := DefaultConfig()
	modify(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// LookupPreset is GetPreset with an error for unknown names.
func LookupPreset(name string) (*Config, error) {
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
