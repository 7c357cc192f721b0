package sim

import (
	"time"

	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/reveal"
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(snap field.Snapshot, dt time.Duration)
	Value() float64
	Reset()
}

// Observer receives every frame handed to the renderer.
type Observer interface {
	OnFrame(snap field.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(snap field.Snapshot)

func (f ObserverFunc) OnFrame(snap field.Snapshot) { f(snap) }

type Config struct {
	Sites    int
	Motion   field.Motion
	Viewport field.Viewport
	// PixelRatio scales the viewport width into the derived max radius.
	PixelRatio float64
	// Reveal.MaxRadius of zero derives the target from the viewport.
	Reveal reveal.Config
	// AutoRestart runs the restart cycle after the radius has been settled
	// this long. Zero disables it.
	AutoRestart time.Duration
	Palette     field.Palette
	Seed        int64
	Paused      bool
}

func DefaultConfig(width, height float64) Config {
	return Config{
		Sites:      field.DefaultSites,
		Motion:     field.DefaultMotion(),
		Viewport:   field.NewViewport(width, height, field.OriginCorner),
		PixelRatio: 1,
		Reveal:     reveal.DefaultConfig(0),
		Palette:    field.PaletteUniform,
	}
}

// Result summarizes a headless run.
type Result struct {
	Frames  int
	Radii   []float64
	Phases  []reveal.Phase
	Final   field.Snapshot
	Elapsed time.Duration
	Metrics map[string]float64
}
