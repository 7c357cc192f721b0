package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/voronoi/internal/config"
	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/metrics"
	"github.com/san-kum/voronoi/internal/sim"
	"github.com/san-kum/voronoi/internal/storage"
)

var (
	ErrUnknownParam  = errors.New("automation: unknown parameter")
	ErrInvalidSweep  = errors.New("automation: sweep needs at least two steps")
	ErrEmptyScenario = errors.New("automation: scenario has no steps")
)

// params maps tunable names onto config fields.
var params = map[string]func(*config.Config, float64){
	"sites":       func(c *config.Config, v float64) { c.Sites.Count = int(v) },
	"speed":       func(c *config.Config, v float64) { c.Motion.Speed = v },
	"turn_rate":   func(c *config.Config, v float64) { c.Motion.TurnRate = v },
	"dot_radius":  func(c *config.Config, v float64) { c.Motion.DotRadius = v },
	"side_buffer": func(c *config.Config, v float64) { c.Motion.SideBuffer = v },
	"min_radius":  func(c *config.Config, v float64) { c.Reveal.MinRadius = v },
	"max_radius":  func(c *config.Config, v float64) { c.Reveal.MaxRadius = v },
	"step_size":   func(c *config.Config, v float64) { c.Reveal.StepSize = v },
	"pixel_ratio": func(c *config.Config, v float64) { c.Viewport.PixelRatio = v },
}

// SetParam assigns a named tunable on cfg.
func SetParam(cfg *config.Config, name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	set(cfg, v)
	return nil
}

// Scenario defines a scripted sequence of recorded runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single recorded run in a scenario.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Frames    int                `yaml:"frames"`
	FPS       int                `yaml:"fps"` // 0 runs frames back to back
	Seed      int64              `yaml:"seed"`
	SiteEvery int                `yaml:"site_every"`
	Params    map[string]float64 `yaml:"params"`
	SaveAs    string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// resolve resolves the preset of step and applies its overrides.
func (step ScenarioStep) resolve() (*config.Config, string, error) {
	name := step.Preset
	if name == "" {
		name = "reveal"
	}
	cfg, err := config.LookupPreset(name)
	if err != nil {
		return nil, "", err
	}
	for k, v := range step.Params {
		if err := SetParam(cfg, k, v); err != nil {
			return nil, "", err
		}
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Frames > 0 {
		cfg.Render.Frames = step.Frames
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	if step.SaveAs != "" {
		name = step.SaveAs
	}
	return cfg, name, nil
}

// RecordOptions controls one recorded run.
type RecordOptions struct {
	Name      string
	Frames    int
	Interval  time.Duration
	SiteEvery int
}

// Recording is a saved run.
type Recording struct {
	RunID     string
	Result    *sim.Result
	FrameTime metrics.Stats
}

// Record simulates cfg headless with the standard metrics and saves frames
// and sampled sites to store.
func Record(ctx context.Context, cfg *config.Config, opts RecordOptions, store *storage.Store, logger *slog.Logger) (*Recording, error) {
	sc, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	s, err := sim.New(sc, logger)
	if err != nil {
		return nil, err
	}

	rec := storage.NewRecorder(opts.SiteEvery, func() string { return s.Reveal().Phase().String() })
	s.AddObserver(rec)
	frameTime := metrics.NewFrameTime()
	s.AddMetric(frameTime)
	s.AddMetric(metrics.NewSpread())
	s.AddMetric(metrics.NewReveal(s.Reveal().Config().MaxRadius))

	s.Start(ctx)
	result, err := s.Run(ctx, opts.Frames, opts.Interval)
	if err != nil {
		return nil, err
	}

	vp := s.Viewport()
	mode := cfg.Reveal.Mode
	if mode == "" {
		mode = "eased"
	}
	runID, err := store.Save(storage.RunMetadata{
		Preset:    opts.Name,
		Seed:      s.Seed(),
		Sites:     sc.Sites,
		Width:     vp.Width,
		Height:    vp.Height,
		Origin:    vp.Origin.String(),
		MaxRadius: s.Reveal().Config().MaxRadius,
		Mode:      mode,
		Metrics:   result.Metrics,
	}, rec)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("run saved", "id", runID, "frames", result.Frames)
	}
	return &Recording{RunID: runID, Result: result, FrameTime: frameTime.Stats()}, nil
}

// RunScenario records every step of scenario in order. It returns the
// recordings completed before the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, logger *slog.Logger) ([]*Recording, error) {
	recordings := make([]*Recording, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, name, err := step.resolve()
		if err != nil {
			return recordings, fmt.Errorf("step %d: %w", i+1, err)
		}
		var interval time.Duration
		if step.FPS > 0 {
			interval = time.Second / time.Duration(step.FPS)
		}

		rec, err := Record(ctx, cfg, RecordOptions{
			Name:      name,
			Frames:    cfg.Render.Frames,
			Interval:  interval,
			SiteEvery: step.SiteEvery,
		}, store, logger)
		if err != nil {
			return recordings, fmt.Errorf("step %d run: %w", i+1, err)
		}
		recordings = append(recordings, rec)
	}

	return recordings, nil
}

// Sweep varies one tunable across [Min, Max] in Steps evenly spaced values.
type Sweep struct {
	Param  string
	Min    float64
	Max    float64
	Steps  int
	Frames int
}

// SweepResult holds the metrics of one sweep value.
type SweepResult struct {
	Value        float64
	Spread       float64
	RevealFrames float64
	FrameMS      float64
}

// RunSweep runs base once per sweep value, frames back to back. The seed
// is fixed so only the swept value changes between runs.
func RunSweep(ctx context.Context, base *config.Config, sweep Sweep, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.Steps < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSweep, sweep.Steps)
	}
	if _, ok := params[sweep.Param]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, sweep.Param)
	}

	seed := base.Seed
	if seed == 0 {
		seed = 1
	}
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
	results := make([]SweepResult, 0, sweep.Steps)

	for i := 0; i < sweep.Steps; i++ {
		v := sweep.Min + float64(i)*paramStep
		cfg := base.Clone()
		cfg.Seed = seed
		if err := SetParam(cfg, sweep.Param, v); err != nil {
			return nil, err
		}
		sc, err := cfg.SimConfig()
		if err != nil {
			return nil, &field.ConfigError{Field: sweep.Param, Value: v, Wrapped: err}
		}
		s, err := sim.New(sc, logger)
		if err != nil {
			return nil, err
		}
		s.AddMetric(metrics.NewSpread())
		s.AddMetric(metrics.NewReveal(s.Reveal().Config().MaxRadius))
		s.AddMetric(metrics.NewFrameTime())

		s.Start(ctx)
		res, err := s.Run(ctx, sweep.Frames, 0)
		if err != nil {
			return nil, err
		}
		results = append(results, SweepResult{
			Value:        v,
			Spread:       res.Metrics["spread"],
			RevealFrames: res.Metrics["reveal_frames"],
			FrameMS:      res.Metrics["frame_ms"],
		})
	}

	return results, nil
}
