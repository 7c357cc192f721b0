package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/voronoi/internal/field"
	"github.com/san-kum/voronoi/internal/reveal"
)

// Simulator is the frame driver. It owns the site population, the viewport
// and the reveal controller. It is driven from a single goroutine; only the
// reveal controller is shared with its transition goroutine.
type Simulator struct {
	pop        *field.Population
	motion     field.Motion
	vp         field.Viewport
	pixelRatio float64
	autoMax    bool
	rng        *rand.Rand
	reveal     *reveal.Controller
	log        *slog.Logger

	running bool
	frame   uint64
	seed    int64

	ctx          context.Context
	autoRestart  time.Duration
	settledSince time.Time

	metrics   []Metric
	observers []Observer
}

func New(cfg Config, logger *slog.Logger) (*Simulator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !(cfg.PixelRatio > 0) || math.IsInf(cfg.PixelRatio, 0) {
		cfg.PixelRatio = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	vp := field.NewViewport(cfg.Viewport.Width, cfg.Viewport.Height, cfg.Viewport.Origin)
	pop, err := field.NewPopulation(cfg.Sites, vp, cfg.Motion, rng, cfg.Palette)
	if err != nil {
		return nil, err
	}

	rcfg := cfg.Reveal
	autoMax := rcfg.MaxRadius == 0
	if autoMax {
		rcfg.MaxRadius = derivedMax(vp, cfg.PixelRatio, rcfg.MinRadius)
	}
	ctrl, err := reveal.NewController(rcfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sim: reveal: %w", err)
	}

	return &Simulator{
		pop:         pop,
		motion:      cfg.Motion,
		vp:          vp,
		pixelRatio:  cfg.PixelRatio,
		autoMax:     autoMax,
		rng:         rng,
		reveal:      ctrl,
		log:         logger.With("component", "sim"),
		running:     !cfg.Paused,
		seed:        seed,
		ctx:         context.Background(),
		autoRestart: cfg.AutoRestart,
		metrics:     make([]Metric, 0),
		observers:   make([]Observer, 0),
	}, nil
}

func derivedMax(vp field.Viewport, ratio, min float64) float64 {
	return math.Max(vp.Width*ratio, min)
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Reveal() *reveal.Controller { return s.reveal }
func (s *Simulator) Viewport() field.Viewport   { return s.vp }
func (s *Simulator) Frame() uint64              { return s.frame }
func (s *Simulator) Running() bool              { return s.running }
func (s *Simulator) Seed() int64                { return s.seed }
func (s *Simulator) Motion() field.Motion       { return s.motion }

// Start kicks off the startup grow. ctx also bounds automatic restarts.
func (s *Simulator) Start(ctx context.Context) bool {
	s.ctx = ctx
	s.log.Info("reveal scheduled", "max_radius", s.reveal.Config().MaxRadius, "sites", s.pop.Len())
	return s.reveal.Start(ctx)
}

// TogglePause flips the running flag and returns the new value. The reveal
// transition keeps running while paused.
func (s *Simulator) TogglePause() bool {
	s.running = !s.running
	s.log.Debug("pause toggled", "running", s.running)
	return s.running
}

func (s *Simulator) SetRunning(running bool) { s.running = running }

// Restart runs the shrink then grow cycle. It reports false when the
// controller is already animating.
func (s *Simulator) Restart(ctx context.Context) bool {
	return s.reveal.Restart(ctx)
}

// Resize updates the viewport, clamping to the minimum extent. A derived
// max radius follows the new width.
func (s *Simulator) Resize(width, height float64) {
	s.vp = s.vp.Resize(width, height)
	if s.autoMax {
		s.reveal.SetMaxRadius(derivedMax(s.vp, s.pixelRatio, s.reveal.Config().MinRadius))
	}
	s.log.Debug("viewport resized", "width", s.vp.Width, "height", s.vp.Height)
}

// Snapshot returns the current frame without advancing it.
func (s *Simulator) Snapshot() field.Snapshot {
	return s.pop.Snapshot(s.frame, s.reveal.Radius(), s.vp)
}

// Tick advances one frame: sites step only while running, the reveal
// controller steps in step mode, and the resulting snapshot goes to every
// observer.
func (s *Simulator) Tick() field.Snapshot {
	start := time.Now()
	if s.running {
		s.pop.Step(s.motion, s.vp, s.rng)
	}
	s.reveal.Tick()
	s.maybeAutoRestart(start)
	s.frame++

	snap := s.Snapshot()
	for _, o := range s.observers {
		o.OnFrame(snap)
	}
	dt := time.Since(start)
	for _, m := range s.metrics {
		m.Observe(snap, dt)
	}
	return snap
}

// maybeAutoRestart triggers the restart cycle once the radius has stayed
// settled for autoRestart.
func (s *Simulator) maybeAutoRestart(now time.Time) {
	if s.autoRestart <= 0 {
		return
	}
	if s.reveal.Animating() || s.reveal.Phase() != reveal.Settled {
		s.settledSince = time.Time{}
		return
	}
	if s.settledSince.IsZero() {
		s.settledSince = now
		return
	}
	if now.Sub(s.settledSince) >= s.autoRestart {
		s.settledSince = time.Time{}
		if s.reveal.Restart(s.ctx) {
			s.log.Info("auto restart", "after", s.autoRestart)
		}
	}
}

// Run drives frames ticks headless. With a positive interval the frames are
// paced on a ticker so wall-clock reveal transitions progress as they would
// live; otherwise frames run back to back.
func (s *Simulator) Run(ctx context.Context, frames int, interval time.Duration) (*Result, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrames, frames)
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Radii:   make([]float64, 0, frames),
		Phases:  make([]reveal.Phase, 0, frames),
		Metrics: make(map[string]float64),
	}
	start := time.Now()

	err := s.RunWithCallback(ctx, frames, interval, func(snap field.Snapshot) bool {
		result.Frames++
		result.Radii = append(result.Radii, snap.Radius)
		result.Phases = append(result.Phases, s.reveal.Phase())
		result.Final = snap
		return true
	})

	result.Elapsed = time.Since(start)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	s.log.Info("run finished", "frames", result.Frames, "elapsed", result.Elapsed.Round(time.Millisecond))
	return result, err
}

// RunWithCallback ticks up to frames times, stopping early when callback
// returns false or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, frames int, interval time.Duration, callback func(field.Snapshot) bool) error {
	if frames <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFrames, frames)
	}

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for i := 0; i < frames; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if !callback(s.Tick()) {
			return nil
		}
	}
	return nil
}
