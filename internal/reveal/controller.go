package reveal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"
)

const (
	DefaultStartDelay = 1500 * time.Millisecond
	DefaultDuration   = 3 * time.Second
	DefaultInterval   = time.Second / 60
	DefaultStepSize   = 2.0
)

// Phase is the controller state.
type Phase int

const (
	Idle Phase = iota
	Growing
	Settled
	Shrinking
)

func (p Phase) String() string {
	switch p {
	case Growing:
		return "growing"
	case Settled:
		return "settled"
	case Shrinking:
		return "shrinking"
	default:
		return "idle"
	}
}

// Mode selects how the radius advances.
type Mode int

const (
	// ModeEased runs wall-clock transitions on their own goroutine.
	ModeEased Mode = iota
	// ModeStep adds a fixed StepSize on every Tick from the frame driver.
	ModeStep
)

func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "eased":
		return ModeEased, nil
	case "step":
		return ModeStep, nil
	}
	return ModeEased, fmt.Errorf("reveal: unknown mode %q", name)
}

type Config struct {
	MinRadius     float64
	MaxRadius     float64
	InitialRadius float64
	StartDelay    time.Duration
	Duration      time.Duration
	Interval      time.Duration
	Grow          Easing
	Shrink        Easing
	Mode          Mode
	StepSize      float64
}

func DefaultConfig(maxRadius float64) Config {
	return Config{
		MinRadius:     8,
		MaxRadius:     maxRadius,
		InitialRadius: 0,
		StartDelay:    DefaultStartDelay,
		Duration:      DefaultDuration,
		Interval:      DefaultInterval,
		Grow:          EaseInQuart,
		Shrink:        EaseOutQuart,
		Mode:          ModeEased,
		StepSize:      DefaultStepSize,
	}
}

func (c Config) Validate() error {
	if c.Mode == ModeEased && c.Duration <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, c.Duration)
	}
	if c.Mode == ModeStep && !(c.StepSize > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidStep, c.StepSize)
	}
	if math.IsNaN(c.MinRadius) || math.IsNaN(c.MaxRadius) || c.MaxRadius < c.MinRadius {
		return fmt.Errorf("%w: min=%v max=%v", ErrInvalidRadius, c.MinRadius, c.MaxRadius)
	}
	return nil
}

// Controller owns the current reveal radius. Radius may be read from any
// goroutine; it is written by at most one running sequence.
type Controller struct {
	cfg Config
	log *slog.Logger

	mu        sync.Mutex
	radius    float64
	phase     Phase
	animating bool
	done      chan struct{}
}

func NewController(cfg Config, logger *slog.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Grow == nil {
		cfg.Grow = EaseInQuart
	}
	if cfg.Shrink == nil {
		cfg.Shrink = EaseOutQuart
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	done := make(chan struct{})
	close(done)
	return &Controller{
		cfg:    cfg,
		log:    logger.With("component", "reveal"),
		radius: cfg.InitialRadius,
		phase:  Idle,
		done:   done,
	}, nil
}

func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *Controller) Radius() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// State returns the radius and phase read together.
func (c *Controller) State() (float64, Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius, c.phase
}

func (c *Controller) Animating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.animating
}

// Done returns a channel closed when the in-flight sequence ends. When
// nothing is running the channel is already closed.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Wait blocks until the in-flight sequence ends or ctx is canceled.
func (c *Controller) Wait(ctx context.Context) error {
	select {
	case <-c.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetMaxRadius updates the grow target, used when it derives from the
// viewport width. A settled radius follows the new target immediately.
func (c *Controller) SetMaxRadius(max float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if max < c.cfg.MinRadius {
		max = c.cfg.MinRadius
	}
	c.cfg.MaxRadius = max
	if c.phase == Settled {
		c.radius = max
	}
}

// begin claims the animating guard and moves to phase. When from is
// non-empty the current phase must be one of them. On refusal it returns
// the reason.
func (c *Controller) begin(phase Phase, from ...Phase) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.animating {
		return "animating", false
	}
	if len(from) > 0 && !slices.Contains(from, c.phase) {
		return c.phase.String(), false
	}
	c.animating = true
	c.phase = phase
	c.done = make(chan struct{})
	return "", true
}

func (c *Controller) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.animating = false
	c.phase = Settled
	close(c.done)
}

// Start schedules the startup grow after StartDelay. It returns false when
// a sequence is already running.
func (c *Controller) Start(ctx context.Context) bool {
	if reason, ok := c.begin(Idle); !ok {
		c.log.Debug("start ignored", "reason", reason)
		return false
	}
	if c.cfg.Mode == ModeStep {
		c.mu.Lock()
		c.phase = Growing
		c.mu.Unlock()
		return true
	}

	go func() {
		defer c.finish()
		if err := After(ctx, c.cfg.StartDelay); err != nil {
			c.log.Debug("start delay interrupted", "error", err)
		}
		c.transition(ctx, Growing, c.cfg.Grow)
	}()
	return true
}

// Restart shrinks the radius to MinRadius and grows it back. Only a
// settled controller restarts; otherwise it is ignored and returns false.
func (c *Controller) Restart(ctx context.Context) bool {
	if reason, ok := c.begin(Shrinking, Settled); !ok {
		c.log.Info("restart ignored", "reason", reason)
		return false
	}
	if c.cfg.Mode == ModeStep {
		return true
	}

	go func() {
		defer c.finish()
		c.transition(ctx, Shrinking, c.cfg.Shrink)
		c.transition(ctx, Growing, c.cfg.Grow)
	}()
	return true
}

// transition runs one eased transition toward the phase target. The
// radius is clamped so it never passes the target before the final snap.
func (c *Controller) transition(ctx context.Context, phase Phase, easing Easing) {
	c.mu.Lock()
	c.phase = phase
	from := c.radius
	target := c.cfg.MaxRadius
	if phase == Shrinking {
		target = c.cfg.MinRadius
	}
	c.mu.Unlock()

	magnitude := target - from
	tr, err := NewTransition(c.cfg.Duration, easing)
	if err != nil {
		c.log.Error("transition rejected", "error", err)
		return
	}

	c.log.Debug("transition started", "phase", phase.String(), "from", from, "to", target)
	start := time.Now()

	err = Run(ctx, tr, c.cfg.Interval,
		func(delta float64) {
			c.mu.Lock()
			c.radius = clampToward(c.radius+magnitude*delta, target, magnitude)
			c.mu.Unlock()
		},
		func() {
			c.mu.Lock()
			// The grow target may have moved with a resize since the start.
			if phase == Growing {
				target = c.cfg.MaxRadius
			}
			c.radius = target
			c.mu.Unlock()
		},
	)
	c.log.Debug("transition completed", "phase", phase.String(), "radius", target,
		"elapsed", time.Since(start).Round(time.Millisecond), "canceled", err != nil)
}

func clampToward(v, target, magnitude float64) float64 {
	if magnitude >= 0 && v > target {
		return target
	}
	if magnitude < 0 && v < target {
		return target
	}
	return v
}

// Tick advances the radius by one frame in ModeStep. In ModeEased it is a
// no-op since transitions run on their own goroutine.
func (c *Controller) Tick() {
	if c.cfg.Mode != ModeStep {
		return
	}

	c.mu.Lock()
	if !c.animating {
		c.mu.Unlock()
		return
	}

	var finished bool
	switch c.phase {
	case Shrinking:
		c.radius -= c.cfg.StepSize
		if c.radius <= c.cfg.MinRadius {
			c.radius = c.cfg.MinRadius
			c.phase = Growing
		}
	case Growing:
		c.radius += c.cfg.StepSize
		if c.radius >= c.cfg.MaxRadius {
			c.radius = c.cfg.MaxRadius
			finished = true
		}
	}
	c.mu.Unlock()

	if finished {
		c.finish()
	}
}
