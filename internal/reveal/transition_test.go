package reveal

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestEasingEndpoints(t *testing.T) {
	for _, name := range EasingNames() {
		e, err := ParseEasing(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got := e(0); math.Abs(got) > 1e-12 {
			t.Errorf("%s(0): expected 0, got %f", name, got)
		}
		if got := e(1); math.Abs(got-1) > 1e-12 {
			t.Errorf("%s(1): expected 1, got %f", name, got)
		}
	}
}

func TestEasingValues(t *testing.T) {
	tests := []struct {
		name string
		fn   Easing
		t    float64
		want float64
	}{
		{"in-quart half", EaseInQuart, 0.5, 0.0625},
		{"out-quart half", EaseOutQuart, 0.5, 0.9375},
		{"linear", Linear, 0.3, 0.3},
		{"in-out-cubic quarter", EaseInOutCubic, 0.25, 0.0625},
		{"in-out-cubic half", EaseInOutCubic, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.t); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestParseEasingUnknown(t *testing.T) {
	if _, err := ParseEasing("bounce"); !errors.Is(err, ErrUnknownEasing) {
		t.Errorf("expected ErrUnknownEasing, got %v", err)
	}
	if _, err := ParseEasing("ease-in-quart"); err != nil {
		t.Errorf("expected alias to parse, got %v", err)
	}
}

func TestTransitionHalfway(t *testing.T) {
	tr, err := NewTransition(3*time.Second, EaseInQuart)
	if err != nil {
		t.Fatal(err)
	}

	delta, done := tr.Advance(1500 * time.Millisecond)
	if done {
		t.Error("did not expect transition to be done at half duration")
	}
	if math.Abs(delta-0.0625) > 1e-12 {
		t.Errorf("expected eased fraction 0.0625, got %f", delta)
	}

	maxRadius := 1920.0
	if got := delta * maxRadius; math.Abs(got-120) > 1e-9 {
		t.Errorf("expected radius increment 120, got %f", got)
	}
}

func TestTransitionDeltasSumToOne(t *testing.T) {
	tr, _ := NewTransition(time.Second, EaseOutQuart)

	sum := 0.0
	prev := -1.0
	for ms := 0; ms <= 1100; ms += 7 {
		delta, done := tr.Advance(time.Duration(ms) * time.Millisecond)
		if delta < 0 {
			t.Fatalf("negative delta %f at %dms", delta, ms)
		}
		sum += delta
		if sum < prev {
			t.Fatalf("progress went backwards at %dms", ms)
		}
		prev = sum
		if done {
			break
		}
	}

	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("expected deltas to sum to 1, got %f", sum)
	}
	if delta, done := tr.Advance(2 * time.Second); delta != 0 || !done {
		t.Errorf("expected (0, true) after completion, got (%f, %v)", delta, done)
	}
}

func TestNewTransitionInvalid(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		if _, err := NewTransition(d, Linear); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("duration %v: expected ErrInvalidDuration, got %v", d, err)
		}
	}
}

func TestRunCompletesOnce(t *testing.T) {
	tr, _ := NewTransition(30*time.Millisecond, Linear)

	var sum float64
	completions := 0
	err := Run(context.Background(), tr, time.Millisecond,
		func(delta float64) { sum += delta },
		func() { completions++ },
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if completions != 1 {
		t.Errorf("expected 1 completion, got %d", completions)
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("expected steps to sum to 1, got %f", sum)
	}
}

func TestRunCanceledStillCompletes(t *testing.T) {
	tr, _ := NewTransition(time.Hour, Linear)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	completions := 0
	err := Run(ctx, tr, time.Millisecond, nil, func() { completions++ })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if completions != 1 {
		t.Errorf("expected 1 completion after cancel, got %d", completions)
	}
}

func TestAfter(t *testing.T) {
	start := time.Now()
	if err := After(context.Background(), 5*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("After returned early")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := After(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"zero duration", func(c *Config) { c.Duration = 0 }, ErrInvalidDuration},
		{"max below min", func(c *Config) { c.MaxRadius = 1 }, ErrInvalidRadius},
		{"step mode zero step", func(c *Config) { c.Mode = ModeStep; c.StepSize = 0 }, ErrInvalidStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(100)
			tt.modify(&cfg)
			if _, err := NewController(cfg, nil); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
