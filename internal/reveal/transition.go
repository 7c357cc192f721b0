package reveal

import (
	"context"
	"fmt"
	"time"
)

// Transition converts elapsed time into eased progress increments.
// It is not safe for concurrent use.
type Transition struct {
	Duration time.Duration
	Easing   Easing

	reported float64
	done     bool
}

func NewTransition(d time.Duration, e Easing) (*Transition, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, d)
	}
	if e == nil {
		e = Linear
	}
	return &Transition{Duration: d, Easing: e}, nil
}

// Progress returns the eased progress at elapsed without advancing.
func (t *Transition) Progress(elapsed time.Duration) float64 {
	frac := float64(elapsed) / float64(t.Duration)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return t.Easing(frac)
}

// Advance returns the eased progress gained since the previous call and
// whether the transition has reached its end. Once done it returns (0, true).
func (t *Transition) Advance(elapsed time.Duration) (float64, bool) {
	if t.done {
		return 0, true
	}
	eased := t.Progress(elapsed)
	delta := eased - t.reported
	t.reported = eased
	if elapsed >= t.Duration {
		t.done = true
	}
	return delta, t.done
}

// Reported is the total eased progress handed out so far.
func (t *Transition) Reported() float64 { return t.reported }

// Run drives tr from a ticker firing every interval. onStep receives each
// non-zero eased increment; onComplete fires exactly once after the last
// step, including when ctx is canceled first.
func Run(ctx context.Context, tr *Transition, interval time.Duration, onStep func(delta float64), onComplete func()) error {
	if onComplete != nil {
		defer onComplete()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			delta, done := tr.Advance(now.Sub(start))
			if delta != 0 && onStep != nil {
				onStep(delta)
			}
			if done {
				return nil
			}
		}
	}
}

// After blocks for d or until ctx is canceled.
func After(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
