package field

import (
	"fmt"
	"math"
)

const (
	DefaultSpeed             = 0.4
	DefaultTurnRate          = 0.001
	DefaultRetargetThreshold = 0.05
	DefaultDotRadius         = 8.0
	DefaultSideBuffer        = 400.0
)

// Motion holds the per-tick movement constants shared by every site.
type Motion struct {
	Speed             float64 // distance travelled per tick
	TurnRate          float64 // fraction of the remaining turn applied per tick
	RetargetThreshold float64 // radians; below this a new target heading is drawn
	DotRadius         float64
	SideBuffer        float64 // off-screen margin a site crosses before wrapping
}

func DefaultMotion() Motion {
	return Motion{
		Speed:             DefaultSpeed,
		TurnRate:          DefaultTurnRate,
		RetargetThreshold: DefaultRetargetThreshold,
		DotRadius:         DefaultDotRadius,
		SideBuffer:        DefaultSideBuffer,
	}
}

func (m Motion) Validate() error {
	check := func(name string, v float64, allowZero bool) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || (!allowZero && v == 0) {
			return &ConfigError{Field: name, Value: v, Wrapped: ErrInvalidMotion}
		}
		return nil
	}
	if err := check("speed", m.Speed, false); err != nil {
		return err
	}
	if err := check("turn_rate", m.TurnRate, false); err != nil {
		return err
	}
	if m.TurnRate > 1 {
		return &ConfigError{Field: "turn_rate", Value: m.TurnRate, Wrapped: fmt.Errorf("%w: must be <= 1", ErrInvalidMotion)}
	}
	if err := check("retarget_threshold", m.RetargetThreshold, false); err != nil {
		return err
	}
	if err := check("dot_radius", m.DotRadius, true); err != nil {
		return err
	}
	return check("side_buffer", m.SideBuffer, true)
}

// Step advances one site by one tick: translate along the current heading,
// ease the heading toward its target, retarget when the turn is nearly
// done, then wrap each axis across the expanded viewport.
func (m Motion) Step(s *Site, vp Viewport, rng Rand) {
	sin, cos := math.Sincos(s.Heading.Current)
	s.Position.X += cos * m.Speed
	s.Position.Y += sin * m.Speed

	h, settled := s.Heading.Next(m.TurnRate, m.RetargetThreshold)
	if settled {
		h.Target = RandomAngle(rng)
	}
	s.Heading = h

	xs, ys := vp.WrapSpans(m.DotRadius, m.SideBuffer)
	s.Position.X = wrapAxis(s.Position.X, xs)
	s.Position.Y = wrapAxis(s.Position.Y, ys)
}

func wrapAxis(x float64, s Span) float64 {
	if x < s.Min {
		return s.Max
	}
	if x > s.Max {
		return s.Min
	}
	return x
}
