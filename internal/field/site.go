package field

import (
	"image/color"
	"math"
)

// Rand is the random source used for placement, colors and retargeting.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Point is a position in site coordinates.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Heading is the eased rotation state of a site. Both angles stay in [0, 2π).
type Heading struct {
	Current float64
	Target  float64
}

// Next eases Current toward Target by rate and reports whether the remaining
// turn fell below threshold. The caller picks a new Target when it did.
func (h Heading) Next(rate, threshold float64) (Heading, bool) {
	h.Current += (h.Target - h.Current) * rate
	return h, math.Abs(h.Target-h.Current) < threshold
}

// Site is a moving colored point that owns a region of the field.
type Site struct {
	Position Point
	Heading  Heading
	Color    color.RGBA
}

// RandomAngle draws an angle uniformly from [0, 2π).
func RandomAngle(rng Rand) float64 {
	a := rng.Float64() * 2 * math.Pi
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// NewSite returns a site at pos with two independent random headings.
func NewSite(pos Point, c color.RGBA, rng Rand) Site {
	return Site{
		Position: pos,
		Heading: Heading{
			Current: RandomAngle(rng),
			Target:  RandomAngle(rng),
		},
		Color: c,
	}
}
