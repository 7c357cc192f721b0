package metrics

import (
	"math"
	"time"

	"github.com/san-kum/voronoi/internal/field"
)

// Spread is the mean nearest-neighbour distance between sites, averaged
// over frames. It drops when sites bunch up and cells grow uneven.
type Spread struct {
	name    string
	total   float64
	samples int
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(snap field.Snapshot, _ time.Duration) {
	if len(snap.Sites) < 2 {
		return
	}
	s.total += MeanNearestNeighbour(snap.Sites)
	s.samples++
}

func (s *Spread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *Spread) Reset() {
	s.total = 0
	s.samples = 0
}

// MeanNearestNeighbour returns the average distance from each site to its
// closest other site.
func MeanNearestNeighbour(sites []field.Site) float64 {
	if len(sites) < 2 {
		return 0
	}
	sum := 0.0
	for i, a := range sites {
		best := math.Inf(1)
		for j, b := range sites {
			if i == j {
				continue
			}
			if d := a.Position.Dist(b.Position); d < best {
				best = d
			}
		}
		sum += best
	}
	return sum / float64(len(sites))
}

// Reveal tracks how long the radius took to settle.
type Reveal struct {
	name       string
	max        float64
	frames     int
	settledAt  int
	lastRadius float64
}

// NewReveal counts frames until the radius first reaches max.
func NewReveal(max float64) *Reveal {
	return &Reveal{name: "reveal_frames", max: max, settledAt: -1}
}

func (r *Reveal) Name() string { return r.name }

func (r *Reveal) Observe(snap field.Snapshot, _ time.Duration) {
	r.frames++
	r.lastRadius = snap.Radius
	if r.settledAt < 0 && snap.Radius >= r.max {
		r.settledAt = r.frames
	}
}

// Value is the 1-based frame at which the radius reached max, or -1.
func (r *Reveal) Value() float64 { return float64(r.settledAt) }

func (r *Reveal) LastRadius() float64 { return r.lastRadius }

func (r *Reveal) Reset() {
	r.frames = 0
	r.settledAt = -1
	r.lastRadius = 0
}
