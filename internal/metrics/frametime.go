package metrics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/voronoi/internal/field"
)

// Stats summarizes a sample of durations in milliseconds.
type Stats struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P50    float64
	P95    float64
}

// Summarize computes Stats over xs. xs is not modified.
func Summarize(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	s := Stats{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// FrameTime records the wall time of every frame.
type FrameTime struct {
	name    string
	samples []float64
}

func NewFrameTime() *FrameTime {
	return &FrameTime{name: "frame_ms"}
}

func (f *FrameTime) Name() string { return f.name }

func (f *FrameTime) Observe(_ field.Snapshot, dt time.Duration) {
	f.samples = append(f.samples, float64(dt)/float64(time.Millisecond))
}

// Value is the mean frame time in milliseconds.
func (f *FrameTime) Value() float64 {
	if len(f.samples) == 0 {
		return 0
	}
	return stat.Mean(f.samples, nil)
}

func (f *FrameTime) Stats() Stats { return Summarize(f.samples) }

func (f *FrameTime) Samples() []float64 {
	c := make([]float64, len(f.samples))
	copy(c, f.samples)
	return c
}

func (f *FrameTime) Reset() { f.samples = f.samples[:0] }
