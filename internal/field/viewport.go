package field

import (
	"fmt"
	"math"
	"strings"
)

// MinExtent is the smallest width or height a viewport is allowed to take.
// Resize transients can report zero; wrap math needs a positive extent.
const MinExtent = 1.0

// Origin selects the coordinate convention shared by sites and samples.
type Origin int

const (
	// OriginCorner puts (0,0) at the top-left corner with y growing downward.
	OriginCorner Origin = iota
	// OriginCenter puts (0,0) at the viewport center with y growing upward.
	OriginCenter
)

func (o Origin) String() string {
	switch o {
	case OriginCenter:
		return "center"
	default:
		return "corner"
	}
}

// ParseOrigin maps a config name to an Origin.
func ParseOrigin(name string) (Origin, error) {
	switch strings.ToLower(name) {
	case "", "corner":
		return OriginCorner, nil
	case "center", "centre":
		return OriginCenter, nil
	}
	return OriginCorner, fmt.Errorf("%w: %q", ErrUnknownOrigin, name)
}

// Viewport is the visible region in site coordinates.
type Viewport struct {
	Width  float64
	Height float64
	Origin Origin
}

// NewViewport returns a viewport with both extents clamped to MinExtent.
func NewViewport(width, height float64, origin Origin) Viewport {
	return Viewport{
		Width:  clampExtent(width),
		Height: clampExtent(height),
		Origin: origin,
	}
}

// Resize returns a copy with new clamped extents.
func (v Viewport) Resize(width, height float64) Viewport {
	return NewViewport(width, height, v.Origin)
}

func clampExtent(x float64) float64 {
	if math.IsNaN(x) || x < MinExtent {
		return MinExtent
	}
	if math.IsInf(x, 1) {
		return math.MaxFloat32
	}
	return x
}

// Span is the closed range a coordinate may occupy on one axis.
type Span struct {
	Min, Max float64
}

// Contains reports whether x lies within the span, bounds included.
func (s Span) Contains(x float64) bool {
	return x >= s.Min && x <= s.Max
}

// WrapSpans returns the expanded per-axis bounds beyond which a site wraps.
func (v Viewport) WrapSpans(dotRadius, sideBuffer float64) (Span, Span) {
	margin := dotRadius + sideBuffer
	if v.Origin == OriginCenter {
		hx := v.Width/2 + margin
		hy := v.Height/2 + margin
		return Span{-hx, hx}, Span{-hy, hy}
	}
	return Span{-margin, v.Width + margin}, Span{-margin, v.Height + margin}
}

// SampleToPoint maps raster pixel (px, py) of a w×h raster onto the viewport.
// Corner origin keeps y downward; center origin flips y so it grows upward.
func (v Viewport) SampleToPoint(px, py, w, h int) Point {
	sx := v.Width / float64(w)
	sy := v.Height / float64(h)
	x := (float64(px) + 0.5) * sx
	y := (float64(py) + 0.5) * sy
	if v.Origin == OriginCenter {
		return Point{X: x - v.Width/2, Y: v.Height/2 - y}
	}
	return Point{X: x, Y: y}
}

// PointToSample is the inverse of SampleToPoint, without pixel-center offset.
func (v Viewport) PointToSample(p Point, w, h int) (float64, float64) {
	x, y := p.X, p.Y
	if v.Origin == OriginCenter {
		x += v.Width / 2
		y = v.Height/2 - y
	}
	return x * float64(w) / v.Width, y * float64(h) / v.Height
}
