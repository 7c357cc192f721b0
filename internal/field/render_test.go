package field

import (
	"sync"
	"testing"
)

func TestRenderMatchesEvaluate(t *testing.T) {
	vp := NewViewport(200, 100, OriginCorner)
	snap := Snapshot{Sites: rgbSites(), Radius: 60, Viewport: vp}
	style := DefaultStyle()
	style.DotMarker = true

	dst := NewRaster(50, 25)
	NewRenderer(style, 4).Render(dst, snap)

	opts := EvalOptions{DotMarker: true, DotRadius: style.DotRadius}
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			p := vp.SampleToPoint(x, y, dst.W, dst.H)
			want := style.Shade(EvaluateWith(p, snap.Sites, snap.Radius, opts), snap.Sites)
			if got := dst.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestRenderCenterOrigin(t *testing.T) {
	vp := NewViewport(100, 100, OriginCenter)
	snap := Snapshot{
		Sites: []Site{
			{Position: Point{-25, 25}, Color: red},  // top-left quadrant
			{Position: Point{25, -25}, Color: blue}, // bottom-right quadrant
		},
		Radius:   1000,
		Viewport: vp,
	}
	dst := NewRaster(10, 10)
	NewRenderer(DefaultStyle(), 1).Render(dst, snap)

	if dst.At(1, 1) != red {
		t.Errorf("expected red top-left, got %v", dst.At(1, 1))
	}
	if dst.At(8, 8) != blue {
		t.Errorf("expected blue bottom-right, got %v", dst.At(8, 8))
	}
}

func TestSampleToPointRoundTrip(t *testing.T) {
	for _, origin := range []Origin{OriginCorner, OriginCenter} {
		vp := NewViewport(300, 200, origin)
		p := vp.SampleToPoint(10, 20, 30, 40)
		x, y := vp.PointToSample(p, 30, 40)
		if x != 10.5 || y != 20.5 {
			t.Errorf("%s: expected (10.5, 20.5), got (%f, %f)", origin, x, y)
		}
	}
}

func TestParallelForCoversRange(t *testing.T) {
	tests := []struct {
		n, minChunk, workers int
	}{
		{0, 8, 4},
		{1, 8, 4},
		{7, 8, 4},
		{100, 8, 4},
		{101, 1, 16},
		{1000, 10, 3},
	}

	for _, tt := range tests {
		seen := make([]int, tt.n)
		var mu sync.Mutex
		ParallelFor(tt.n, tt.minChunk, tt.workers, func(start, end int) {
			mu.Lock()
			defer mu.Unlock()
			for i := start; i < end; i++ {
				seen[i]++
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Errorf("n=%d: index %d visited %d times", tt.n, i, c)
			}
		}
	}
}

func TestRasterResize(t *testing.T) {
	r := NewRaster(0, 0)
	if r.W != 1 || r.H != 1 {
		t.Errorf("expected 1x1 minimum, got %dx%d", r.W, r.H)
	}
	r.Resize(4, 3)
	if len(r.Pix) != 12 {
		t.Errorf("expected 12 pixels, got %d", len(r.Pix))
	}
	r.Set(3, 2, red)
	img := r.Image()
	if img.RGBAAt(3, 2) != red {
		t.Errorf("expected red in image, got %v", img.RGBAAt(3, 2))
	}
}
