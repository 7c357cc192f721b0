package field

import (
	"image"
	"image/color"
	"runtime"
	"sync"
)

// Raster is a row-major RGBA sample buffer.
type Raster struct {
	W, H int
	Pix  []color.RGBA
}

func NewRaster(w, h int) *Raster {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Raster{W: w, H: h, Pix: make([]color.RGBA, w*h)}
}

// Resize reallocates the buffer only when the dimensions change.
func (r *Raster) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w == r.W && h == r.H {
		return
	}
	r.W, r.H = w, h
	r.Pix = make([]color.RGBA, w*h)
}

func (r *Raster) At(x, y int) color.RGBA { return r.Pix[y*r.W+x] }

func (r *Raster) Set(x, y int, c color.RGBA) { r.Pix[y*r.W+x] = c }

// Image copies the raster into a new *image.RGBA.
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	for i, c := range r.Pix {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = c.A
	}
	return img
}

// Style holds the colors a Decision maps to.
type Style struct {
	Background color.RGBA
	Marker     color.RGBA
	DotMarker  bool
	DotRadius  float64
}

func DefaultStyle() Style {
	return Style{
		Background: color.RGBA{255, 255, 255, 255},
		Marker:     color.RGBA{0, 0, 0, 255},
		DotMarker:  false,
		DotRadius:  DefaultDotRadius,
	}
}

// Shade converts a decision into an output color.
func (s Style) Shade(d Decision, sites []Site) color.RGBA {
	switch d.Kind {
	case SiteColor:
		c := sites[d.Index].Color
		c.A = 255
		return c
	case Marker:
		return s.Marker
	default:
		return s.Background
	}
}

// minRowsPerWorker keeps tiny rasters on a single goroutine.
const minRowsPerWorker = 8

// Renderer evaluates every sample of a raster in parallel.
type Renderer struct {
	Style   Style
	Workers int
}

// NewRenderer returns a renderer; workers <= 0 means GOMAXPROCS.
func NewRenderer(style Style, workers int) *Renderer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Renderer{Style: style, Workers: workers}
}

// Render fills dst with one decision per pixel. Rows are split across
// workers; every sample reads only the snapshot, so no locking is needed.
func (r *Renderer) Render(dst *Raster, snap Snapshot) {
	opts := EvalOptions{DotMarker: r.Style.DotMarker, DotRadius: r.Style.DotRadius}
	sites := snap.Sites
	vp := snap.Viewport

	ParallelFor(dst.H, minRowsPerWorker, r.Workers, func(start, end int) {
		for y := start; y < end; y++ {
			row := dst.Pix[y*dst.W : (y+1)*dst.W]
			for x := range row {
				p := vp.SampleToPoint(x, y, dst.W, dst.H)
				d := EvaluateWith(p, sites, snap.Radius, opts)
				row[x] = r.Style.Shade(d, sites)
			}
		}
	})
}

// ParallelFor executes fn over [0, n) split into at most workers contiguous
// chunks of at least minChunk items.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
