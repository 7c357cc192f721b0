package export

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/san-kum/voronoi/internal/field"
)

// OverlayOptions selects the debug layers drawn over a rendered frame.
type OverlayOptions struct {
	Centers  bool
	Headings bool
	Rings    bool
	// HeadingLength is the heading arrow length in site units.
	HeadingLength float64
}

func DefaultOverlay() OverlayOptions {
	return OverlayOptions{Centers: true, Headings: true, Rings: false, HeadingLength: 40}
}

// Frame is a rendered raster with a drawing context on top of it.
type Frame struct {
	ctx  *gg.Context
	snap field.Snapshot
}

// NewFrame wraps a rendered raster of snap.
func NewFrame(r *field.Raster, snap field.Snapshot) *Frame {
	return &Frame{ctx: gg.NewContextForRGBA(r.Image()), snap: snap}
}

func (f *Frame) Image() image.Image { return f.ctx.Image() }

func (f *Frame) toPixel(p field.Point) (float64, float64) {
	return f.snap.Viewport.PointToSample(p, f.ctx.Width(), f.ctx.Height())
}

func (f *Frame) scale() float64 {
	return float64(f.ctx.Width()) / f.snap.Viewport.Width
}

// Overlay draws site centers, heading and target-heading arrows, and the
// reveal ring of every site.
func (f *Frame) Overlay(opts OverlayOptions) {
	scale := f.scale()

	if opts.Rings && f.snap.Radius > 0 {
		f.ctx.SetLineWidth(1)
		for _, s := range f.snap.Sites {
			x, y := f.toPixel(s.Position)
			f.ctx.SetColor(withAlpha(s.Color, 160))
			f.ctx.DrawCircle(x, y, f.snap.Radius*scale)
			f.ctx.Stroke()
		}
	}

	if opts.Headings {
		length := opts.HeadingLength
		f.ctx.SetLineCapRound()
		for _, s := range f.snap.Sites {
			f.drawArrow(s.Position, s.Heading.Current, length, color.RGBA{0, 0, 0, 220}, 2)
			f.drawArrow(s.Position, s.Heading.Target, length*0.6, color.RGBA{90, 90, 90, 160}, 1)
		}
	}

	if opts.Centers {
		r := math.Max(field.DefaultDotRadius*scale, 2)
		for _, s := range f.snap.Sites {
			x, y := f.toPixel(s.Position)
			f.ctx.SetColor(color.Black)
			f.ctx.DrawCircle(x, y, r+1)
			f.ctx.Fill()
			f.ctx.SetColor(s.Color)
			f.ctx.DrawCircle(x, y, r)
			f.ctx.Fill()
		}
	}
}

func (f *Frame) drawArrow(from field.Point, angle, length float64, c color.Color, width float64) {
	sin, cos := math.Sincos(angle)
	to := field.Point{X: from.X + cos*length, Y: from.Y + sin*length}
	x0, y0 := f.toPixel(from)
	x1, y1 := f.toPixel(to)

	f.ctx.SetColor(c)
	f.ctx.SetLineWidth(width)
	f.ctx.DrawLine(x0, y0, x1, y1)
	f.ctx.Stroke()
}

// Caption writes a single line of text in the top-left corner.
func (f *Frame) Caption(text string) {
	f.ctx.SetColor(color.RGBA{0, 0, 0, 180})
	f.ctx.DrawRectangle(0, 0, float64(8*len(text)+12), 20)
	f.ctx.Fill()
	f.ctx.SetColor(color.White)
	f.ctx.DrawString(text, 6, 14)
}

func (f *Frame) SavePNG(path string) error {
	return f.ctx.SavePNG(path)
}

func (f *Frame) EncodePNG(w io.Writer) error {
	return f.ctx.EncodePNG(w)
}

// SavePNG writes a rendered raster as-is.
func SavePNG(path string, r *field.Raster) error {
	return gg.NewContextForRGBA(r.Image()).SavePNG(path)
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
