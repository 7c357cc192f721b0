package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/voronoi/internal/field"
)

var ErrNoFrames = errors.New("export: no frames captured")

// maxPaletteSize is the GIF color table limit.
const maxPaletteSize = 256

// Animation accumulates rendered rasters as GIF frames.
type Animation struct {
	// Delay per frame in 100ths of a second.
	Delay  int
	frames []*image.Paletted
}

func NewAnimation(fps int) *Animation {
	delay := 2
	if fps > 0 {
		delay = 100 / fps
		if delay < 2 {
			delay = 2
		}
	}
	return &Animation{Delay: delay}
}

func (a *Animation) Len() int { return len(a.frames) }

func (a *Animation) Reset() { a.frames = a.frames[:0] }

// Add quantizes r against a palette built from the snapshot colors. A
// rendered frame only ever contains site colors plus background and marker,
// so the mapping is exact as long as that set fits in a GIF palette.
func (a *Animation) Add(r *field.Raster, snap field.Snapshot, style field.Style) {
	pal := FramePalette(snap, style)
	index := make(map[color.RGBA]uint8, len(pal))
	for i, c := range pal {
		index[c.(color.RGBA)] = uint8(i)
	}

	img := image.NewPaletted(image.Rect(0, 0, r.W, r.H), pal)
	for i, c := range r.Pix {
		idx, ok := index[c]
		if !ok {
			idx = uint8(pal.Index(c))
			index[c] = idx
		}
		img.Pix[i] = idx
	}
	a.frames = append(a.frames, img)
}

// FramePalette lists background, marker and every distinct site color.
func FramePalette(snap field.Snapshot, style field.Style) color.Palette {
	seen := make(map[color.RGBA]bool)
	pal := make(color.Palette, 0, len(snap.Sites)+2)
	add := func(c color.RGBA) {
		c.A = 255
		if seen[c] || len(pal) >= maxPaletteSize {
			return
		}
		seen[c] = true
		pal = append(pal, c)
	}
	add(style.Background)
	add(style.Marker)
	for _, s := range snap.Sites {
		add(s.Color)
	}
	return pal
}

func (a *Animation) Encode(w io.Writer) error {
	if len(a.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range a.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, a.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (a *Animation) Save(path string) error {
	if len(a.frames) == 0 {
		return ErrNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
