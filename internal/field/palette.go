package field

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette draws one site color.
type Palette func(rng Rand) color.RGBA

// PaletteUniform picks each RGB channel uniformly, opaque.
func PaletteUniform(rng Rand) color.RGBA {
	return color.RGBA{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
		A: 255,
	}
}

// PaletteHappy picks saturated, bright hues.
func PaletteHappy(rng Rand) color.RGBA {
	c := colorful.Hsv(rng.Float64()*360, 0.7+rng.Float64()*0.3, 0.6+rng.Float64()*0.3)
	return toRGBA(c)
}

// PaletteWarm picks muted warm-lightness colors in HCL space.
func PaletteWarm(rng Rand) color.RGBA {
	c := colorful.Hcl(rng.Float64()*360, 0.1+rng.Float64()*0.3, 0.2+rng.Float64()*0.3)
	return toRGBA(c)
}

// PalettePastel picks light, low-chroma colors.
func PalettePastel(rng Rand) color.RGBA {
	c := colorful.Hcl(rng.Float64()*360, 0.2+rng.Float64()*0.15, 0.8+rng.Float64()*0.1)
	return toRGBA(c)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var palettes = map[string]Palette{
	"uniform": PaletteUniform,
	"happy":   PaletteHappy,
	"warm":    PaletteWarm,
	"pastel":  PalettePastel,
}

// ParsePalette returns the palette registered under name.
func ParsePalette(name string) (Palette, error) {
	if name == "" {
		return PaletteUniform, nil
	}
	p, ok := palettes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPalette, name, PaletteNames())
	}
	return p, nil
}

func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseHexColor parses "#rrggbb" into an opaque RGBA.
func ParseHexColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("field: parse color %q: %w", s, err)
	}
	return toRGBA(c), nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
