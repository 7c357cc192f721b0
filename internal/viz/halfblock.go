package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/voronoi/internal/field"
)

const upperHalf = "▀"

type cellColors struct {
	top, bottom color.RGBA
}

// HalfBlocks renders r as rows of upper half blocks, one terminal line per
// two raster rows. Runs of equal cells share one styled segment. An odd
// last row is paired with itself.
func HalfBlocks(r *field.Raster) string {
	var b strings.Builder
	styles := make(map[cellColors]lipgloss.Style)

	for y := 0; y < r.H; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		bottomRow := y + 1
		if bottomRow >= r.H {
			bottomRow = y
		}

		run := 0
		var cur cellColors
		flush := func() {
			if run == 0 {
				return
			}
			st, ok := styles[cur]
			if !ok {
				st = lipgloss.NewStyle().
					Foreground(lipgloss.Color(field.HexColor(cur.top))).
					Background(lipgloss.Color(field.HexColor(cur.bottom)))
				styles[cur] = st
			}
			b.WriteString(st.Render(strings.Repeat(upperHalf, run)))
		}

		for x := 0; x < r.W; x++ {
			c := cellColors{top: r.At(x, y), bottom: r.At(x, bottomRow)}
			if run > 0 && c == cur {
				run++
				continue
			}
			flush()
			cur, run = c, 1
		}
		flush()
	}
	return b.String()
}
