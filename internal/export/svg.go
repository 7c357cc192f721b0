package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/voronoi/internal/field"
)

// SitesToSVG draws the sites of one frame as colored dots, each with its
// reveal disk, scaled to width x height.
func SitesToSVG(snap field.Snapshot, style field.Style, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}

	vp := snap.Viewport
	scale := float64(width) / vp.Width

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, field.HexColor(style.Background)))

	// Disks first so every dot stays visible on top.
	sb.WriteString(`<g fill-opacity="0.15">` + "\n")
	for _, s := range snap.Sites {
		x, y := vp.PointToSample(s.Position, width, height)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, snap.Radius*scale, field.HexColor(s.Color)))
	}
	sb.WriteString("</g>\n<g>\n")

	dot := style.DotRadius * scale
	if dot < 1 {
		dot = 1
	}
	for i, s := range snap.Sites {
		x, y := vp.PointToSample(s.Position, width, height)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s"><title>site %d</title></circle>
`, x, y, dot, field.HexColor(s.Color), field.HexColor(style.Marker), i))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrailsToSVG draws one polyline per site from recorded positions. A jump
// longer than half the viewport is a wrap and starts a new segment.
func TrailsToSVG(trails map[int][]field.Point, vp field.Viewport, colors map[int]string, width, height int) string {
	if len(trails) == 0 || width < 1 || height < 1 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	jump := vp.Width / 2
	if vp.Height/2 < jump {
		jump = vp.Height / 2
	}

	for _, idx := range sortedKeys(trails) {
		points := trails[idx]
		if len(points) < 2 {
			continue
		}
		stroke := colors[idx]
		if stroke == "" {
			stroke = "#00ff00"
		}

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke))
		for i, p := range points {
			x, y := vp.PointToSample(p, width, height)
			if i == 0 || p.Dist(points[i-1]) > jump {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f ", x, y))
			} else {
				sb.WriteString(fmt.Sprintf("L%.1f,%.1f ", x, y))
			}
		}
		sb.WriteString(`"/>
`)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func sortedKeys(m map[int][]field.Point) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
