package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const panelWidth = 34

// Styles are the panel styles derived from a Theme.
type Styles struct {
	Panel     lipgloss.Style
	Header    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Recording lipgloss.Style
	Hint      lipgloss.Style
	Accent    lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(panelWidth - 2),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Title).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Label:     lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		Value:     lipgloss.NewStyle().Foreground(t.Text),
		Running:   lipgloss.NewStyle().Bold(true).Foreground(t.Running),
		Paused:    lipgloss.NewStyle().Bold(true).Foreground(t.Paused),
		Recording: lipgloss.NewStyle().Bold(true).Foreground(t.Recording),
		Hint:      lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Accent:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// ProgressBar renders fraction in [0, 1] as a bar of width cells.
func ProgressBar(fraction float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Sparkline renders the last width values scaled between their min and max.
func Sparkline(values []float64, width int) string {
	if width < 1 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rng := max - min
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - min) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		b.WriteRune(chars[idx])
	}
	return b.String()
}
