package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the panel color scheme. The field itself always uses the
// site colors.
type Theme struct {
	Name      string
	Title     lipgloss.Color
	Accent    lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Running   lipgloss.Color
	Paused    lipgloss.Color
	Recording lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:      "default",
		Title:     lipgloss.Color("#00cccc"),
		Accent:    lipgloss.Color("#ff88ff"),
		Border:    lipgloss.Color("#444466"),
		Text:      lipgloss.Color("#e0e0e0"),
		Muted:     lipgloss.Color("#666688"),
		Running:   lipgloss.Color("#00ff88"),
		Paused:    lipgloss.Color("#ffaa00"),
		Recording: lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Title:     lipgloss.Color("#00ff00"),
		Accent:    lipgloss.Color("#88ff88"),
		Border:    lipgloss.Color("#005500"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#007700"),
		Running:   lipgloss.Color("#88ff88"),
		Paused:    lipgloss.Color("#ffff00"),
		Recording: lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Title:     lipgloss.Color("#ffffff"),
		Accent:    lipgloss.Color("#0088ff"),
		Border:    lipgloss.Color("#888888"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Running:   lipgloss.Color("#ffffff"),
		Paused:    lipgloss.Color("#ffaa00"),
		Recording: lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Title:     lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Border:    lipgloss.Color("#4488aa"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Running:   lipgloss.Color("#00ff88"),
		Paused:    lipgloss.Color("#ffcc00"),
		Recording: lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Title:     lipgloss.Color("#ff6b6b"),
		Accent:    lipgloss.Color("#feca57"),
		Border:    lipgloss.Color("#8b6b8c"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Running:   lipgloss.Color("#5fd068"),
		Paused:    lipgloss.Color("#ffc048"),
		Recording: lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeDefault,
		ThemeRetro,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeDefault
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
