package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the field view.
type Theme struct {
	Name   string
	Field  lipgloss.Color
	Title  lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Border lipgloss.Color
	Graph  lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
	Bad    lipgloss.Color
}

var (
	ThemeFoam = Theme{
		Name:   "foam",
		Field:  lipgloss.Color("#9aa5b1"),
		Title:  lipgloss.Color("86"),
		Label:  lipgloss.Color("245"),
		Value:  lipgloss.Color("252"),
		Border: lipgloss.Color("240"),
		Graph:  lipgloss.Color("49"),
		Good:   lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffcc00"),
		Bad:    lipgloss.Color("#ff4444"),
	}

	ThemeRed = Theme{
		Name:   "red",
		Field:  lipgloss.Color("#ff6b6b"),
		Title:  lipgloss.Color("#ff4757"),
		Label:  lipgloss.Color("#8b6b8c"),
		Value:  lipgloss.Color("#fff5f5"),
		Border: lipgloss.Color("#5a3b5c"),
		Graph:  lipgloss.Color("#feca57"),
		Good:   lipgloss.Color("#5fd068"),
		Warn:   lipgloss.Color("#ffc048"),
		Bad:    lipgloss.Color("#ff4757"),
	}

	ThemeBlue = Theme{
		Name:   "blue",
		Field:  lipgloss.Color("#00a8cc"),
		Title:  lipgloss.Color("#0077be"),
		Label:  lipgloss.Color("#4488aa"),
		Value:  lipgloss.Color("#e0f0ff"),
		Border: lipgloss.Color("#224466"),
		Graph:  lipgloss.Color("#ffd700"),
		Good:   lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffcc00"),
		Bad:    lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeFoam, ThemeRed, ThemeBlue}
)

// GetTheme returns a theme by name, falling back to the first.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
