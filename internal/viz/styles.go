package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the set of lipgloss styles derived from a Theme.
type styles struct {
	field  lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		field: lipgloss.NewStyle().
			Foreground(t.Field).
			Padding(1, 2),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(1, 2).
			Width(46),
		header: lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Label).Width(10),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		graph:  lipgloss.NewStyle().Foreground(t.Graph).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Border).MarginTop(1),
		good:   lipgloss.NewStyle().Foreground(t.Good).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(t.Warn).Bold(true),
		bad:    lipgloss.NewStyle().Foreground(t.Bad).Bold(true),
	}
}

// CommandBar renders a motor command in [-100, 100] as a bar growing left
// or right from a center tick, half-width cells per side.
func CommandBar(cmd float64, half int) string {
	cmd = math.Max(-100, math.Min(100, cmd))
	n := int(math.Round(math.Abs(cmd) / 100 * float64(half)))

	left := strings.Repeat("░", half)
	right := strings.Repeat("░", half)
	if cmd < 0 {
		left = strings.Repeat("░", half-n) + strings.Repeat("█", n)
	} else {
		right = strings.Repeat("█", n) + strings.Repeat("░", half-n)
	}
	return fmt.Sprintf("%s│%s %+4.0f", left, right, cmd)
}

// errorStyle grades an odometry error in inches.
func (s styles) errorStyle(in float64) lipgloss.Style {
	switch {
	case in < 1:
		return s.good
	case in < 4:
		return s.warn
	default:
		return s.bad
	}
}
