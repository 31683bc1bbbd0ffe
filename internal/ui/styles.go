package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/waveplay/internal/visualizer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	artistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#AAAAAA"})

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))
)

// accentStyle colours the header with the mode's palette. A beat swaps in
// the brighter accent for one frame.
func accentStyle(mode visualizer.Mode, beat bool) lipgloss.Style {
	p := visualizer.PaletteFor(mode)
	c := p.Primary
	if beat {
		c = p.Accent
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.RGB.Hex()))
}
