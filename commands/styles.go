package commands

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	label     lipgloss.Style
	dim       lipgloss.Style
	barFilled lipgloss.Style
	barEmpty  lipgloss.Style
	done      lipgloss.Style
	errorText lipgloss.Style
}

func newStyles() styles {
	accentColor := lipgloss.Color("#FF87D7")
	barColor := lipgloss.Color("#FF8700")
	dimColor := lipgloss.Color("#6C6C6C")

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor),

		header: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		label: lipgloss.NewStyle().
			Foreground(accentColor),

		dim: lipgloss.NewStyle().
			Foreground(dimColor),

		barFilled: lipgloss.NewStyle().
			Foreground(barColor),

		barEmpty: lipgloss.NewStyle().
			Foreground(dimColor),

		done: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FD75F")),

		errorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")),
	}
}
