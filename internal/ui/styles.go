package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	colorRed    = lipgloss.Color("#FF5555")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorGray   = lipgloss.Color("#666666")
	colorWhite  = lipgloss.Color("#F8F8F2")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	recordingDotStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	playingStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	idleDotStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	recordedMarkStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	pendingMarkStyle = lipgloss.NewStyle().
				Foreground(colorGray)

	cursorRowStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Bold(true)

	dimRowStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray)
)
