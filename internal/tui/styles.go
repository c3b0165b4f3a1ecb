package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan    = lipgloss.Color("#00FFFF")
	colorYellow  = lipgloss.Color("#FFFF00")
	colorGreen   = lipgloss.Color("#00FF00")
	colorRed     = lipgloss.Color("#FF0000")
	colorMagenta = lipgloss.Color("#FF00FF")
	colorGray    = lipgloss.Color("#666666")
	colorDimGray = lipgloss.Color("#444444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	activeLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorYellow)

	inactiveLabelStyle = lipgloss.NewStyle().
				Foreground(colorGray)

	waveStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	rangeStyle = lipgloss.NewStyle().
			Foreground(colorMagenta)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	startMarkStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	endMarkStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	footerDescStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorDimGray)
)
