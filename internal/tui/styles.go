package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Foreground(colorText)

	headerAppStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	headerBarStyle = lipgloss.NewStyle().
			Background(colorMantle).
			Foreground(colorText)
	crumbStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorMantle)

	footerStyle = lipgloss.NewStyle().
			Background(colorMantle)
	footerActionStyle = lipgloss.NewStyle().
				Background(colorBrand).
				Foreground(lipgloss.Color("#ffffff")).
				Bold(true).
				Padding(0, 1)

	titleStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	selectedStyle = lipgloss.NewStyle().Background(colorSurface0).Foreground(colorAccent)

	modalTitleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	modalButtonStyle = lipgloss.NewStyle().
				Background(colorBrand).
				Foreground(lipgloss.Color("#ffffff")).
				Padding(0, 2)
	modalCloseStyle = lipgloss.NewStyle().Foreground(colorAccent).Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	focusedFieldStyle = fieldStyle.BorderForeground(colorBrand)
)
