package tui

import (
	table "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"primal/internal/compose"
)

// Chrome shared by every palette.
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	borderCol = lipgloss.Color("#243141")

	appStyle = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	dimStyle = lipgloss.NewStyle().Foreground(baseDimFg)
)

// fallbackAccent replaces spiral line colors too dark to read as text.
const fallbackAccent = lipgloss.Color("#7C3AED")

// theme holds the styles that follow the spiral palette.
type theme struct {
	accentFg lipgloss.Color
	title    lipgloss.Style
	accent   lipgloss.Style
	table    table.Styles
}

// themeFor takes the accent from the path layer of rc.
func themeFor(rc compose.RenderConfig) theme {
	fg := fallbackAccent
	if c := rgba8(rc.Styles[compose.Path].Color); luma(c) > 0x40 {
		fg = lipgloss.Color(hexColor(c))
	}
	ts := table.DefaultStyles()
	ts.Header = ts.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(borderCol).BorderBottom(true).Bold(true)
	ts.Selected = ts.Selected.Foreground(fg).Bold(true)
	return theme{
		accentFg: fg,
		title:    lipgloss.NewStyle().Foreground(fg).Bold(true),
		accent:   lipgloss.NewStyle().Foreground(fg),
		table:    ts,
	}
}
