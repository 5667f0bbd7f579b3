// Package tui provides the interactive availability picker.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/rendezvous/internal/tui/theme"
)

const (
	timeColWidth = 9
	minColWidth  = 9
	maxColWidth  = 16
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle    lipgloss.Style
	ModifiedStyle lipgloss.Style

	// Header styles
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style

	// Cell styles
	EmptyCellStyle lipgloss.Style
	MineStyle      lipgloss.Style
	HeatStyles     [theme.HeatLevels]lipgloss.Style
	CursorStyle    lipgloss.Style

	// Footer
	LegendStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style
	PromptStyle lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)

	s := &Styles{palette: p}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.Bg).
		Padding(0, 1)
	s.ModifiedStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Background(p.Bg)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.Bg).
		Align(lipgloss.Center)
	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(p.Accent)
	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg).
		Width(timeColWidth)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.BgHighlight)
	s.MineStyle = lipgloss.NewStyle().
		Foreground(p.TextOnAvailable).
		Background(p.Available)
	for k := range s.HeatStyles {
		s.HeatStyles[k] = lipgloss.NewStyle().
			Foreground(p.TextOnHeat[k]).
			Background(p.Heat[k])
	}
	s.CursorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnSelection).
		Background(p.BgSelection)

	s.LegendStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg).
		Padding(0, 1)
	s.StatusStyle = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.Bg).
		Padding(0, 1)
	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Background(p.Bg).
		Padding(0, 1)
	s.HelpStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg).
		Padding(0, 1)
	s.PromptStyle = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.BgHighlight).
		Padding(0, 1)

	return s
}

// Bg returns the base background color.
func (s *Styles) Bg() lipgloss.Color {
	return s.palette.Bg
}

// CellStyle picks the style of a grid cell. With the heat map on, the cell is
// shaded by how many participants are available; otherwise only the local
// participant's selection is highlighted.
func (s *Styles) CellStyle(mine bool, shade int, heat, cursor bool) lipgloss.Style {
	switch {
	case cursor:
		return s.CursorStyle
	case heat:
		return s.HeatStyles[shade]
	case mine:
		return s.MineStyle
	default:
		return s.EmptyCellStyle
	}
}
