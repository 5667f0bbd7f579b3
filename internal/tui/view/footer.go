package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW     int
	LegendLine string
	PromptLine string
	StatusLine string
	HelpLine   string
	Bg         lipgloss.Color
}

// RenderFooter stacks legend, prompt, status, and help lines. Empty sections
// are skipped, except status which always keeps its row.
func RenderFooter(state FooterViewState) string {
	lines := make([]string, 0, 4)
	if state.LegendLine != "" {
		lines = append(lines, state.LegendLine)
	}
	if state.PromptLine != "" {
		lines = append(lines, state.PromptLine)
	}
	lines = append(lines, state.StatusLine)
	if state.HelpLine != "" {
		lines = append(lines, state.HelpLine)
	}
	return PlaceBox(state.InnerW, FooterHeight(state), lipgloss.Bottom, strings.Join(lines, "\n"), state.Bg)
}

// FooterHeight returns how many rows RenderFooter uses for state.
func FooterHeight(state FooterViewState) int {
	h := 1
	for _, section := range []string{state.LegendLine, state.PromptLine, state.HelpLine} {
		if section != "" {
			h += strings.Count(section, "\n") + 1
		}
	}
	return h
}
