package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/rendezvous/internal/tui/theme"
)

// Color definitions for consistent styling across the UI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Best times: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Own availability
	colorSelected = color.New(color.FgCyan, color.Bold)
)

// heatColors shade overlap cells from nobody to everyone.
var heatColors = [theme.HeatLevels]*color.Color{
	color.New(color.FgWhite, color.Faint),
	color.New(color.BgBlue, color.FgWhite),
	color.New(color.BgCyan, color.FgBlack),
	color.New(color.BgGreen, color.FgBlack),
	color.New(color.BgHiGreen, color.FgBlack, color.Bold),
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatInsight formats text for highlighted results.
func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatSelected formats the local participant's ranges.
func formatSelected(s string) string {
	return colorSelected.Sprint(s)
}

// formatHeat shades s by how many of total participants are available.
func formatHeat(s string, count, total int) string {
	return heatColors[theme.HeatShade(count, total)].Sprint(s)
}
