package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestPadLinesWithBackground(t *testing.T) {
	got := PadLinesWithBackground("ab\ncdef", 4, 3, lipgloss.Color(""))
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 4 {
			t.Errorf("line %d width = %d, want 4", i, w)
		}
	}
}

func TestPadLinesWithBackground_TruncatesWideLines(t *testing.T) {
	got := PadLinesWithBackground("abcdefgh", 4, 1, lipgloss.Color(""))
	if ansi.Strip(got) != "abcd" {
		t.Errorf("got %q, want %q", ansi.Strip(got), "abcd")
	}
}

func TestFitLine(t *testing.T) {
	style := lipgloss.NewStyle().Padding(0, 1)

	got := ansi.Strip(FitLine(8, style, "a long status message"))
	if lipgloss.Width(got) != 8 {
		t.Fatalf("width = %d, want 8", lipgloss.Width(got))
	}
	if !strings.HasSuffix(strings.TrimRight(got, " "), "…") {
		t.Errorf("got %q, want ellipsis", got)
	}

	short := ansi.Strip(FitLine(8, style, "ok"))
	if strings.TrimSpace(short) != "ok" {
		t.Errorf("got %q, want ok", short)
	}
}

func TestRenderFooter(t *testing.T) {
	state := FooterViewState{
		InnerW:     20,
		StatusLine: "saved",
		HelpLine:   "q quit",
	}
	if h := FooterHeight(state); h != 2 {
		t.Fatalf("FooterHeight = %d, want 2", h)
	}

	lines := strings.Split(ansi.Strip(RenderFooter(state)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if strings.TrimSpace(lines[0]) != "saved" || strings.TrimSpace(lines[1]) != "q quit" {
		t.Errorf("lines = %q", lines)
	}

	state.LegendLine = "legend"
	state.PromptLine = "> /add"
	if h := FooterHeight(state); h != 4 {
		t.Errorf("FooterHeight = %d, want 4", h)
	}
}

func TestFooterHeight_MultilineHelp(t *testing.T) {
	state := FooterViewState{
		InnerW:     20,
		StatusLine: " ",
		HelpLine:   "a up\nb down\nc left",
	}
	if h := FooterHeight(state); h != 4 {
		t.Fatalf("FooterHeight = %d, want 4", h)
	}
	if got := strings.Count(RenderFooter(state), "\n") + 1; got != 4 {
		t.Errorf("rendered rows = %d, want 4", got)
	}
}
