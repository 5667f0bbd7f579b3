// Package theme provides color themes for the picker.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "mocha"

var (
	ErrUnknownTheme = errors.New("unknown theme")
	ErrInvalidColor = errors.New("theme color must be #rrggbb")
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds the colors of the picker. Heat colors are blended into the
// five count shades by NewPalette.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // empty cells
	BgSelection string `toml:"bg_selection"` // cursor
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"`
	Accent      string `toml:"accent"`
	Available   string `toml:"available"` // the local participant's slots
	Heat        string `toml:"heat"`      // everyone available
	HeatLow     string `toml:"heat_low"`  // one participant available
	Warning     string `toml:"warning"`   // unsaved edits
}

// Names lists the embedded themes in alphabetical order.
func Names() []string {
	files, _ := fs.Glob(embeddedThemes, "embedded/*.toml")
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(path.Base(f), ".toml"))
	}
	slices.Sort(names)
	return names
}

// Has reports whether name is an embedded theme, ignoring case.
func Has(name string) bool {
	return slices.Contains(Names(), strings.ToLower(strings.TrimSpace(name)))
}

// Load parses the embedded theme called name. An empty name loads
// DefaultName.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTheme, name, strings.Join(Names(), ", "))
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	t.applyDefaults()
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	return &t, nil
}

// Default returns the default theme. The embedded files are fixed at build
// time, so a failure here is a programming error.
func Default() *Theme {
	t, err := Load(DefaultName)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Theme) applyDefaults() {
	if t.BgSelection == "" {
		t.BgSelection = firstSet(t.BgHighlight, t.Bg)
	}
	if t.Available == "" {
		t.Available = t.Accent
	}
	if t.Heat == "" {
		t.Heat = t.Available
	}
	if t.HeatLow == "" {
		t.HeatLow = blendColors(t.Heat, t.Bg, 0.7)
	}
	if t.Warning == "" {
		t.Warning = t.Accent
	}
}

func (t *Theme) validate() error {
	colors := []struct{ field, value string }{
		{"bg", t.Bg},
		{"bg_highlight", t.BgHighlight},
		{"bg_selection", t.BgSelection},
		{"fg", t.Fg},
		{"fg_muted", t.FgMuted},
		{"accent", t.Accent},
		{"available", t.Available},
		{"heat", t.Heat},
		{"heat_low", t.HeatLow},
		{"warning", t.Warning},
	}
	for _, c := range colors {
		if !isHexColor(c.value) {
			return fmt.Errorf("%w: %s = %q", ErrInvalidColor, c.field, c.value)
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
