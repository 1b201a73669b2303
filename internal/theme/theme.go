// Package theme provides color themes for component trees.
//
// A theme is a small palette of named colors. Applying it to a container
// rewrites the default style of every component in the subtree.
package theme

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// ErrUnknownTheme is returned when looking up a theme that is not registered.
var ErrUnknownTheme = errors.New("unknown theme")

// ColorTheme is a named palette.
type ColorTheme struct {
	Name                string
	PrimaryForeground   core.Color
	SecondaryForeground core.Color
	PrimaryBackground   core.Color
	SecondaryBackground core.Color
	Accent              core.Color
}

// DarkForeground is the foreground used for container chrome.
func (t ColorTheme) DarkForeground() core.Color { return t.SecondaryForeground }

// DarkBackground is the background used for container chrome.
func (t ColorTheme) DarkBackground() core.Color { return t.SecondaryBackground }

// String implements fmt.Stringer.
func (t ColorTheme) String() string {
	return fmt.Sprintf("%s(fg:%s/%s bg:%s/%s accent:%s)", t.Name,
		t.PrimaryForeground, t.SecondaryForeground,
		t.PrimaryBackground, t.SecondaryBackground, t.Accent)
}

func mustTheme(name, pfg, sfg, pbg, sbg, accent string) ColorTheme {
	return ColorTheme{
		Name:                name,
		PrimaryForeground:   core.MustColorFromHex(pfg),
		SecondaryForeground: core.MustColorFromHex(sfg),
		PrimaryBackground:   core.MustColorFromHex(pbg),
		SecondaryBackground: core.MustColorFromHex(sbg),
		Accent:              core.MustColorFromHex(accent),
	}
}

// Built-in themes.
var (
	Cyberpunk      = mustTheme("cyberpunk", "#dc2a4e", "#c32e4c", "#1e1e28", "#14141c", "#f4ee3a")
	SolarizedDark  = mustTheme("solarized-dark", "#eee8d5", "#93a1a1", "#073642", "#002b36", "#b58900")
	SolarizedLight = mustTheme("solarized-light", "#073642", "#586e75", "#eee8d5", "#fdf6e3", "#cb4b16")
	Gamebook       = mustTheme("gamebook", "#f2d3ab", "#c69fa5", "#494d7e", "#272744", "#8b6d9c")
	Monochrome     = mustTheme("monochrome", "#ffffff", "#c0c0c0", "#202020", "#000000", "#808080")
)

var builtins = map[string]ColorTheme{
	Cyberpunk.Name:      Cyberpunk,
	SolarizedDark.Name:  SolarizedDark,
	SolarizedLight.Name: SolarizedLight,
	Gamebook.Name:       Gamebook,
	Monochrome.Name:     Monochrome,
}

// Lookup returns the built-in theme with the given name.
func Lookup(name string) (ColorTheme, error) {
	t, ok := builtins[name]
	if !ok {
		return ColorTheme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// Names returns the built-in theme names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(builtins))
}
