package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// fileTheme is the YAML form of a theme. Empty colors fall back to the
// base theme.
type fileTheme struct {
	Name                string `yaml:"name"`
	Base                string `yaml:"base"`
	PrimaryForeground   string `yaml:"primary_foreground"`
	SecondaryForeground string `yaml:"secondary_foreground"`
	PrimaryBackground   string `yaml:"primary_background"`
	SecondaryBackground string `yaml:"secondary_background"`
	Accent              string `yaml:"accent"`
}

// ParseError describes an invalid theme file.
type ParseError struct {
	Path  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("theme %s: %s: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("theme %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes a YAML theme. A "base" key names a built-in theme whose
// colors fill in the ones left out.
//
//	name: ocean
//	base: solarized-dark
//	accent: "#2aa198"
func Parse(data []byte, path string) (ColorTheme, error) {
	var ft fileTheme
	if err := yaml.Unmarshal(data, &ft); err != nil {
		return ColorTheme{}, &ParseError{Path: path, Err: err}
	}

	t := Monochrome
	if ft.Base != "" {
		base, err := Lookup(ft.Base)
		if err != nil {
			return ColorTheme{}, &ParseError{Path: path, Field: "base", Err: err}
		}
		t = base
	}
	t.Name = ft.Name
	if t.Name == "" {
		t.Name = path
	}

	fields := []struct {
		name  string
		value string
		dst   *core.Color
	}{
		{"primary_foreground", ft.PrimaryForeground, &t.PrimaryForeground},
		{"secondary_foreground", ft.SecondaryForeground, &t.SecondaryForeground},
		{"primary_background", ft.PrimaryBackground, &t.PrimaryBackground},
		{"secondary_background", ft.SecondaryBackground, &t.SecondaryBackground},
		{"accent", ft.Accent, &t.Accent},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		c, err := core.ColorFromHex(f.value)
		if err != nil {
			return ColorTheme{}, &ParseError{Path: path, Field: f.name, Err: err}
		}
		*f.dst = c
	}
	return t, nil
}

// LoadFile reads a YAML theme from path.
func LoadFile(path string) (ColorTheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ColorTheme{}, &ParseError{Path: path, Err: err}
	}
	return Parse(data, path)
}

// Resolve returns the built-in theme called name, or loads it from file when
// file is set.
func Resolve(name, file string) (ColorTheme, error) {
	if file != "" {
		return LoadFile(file)
	}
	return Lookup(name)
}
