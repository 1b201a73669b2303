package core

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGB color value.
type Color struct {
	R, G, B uint8
	// Default indicates the color is inherited from whatever is below.
	// A default background renders as transparent.
	Default bool
}

// ColorDefault represents the inherited/transparent color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack   = Color{R: 0, G: 0, B: 0}
	ColorWhite   = Color{R: 255, G: 255, B: 255}
	ColorRed     = Color{R: 255, G: 0, B: 0}
	ColorGreen   = Color{R: 0, G: 255, B: 0}
	ColorBlue    = Color{R: 0, G: 0, B: 255}
	ColorYellow  = Color{R: 255, G: 255, B: 0}
	ColorCyan    = Color{R: 0, G: 255, B: 255}
	ColorMagenta = Color{R: 255, G: 0, B: 255}
	ColorGray    = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex creates a color from a hex string.
// Supports formats: "#RGB", "#RRGGBB", "RGB", "RRGGBB".
func ColorFromHex(hex string) (Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	return fromColorful(c), nil
}

// MustColorFromHex is like ColorFromHex but panics on malformed input.
// Intended for package-level color tables.
func MustColorFromHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return c.ToHex()
}

// ToHex returns the lowercase "#rrggbb" form of the color.
func (c Color) ToHex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA converts the color to an opaque color.RGBA.
// The default color converts to fully transparent.
func (c Color) RGBA() color.RGBA {
	if c.Default {
		return color.RGBA{}
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Or returns c unless it is the default color, in which case fallback is returned.
func (c Color) Or(fallback Color) Color {
	if c.Default {
		return fallback
	}
	return c
}

// Lighten returns a lighter version of the color.
// amount is in [0, 1]; 1 yields white.
func (c Color) Lighten(amount float64) Color {
	if c.Default {
		return c
	}
	return c.Blend(ColorWhite, amount)
}

// Darken returns a darker version of the color.
// amount is in [0, 1]; 1 yields black.
func (c Color) Darken(amount float64) Color {
	if c.Default {
		return c
	}
	return c.Blend(ColorBlack, amount)
}

// Blend blends two colors in RGB space.
// amount 0 returns c, 1 returns other.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Default {
		return other
	}
	if other.Default {
		return c
	}
	amount = min(max(amount, 0), 1)
	return fromColorful(c.colorful().BlendRgb(other.colorful(), amount))
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}
