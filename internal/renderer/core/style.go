package core

import "strings"

// Modifier is a set of visual modifiers applied to a tile.
// Individual modifiers are single bits; a Modifier value with several bits
// set represents the set of those modifiers.
type Modifier uint16

// Tile modifier flags.
const (
	ModNone       Modifier = 0
	ModBold       Modifier = 1 << iota
	ModItalic              // Slanted glyph
	ModUnderline           // Line under the glyph
	ModCrossedOut          // Line through the glyph
	ModBlink               // Blinking (terminal backends only)
	ModHidden              // Glyph not drawn, background kept
	ModReverse             // Swap foreground and background
	ModVerticalFlip        // Mirror the texture top to bottom
	ModHorizontalFlip      // Mirror the texture left to right
)

// modifierNames is ordered by bit so String and cache keys stay stable.
var modifierNames = []struct {
	mod  Modifier
	name string
}{
	{ModBold, "BOLD"},
	{ModItalic, "ITALIC"},
	{ModUnderline, "UNDERLINE"},
	{ModCrossedOut, "CROSSED_OUT"},
	{ModBlink, "BLINK"},
	{ModHidden, "HIDDEN"},
	{ModReverse, "REVERSE"},
	{ModVerticalFlip, "VERTICAL_FLIP"},
	{ModHorizontalFlip, "HORIZONTAL_FLIP"},
}

// Has returns true if the set contains every modifier in mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod == mod && mod != ModNone
}

// With returns a new set with the given modifiers added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new set with the given modifiers removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// Names returns the modifier names in canonical order.
func (m Modifier) Names() []string {
	names := make([]string, 0, len(modifierNames))
	for _, mn := range modifierNames {
		if m&mn.mod != 0 {
			names = append(names, mn.name)
		}
	}
	return names
}

// String returns the set formatted as "[A,B]".
func (m Modifier) String() string {
	return "[" + strings.Join(m.Names(), ",") + "]"
}

// ParseModifier returns the modifier with the given name.
func ParseModifier(name string) (Modifier, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, mn := range modifierNames {
		if mn.name == upper {
			return mn.mod, true
		}
	}
	return ModNone, false
}

// StyleSet is the immutable color and modifier bundle of a tile.
type StyleSet struct {
	Foreground Color
	Background Color
	Modifiers  Modifier
}

// DefaultStyle returns the style with inherited colors and no modifiers.
func DefaultStyle() StyleSet {
	return StyleSet{
		Foreground: ColorDefault,
		Background: ColorDefault,
		Modifiers:  ModNone,
	}
}

// NewStyle creates a style with the given colors.
func NewStyle(fg, bg Color) StyleSet {
	return StyleSet{Foreground: fg, Background: bg}
}

// WithForeground returns a new style with the given foreground color.
func (s StyleSet) WithForeground(fg Color) StyleSet {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s StyleSet) WithBackground(bg Color) StyleSet {
	s.Background = bg
	return s
}

// WithModifiers returns a new style with the given modifiers added.
func (s StyleSet) WithModifiers(mods ...Modifier) StyleSet {
	for _, m := range mods {
		s.Modifiers = s.Modifiers.With(m)
	}
	return s
}

// WithoutModifiers returns a new style with the given modifiers removed.
func (s StyleSet) WithoutModifiers(mods ...Modifier) StyleSet {
	for _, m := range mods {
		s.Modifiers = s.Modifiers.Without(m)
	}
	return s
}

// WithExactModifiers returns a new style whose modifier set is replaced.
func (s StyleSet) WithExactModifiers(mods Modifier) StyleSet {
	s.Modifiers = mods
	return s
}

// Merge combines two styles.
// The other style takes precedence for non-default colors.
// Modifiers are OR'd together.
func (s StyleSet) Merge(other StyleSet) StyleSet {
	result := s
	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Modifiers |= other.Modifiers
	return result
}

// Equals returns true if two styles are identical.
func (s StyleSet) Equals(other StyleSet) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Modifiers == other.Modifiers
}

// IsDefault returns true if this is the default style.
func (s StyleSet) IsDefault() bool {
	return s.Equals(DefaultStyle())
}

// Invert returns a style with foreground and background swapped.
func (s StyleSet) Invert() StyleSet {
	return StyleSet{
		Foreground: s.Background,
		Background: s.Foreground,
		Modifiers:  s.Modifiers,
	}
}

// CacheKey returns a deterministic encoding of every field.
// Equal styles always produce equal keys.
func (s StyleSet) CacheKey() string {
	var b strings.Builder
	b.Grow(48)
	b.WriteString("fg:")
	b.WriteString(s.Foreground.String())
	b.WriteString(",bg:")
	b.WriteString(s.Background.String())
	b.WriteString(",m:")
	b.WriteString(s.Modifiers.String())
	return b.String()
}

// String implements fmt.Stringer.
func (s StyleSet) String() string {
	return s.CacheKey()
}
