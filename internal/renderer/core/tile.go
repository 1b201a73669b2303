package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TileKind identifies the visual payload of a tile.
type TileKind uint8

const (
	// TileEmpty is the transparent marker. Surfaces never store it and the
	// renderers paint nothing for it.
	TileEmpty TileKind = iota
	// TileCharacter carries a single character.
	TileCharacter
	// TileGraphic carries a named image reference.
	TileGraphic
)

// String returns the kind name.
func (k TileKind) String() string {
	switch k {
	case TileCharacter:
		return "character"
	case TileGraphic:
		return "graphic"
	default:
		return "empty"
	}
}

// Tile is the immutable unit of visual content on a grid.
// Two tiles with equal fields are interchangeable; nothing depends on identity.
type Tile struct {
	Kind TileKind

	// Char is the character of a TileCharacter.
	Char rune

	// Name is the image name of a TileGraphic.
	Name string

	Style StyleSet

	// Tileset optionally overrides the tileset of the surface the tile sits on.
	Tileset TilesetResource
}

// EmptyTile returns the transparent marker tile.
func EmptyTile() Tile {
	return Tile{Kind: TileEmpty, Style: DefaultStyle()}
}

// NewCharacterTile creates a character tile with the given style.
func NewCharacterTile(ch rune, style StyleSet) Tile {
	return Tile{Kind: TileCharacter, Char: ch, Style: style}
}

// NewGraphicTile creates an image tile referencing name in a graphic tileset.
func NewGraphicTile(name string, style StyleSet) Tile {
	return Tile{Kind: TileGraphic, Name: name, Style: style}
}

// IsEmpty returns true for the transparent marker.
func (t Tile) IsEmpty() bool {
	return t.Kind == TileEmpty
}

// HasTilesetOverride returns true if the tile carries its own tileset.
func (t Tile) HasTilesetOverride() bool {
	return !t.Tileset.IsZero()
}

// WithForeground returns a copy with the foreground color replaced.
func (t Tile) WithForeground(fg Color) Tile {
	t.Style = t.Style.WithForeground(fg)
	return t
}

// WithBackground returns a copy with the background color replaced.
func (t Tile) WithBackground(bg Color) Tile {
	t.Style = t.Style.WithBackground(bg)
	return t
}

// WithStyle returns a copy with the style replaced.
func (t Tile) WithStyle(style StyleSet) Tile {
	t.Style = style
	return t
}

// WithModifiers returns a copy with the modifiers added.
func (t Tile) WithModifiers(mods ...Modifier) Tile {
	t.Style = t.Style.WithModifiers(mods...)
	return t
}

// WithoutModifiers returns a copy with the modifiers removed.
func (t Tile) WithoutModifiers(mods ...Modifier) Tile {
	t.Style = t.Style.WithoutModifiers(mods...)
	return t
}

// WithCharacter returns a character tile with the same style and tileset.
func (t Tile) WithCharacter(ch rune) Tile {
	t.Kind = TileCharacter
	t.Char = ch
	t.Name = ""
	return t
}

// WithTileset returns a copy rendered with the given tileset.
// Pass NoTileset to drop an override.
func (t Tile) WithTileset(res TilesetResource) Tile {
	t.Tileset = res
	return t
}

// Equals returns true if two tiles are structurally identical.
func (t Tile) Equals(other Tile) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case TileEmpty:
		return true
	case TileCharacter:
		if t.Char != other.Char {
			return false
		}
	case TileGraphic:
		if t.Name != other.Name {
			return false
		}
	}
	return t.Style.Equals(other.Style) && t.Tileset == other.Tileset
}

// CacheKey returns a deterministic key composed of the payload, the style's
// key and the tileset override, used to memoize textures.
func (t Tile) CacheKey() string {
	var b strings.Builder
	switch t.Kind {
	case TileEmpty:
		return "e"
	case TileCharacter:
		b.Grow(64)
		b.WriteString("c:")
		if utf8.ValidRune(t.Char) {
			b.WriteRune(t.Char)
		} else {
			// Invalid runes are keyed by value so distinct ones stay distinct.
			fmt.Fprintf(&b, "%U", t.Char)
		}
	case TileGraphic:
		b.Grow(64 + len(t.Name))
		b.WriteString("g:")
		b.WriteString(t.Name)
	}
	b.WriteString(",s:{")
	b.WriteString(t.Style.CacheKey())
	b.WriteString("}")
	if t.HasTilesetOverride() {
		b.WriteString(",t:")
		b.WriteString(t.Tileset.ID)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (t Tile) String() string {
	return t.CacheKey()
}
