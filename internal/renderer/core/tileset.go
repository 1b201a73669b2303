package core

import "fmt"

// TilesetKind identifies what a tileset renders.
type TilesetKind uint8

const (
	// CharacterTileset renders character tiles (fonts, CP437 sheets).
	CharacterTileset TilesetKind = iota + 1
	// GraphicTileset renders named image tiles.
	GraphicTileset
)

// String returns the kind name.
func (k TilesetKind) String() string {
	switch k {
	case CharacterTileset:
		return "character"
	case GraphicTileset:
		return "graphic"
	default:
		return "none"
	}
}

// TilesetResource describes a tileset without loading it.
// The zero value means "no tileset" and is inherited from the container.
type TilesetResource struct {
	ID     string
	Kind   TilesetKind
	Width  int // cell width in pixels
	Height int // cell height in pixels
}

// NoTileset is the "inherit from container" resource.
var NoTileset = TilesetResource{}

// NewTilesetResource creates a tileset resource descriptor.
func NewTilesetResource(id string, kind TilesetKind, width, height int) TilesetResource {
	return TilesetResource{ID: id, Kind: kind, Width: width, Height: height}
}

// IsZero returns true for NoTileset.
func (r TilesetResource) IsZero() bool {
	return r.ID == ""
}

// SameSize returns true if both resources use the same cell pixel size.
func (r TilesetResource) SameSize(other TilesetResource) bool {
	return r.Width == other.Width && r.Height == other.Height
}

// String implements fmt.Stringer.
func (r TilesetResource) String() string {
	if r.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s(%s %dx%d)", r.ID, r.Kind, r.Width, r.Height)
}
