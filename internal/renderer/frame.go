package renderer

import (
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/layer"
	"github.com/dshills/tilegrid/internal/renderer/surface"
)

// Frame is everything needed to draw one image of a grid.
// All of its contents are immutable snapshots.
type Frame struct {
	// Tileset is the grid tileset, used by layers without their own.
	Tileset core.TilesetResource

	// Size is the grid size in cells.
	Size core.Size

	// Root is the grid surface, drawn first.
	Root surface.Snapshot

	// Layers are drawn after Root, back to front.
	Layers []layer.Layer
}

// Source captures frames.
type Source interface {
	Frame() Frame
}

// EachLayer calls fn for the root surface and then every layer, in paint
// order.
func (f Frame) EachLayer(fn func(l layer.Layer)) {
	fn(layer.New(f.Root, core.Origin, f.Tileset))
	for _, l := range f.Layers {
		fn(l)
	}
}

// PixelSize returns the frame size in pixels for the grid tileset.
func (f Frame) PixelSize() (width, height int) {
	return f.Size.Width * f.Tileset.Width, f.Size.Height * f.Tileset.Height
}
