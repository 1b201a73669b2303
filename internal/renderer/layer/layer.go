// Package layer provides the compositing planes the renderers walk.
package layer

import (
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/surface"
)

// Layer is an immutable, offset snapshot of a surface prepared for compositing.
// A fresh Layer is produced for every frame; layers are never mutated.
type Layer struct {
	snapshot surface.Snapshot
	offset   core.Position
	tileset  core.TilesetResource
}

// New creates a layer from a snapshot placed at offset.
// Pass core.NoTileset to render with the grid's tileset.
func New(snapshot surface.Snapshot, offset core.Position, tileset core.TilesetResource) Layer {
	return Layer{snapshot: snapshot, offset: offset, tileset: tileset}
}

// FromSurface snapshots s and wraps it in a layer.
func FromSurface(s *surface.Surface, offset core.Position, tileset core.TilesetResource) Layer {
	return New(s.Snapshot(), offset, tileset)
}

// Offset returns the grid position of the layer's top-left cell.
func (l Layer) Offset() core.Position {
	return l.offset
}

// Size returns the size of the layer's surface.
func (l Layer) Size() core.Size {
	return l.snapshot.Size()
}

// Bounds returns the grid region the layer covers.
func (l Layer) Bounds() core.Rect {
	return l.snapshot.Size().Rect(l.offset)
}

// Tileset returns the layer's tileset override, if any.
func (l Layer) Tileset() (core.TilesetResource, bool) {
	return l.tileset, !l.tileset.IsZero()
}

// Snapshot returns the layer contents in layer-local coordinates.
func (l Layer) Snapshot() surface.Snapshot {
	return l.snapshot
}

// Len returns the number of non-empty tiles.
func (l Layer) Len() int {
	return l.snapshot.Len()
}

// TileAt returns the tile at an absolute grid position.
func (l Layer) TileAt(pos core.Position) (core.Tile, bool) {
	return l.snapshot.TileAt(pos.Sub(l.offset))
}

// EachTile calls fn with absolute grid positions, row-major.
func (l Layer) EachTile(fn func(pos core.Position, tile core.Tile)) {
	l.snapshot.EachTile(func(pos core.Position, tile core.Tile) {
		fn(pos.Add(l.offset), tile)
	})
}

// WithOffset returns a copy placed at offset.
func (l Layer) WithOffset(offset core.Position) Layer {
	l.offset = offset
	return l
}
