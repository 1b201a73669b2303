package surface

import "github.com/dshills/tilegrid/internal/renderer/core"

// Snapshot is a frozen point-in-time view of a Surface.
// The zero value is an empty snapshot of zero size.
type Snapshot struct {
	size  core.Size
	tiles map[core.Position]core.Tile
}

// Size returns the bounds of the surface at snapshot time.
func (s Snapshot) Size() core.Size {
	return s.size
}

// Len returns the number of non-empty tiles.
func (s Snapshot) Len() int {
	return len(s.tiles)
}

// TileAt returns the tile at pos, or false if the cell is empty or out of bounds.
func (s Snapshot) TileAt(pos core.Position) (core.Tile, bool) {
	t, ok := s.tiles[pos]
	return t, ok
}

// EachTile implements Drawable. Iteration is row-major.
func (s Snapshot) EachTile(fn func(pos core.Position, tile core.Tile)) {
	eachSorted(s.tiles, fn)
}

// Equal returns true if both snapshots have the same size and tiles.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.size != other.size || len(s.tiles) != len(other.tiles) {
		return false
	}
	for pos, t := range s.tiles {
		o, ok := other.tiles[pos]
		if !ok || !o.Equals(t) {
			return false
		}
	}
	return true
}
