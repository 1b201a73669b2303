// Package surface provides the mutable tile buffer components paint onto,
// and the immutable snapshots the renderers read from.
package surface

import (
	"maps"
	"slices"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// Drawable is anything whose tiles can be drawn onto a Surface.
type Drawable interface {
	Size() core.Size
	// EachTile calls fn for every non-empty tile, in row-major order.
	EachTile(fn func(pos core.Position, tile core.Tile))
}

// Surface is a sparse, bounded mapping from position to tile.
// Positions outside the bounds are never stored: writes there are no-ops
// and reads return no tile.
//
// Snapshots share the underlying map until the next write (copy-on-write),
// so taking a snapshot of an untouched surface is free.
type Surface struct {
	size    core.Size
	tiles   map[core.Position]core.Tile
	shared  bool
	version uint64
}

// New creates an empty surface with the given size.
func New(size core.Size) *Surface {
	return &Surface{
		size:  core.NewSize(size.Width, size.Height),
		tiles: make(map[core.Position]core.Tile),
	}
}

// Size returns the surface bounds.
func (s *Surface) Size() core.Size {
	return s.size
}

// Version returns a counter incremented by every mutation.
func (s *Surface) Version() uint64 {
	return s.version
}

// Len returns the number of non-empty tiles.
func (s *Surface) Len() int {
	return len(s.tiles)
}

// mutate prepares the map for writing, cloning it if a snapshot holds it.
func (s *Surface) mutate() {
	if s.shared {
		s.tiles = maps.Clone(s.tiles)
		s.shared = false
	}
	s.version++
}

// SetTileAt stores tile at pos. Writing the empty tile clears the cell.
// Returns false (and changes nothing) if pos is outside the bounds.
func (s *Surface) SetTileAt(pos core.Position, tile core.Tile) bool {
	if !s.size.Contains(pos) {
		return false
	}
	if tile.IsEmpty() {
		if _, ok := s.tiles[pos]; !ok {
			return true
		}
		s.mutate()
		delete(s.tiles, pos)
		return true
	}
	if cur, ok := s.tiles[pos]; ok && cur.Equals(tile) {
		return true
	}
	s.mutate()
	s.tiles[pos] = tile
	return true
}

// TileAt returns the tile at pos.
// Returns false for empty cells and positions outside the bounds.
func (s *Surface) TileAt(pos core.Position) (core.Tile, bool) {
	t, ok := s.tiles[pos]
	return t, ok
}

// EachTile implements Drawable.
func (s *Surface) EachTile(fn func(pos core.Position, tile core.Tile)) {
	eachSorted(s.tiles, fn)
}

// Draw overlays every tile of src onto the surface translated by offset.
// Target positions outside the bounds are clipped silently and empty
// source cells leave the underlying tile untouched. A surface may be drawn
// onto itself; the tiles are read as they were before the draw.
func (s *Surface) Draw(src Drawable, offset core.Position) {
	if self, ok := src.(*Surface); ok && self == s {
		src = s.Snapshot()
	}
	src.EachTile(func(pos core.Position, tile core.Tile) {
		if tile.IsEmpty() {
			return
		}
		s.SetTileAt(pos.Add(offset), tile)
	})
}

// Fill sets every cell of the surface to tile.
func (s *Surface) Fill(tile core.Tile) {
	s.FillRect(s.size.Rect(core.Origin), tile)
}

// FillRect sets every cell of rect (clipped to the bounds) to tile.
func (s *Surface) FillRect(rect core.Rect, tile core.Tile) {
	clip := rect.Intersection(s.size.Rect(core.Origin))
	for y := clip.Top(); y < clip.Bottom(); y++ {
		for x := clip.Left(); x < clip.Right(); x++ {
			s.SetTileAt(core.Position{X: x, Y: y}, tile)
		}
	}
}

// Clear removes every tile.
func (s *Surface) Clear() {
	if len(s.tiles) == 0 {
		return
	}
	s.tiles = make(map[core.Position]core.Tile)
	s.shared = false
	s.version++
}

// PutText writes text starting at pos, one grapheme cluster per cell.
// Text is NFC-normalized first; each cluster is rendered by its first rune.
// Returns the number of cells written before clipping.
func (s *Surface) PutText(pos core.Position, text string, style core.StyleSet) int {
	col := 0
	g := uniseg.NewGraphemes(norm.NFC.String(text))
	for g.Next() {
		runes := g.Runes()
		if len(runes) == 0 {
			continue
		}
		s.SetTileAt(pos.Offset(col, 0), core.NewCharacterTile(runes[0], style))
		col++
	}
	return col
}

// Resize changes the bounds, dropping tiles that fall outside.
func (s *Surface) Resize(size core.Size) {
	size = core.NewSize(size.Width, size.Height)
	if size == s.size {
		return
	}
	s.mutate()
	s.size = size
	maps.DeleteFunc(s.tiles, func(pos core.Position, _ core.Tile) bool {
		return !size.Contains(pos)
	})
}

// Snapshot returns an immutable copy of the current contents.
// Later writes to the surface never affect a snapshot already taken.
func (s *Surface) Snapshot() Snapshot {
	s.shared = true
	return Snapshot{size: s.size, tiles: s.tiles}
}

// TextWidth returns the number of cells PutText uses for text.
func TextWidth(text string) int {
	return uniseg.GraphemeClusterCount(norm.NFC.String(text))
}

func eachSorted(tiles map[core.Position]core.Tile, fn func(core.Position, core.Tile)) {
	keys := slices.SortedFunc(maps.Keys(tiles), comparePositions)
	for _, pos := range keys {
		fn(pos, tiles[pos])
	}
}

func comparePositions(a, b core.Position) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}
