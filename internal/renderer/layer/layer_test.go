package layer

import (
	"testing"

	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/surface"
)

func TestLayerAbsolutePositions(t *testing.T) {
	s := surface.New(core.NewSize(3, 2))
	s.SetTileAt(core.NewPosition(1, 1), core.NewCharacterTile('x', core.DefaultStyle()))

	l := FromSurface(s, core.NewPosition(5, 6), core.NoTileset)

	if got, ok := l.TileAt(core.NewPosition(6, 7)); !ok || got.Char != 'x' {
		t.Errorf("expected x at (6,7), got %v (%v)", got, ok)
	}

	var positions []core.Position
	l.EachTile(func(pos core.Position, _ core.Tile) {
		positions = append(positions, pos)
	})
	if len(positions) != 1 || !positions[0].Equals(core.NewPosition(6, 7)) {
		t.Errorf("expected [(6,7)], got %v", positions)
	}

	if !l.Bounds().Equals(core.NewRect(5, 6, 3, 2)) {
		t.Errorf("unexpected bounds %v", l.Bounds())
	}
}

func TestLayerTilesetOverride(t *testing.T) {
	s := surface.New(core.NewSize(1, 1))
	if _, ok := FromSurface(s, core.Origin, core.NoTileset).Tileset(); ok {
		t.Error("layer without override should report none")
	}
	res := core.NewTilesetResource("mono", core.CharacterTileset, 8, 16)
	got, ok := FromSurface(s, core.Origin, res).Tileset()
	if !ok || got != res {
		t.Errorf("expected %v, got %v (%v)", res, got, ok)
	}
}

func TestLayerIsFrozen(t *testing.T) {
	s := surface.New(core.NewSize(2, 1))
	s.SetTileAt(core.Origin, core.NewCharacterTile('a', core.DefaultStyle()))
	l := FromSurface(s, core.Origin, core.NoTileset)

	s.SetTileAt(core.Origin, core.NewCharacterTile('b', core.DefaultStyle()))

	got, _ := l.TileAt(core.Origin)
	if got.Char != 'a' {
		t.Errorf("layer should keep snapshot contents, got %q", got.Char)
	}
}
