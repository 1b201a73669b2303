package tileset

import (
	"errors"
	"image"
	"testing"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

func TestLoader_Builtins(t *testing.T) {
	l := NewLoader(DefaultOptions())

	tests := []struct {
		res  core.TilesetResource
		w, h int
	}{
		{Basic7x13, 7, 13},
		{GoMono8x16, 8, 16},
		{GoMono10x20, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.res.ID, func(t *testing.T) {
			ts, err := l.Load(tt.res)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if ts.CellWidth() != tt.w || ts.CellHeight() != tt.h {
				t.Errorf("expected %dx%d, got %dx%d", tt.w, tt.h, ts.CellWidth(), ts.CellHeight())
			}
			if _, err := ts.FetchTextureForTile(core.NewCharacterTile('g', core.DefaultStyle())); err != nil {
				t.Errorf("fetch: %v", err)
			}
		})
	}
}

func TestLoader_Memoizes(t *testing.T) {
	l := NewLoader(DefaultOptions())
	a, err := l.Load(Basic7x13)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := l.Load(Basic7x13)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a != b {
		t.Error("expected one instance per resource")
	}
}

func TestLoader_Errors(t *testing.T) {
	l := NewLoader(DefaultOptions())

	if _, err := l.Load(core.NoTileset); !errors.Is(err, ErrNoTileset) {
		t.Errorf("expected ErrNoTileset, got %v", err)
	}

	unknown := core.NewTilesetResource("nope", core.CharacterTileset, 8, 8)
	if _, err := l.Load(unknown); !errors.Is(err, ErrUnknownTileset) {
		t.Errorf("expected ErrUnknownTileset, got %v", err)
	}

	resized := core.NewTilesetResource(Basic7x13.ID, core.CharacterTileset, 8, 8)
	if _, err := l.Load(resized); !errors.Is(err, ErrUnknownTileset) {
		t.Errorf("expected ErrUnknownTileset for size mismatch, got %v", err)
	}
	if _, err := l.Load(Basic7x13); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := l.Load(resized); !errors.Is(err, ErrUnknownTileset) {
		t.Errorf("expected ErrUnknownTileset for size mismatch once loaded, got %v", err)
	}

	bad := core.NewTilesetResource("bad-sheet", core.CharacterTileset, 2, 2)
	l.RegisterSheet(bad, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if _, err := l.Load(bad); !errors.Is(err, ErrInvalidSheet) {
		t.Errorf("expected ErrInvalidSheet, got %v", err)
	}
}

func TestLoader_RegisterTileset(t *testing.T) {
	l := NewLoader(DefaultOptions())
	g := newIcons(t)
	l.RegisterTileset(g)

	got, err := l.Load(g.Resource())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != Tileset(g) {
		t.Error("expected registered instance")
	}
	if res, ok := l.Lookup("icons"); !ok || res != g.Resource() {
		t.Errorf("expected lookup to find icons, got %v %v", res, ok)
	}
}

func TestLoader_Resources(t *testing.T) {
	l := NewLoader(DefaultOptions())
	l.RegisterSheet(tinySheet, testSheet())

	var ids []string
	for _, res := range l.Resources() {
		ids = append(ids, res.ID)
	}
	want := []string{"basic-7x13", "gomono-10x20", "gomono-8x16", "tiny"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("expected %v, got %v", want, ids)
			break
		}
	}
}
