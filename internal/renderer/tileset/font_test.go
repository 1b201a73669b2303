package tileset

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

func newBasic(t *testing.T, opts Options) Tileset {
	t.Helper()
	ts, err := NewBasicTileset(Basic7x13, opts)
	if err != nil {
		t.Fatalf("NewBasicTileset: %v", err)
	}
	return ts
}

func allPixels(img *image.RGBA, want color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != want {
				return false
			}
		}
	}
	return true
}

func TestFontTileset_CellSize(t *testing.T) {
	ts := newBasic(t, DefaultOptions())
	if ts.CellWidth() != 7 || ts.CellHeight() != 13 {
		t.Errorf("expected 7x13, got %dx%d", ts.CellWidth(), ts.CellHeight())
	}
	tex, err := ts.FetchTextureForTile(core.NewCharacterTile('A', core.DefaultStyle()))
	if err != nil {
		t.Fatalf("FetchTextureForTile: %v", err)
	}
	if tex.Bounds() != image.Rect(0, 0, 7, 13) {
		t.Errorf("expected bounds (0,0)-(7,13), got %v", tex.Bounds())
	}
}

func TestFontTileset_Memoization(t *testing.T) {
	ts := newBasic(t, DefaultOptions())
	style := core.NewStyle(core.ColorWhite, core.ColorBlue)

	a, err := ts.FetchTextureForTile(core.NewCharacterTile('x', style))
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	b, err := ts.FetchTextureForTile(core.NewCharacterTile('x', style))
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if a != b {
		t.Error("expected identical tiles to share one texture")
	}
	if a.Key != core.NewCharacterTile('x', style).CacheKey() {
		t.Errorf("expected texture key to be the tile cache key, got %q", a.Key)
	}

	stats := ts.CacheStats()
	if stats.Entries != 1 || stats.Misses != 1 || stats.Hits != 1 {
		t.Errorf("expected 1 entry, 1 miss, 1 hit, got %+v", stats)
	}

	c, err := ts.FetchTextureForTile(core.NewCharacterTile('x', style.WithModifiers(core.ModBold)))
	if err != nil {
		t.Fatalf("third fetch: %v", err)
	}
	if c == a {
		t.Error("expected a different style to produce a different texture")
	}
	if ts.CacheStats().Entries != 2 {
		t.Errorf("expected 2 entries, got %d", ts.CacheStats().Entries)
	}
}

func TestFontTileset_CachesArePerInstance(t *testing.T) {
	a := newBasic(t, DefaultOptions())
	b := newBasic(t, DefaultOptions())
	tile := core.NewCharacterTile('q', core.DefaultStyle())

	if _, err := a.FetchTextureForTile(tile); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if b.CacheStats().Entries != 0 {
		t.Errorf("expected second tileset cache to be empty, got %d", b.CacheStats().Entries)
	}
}

func TestFontTileset_UnsupportedTile(t *testing.T) {
	ts := newBasic(t, DefaultOptions())
	_, err := ts.FetchTextureForTile(core.NewGraphicTile("tree", core.DefaultStyle()))
	if !errors.Is(err, ErrUnsupportedTile) {
		t.Errorf("expected ErrUnsupportedTile, got %v", err)
	}
	if ts.CacheStats().Entries != 0 {
		t.Errorf("expected failed fetch not to be cached")
	}
}

func TestFontTileset_RequiresCharacterKind(t *testing.T) {
	res := core.NewTilesetResource("icons", core.GraphicTileset, 8, 8)
	if _, err := NewBasicTileset(res, DefaultOptions()); !errors.Is(err, ErrUnsupportedTile) {
		t.Errorf("expected ErrUnsupportedTile, got %v", err)
	}
}

func TestFontTileset_Backgrounds(t *testing.T) {
	ts := newBasic(t, DefaultOptions())

	tests := []struct {
		name  string
		style core.StyleSet
		want  color.RGBA
	}{
		{"default background is transparent", core.DefaultStyle(), color.RGBA{}},
		{"background fills cell", core.NewStyle(core.ColorWhite, core.ColorRed), core.ColorRed.RGBA()},
		{"reverse swaps colors", core.NewStyle(core.ColorRed, core.ColorDefault).WithModifiers(core.ModReverse), core.ColorRed.RGBA()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := ts.FetchTextureForTile(core.NewCharacterTile(' ', tt.style))
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if !allPixels(tex.Image, tt.want) {
				t.Errorf("expected every pixel %v, got %v at origin", tt.want, tex.Image.RGBAAt(0, 0))
			}
		})
	}
}

func TestFontTileset_Glyph(t *testing.T) {
	ts := newBasic(t, DefaultOptions())

	tex, err := ts.FetchTextureForTile(core.NewCharacterTile('X', core.DefaultStyle()))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if allPixels(tex.Image, color.RGBA{}) {
		t.Error("expected glyph pixels to be drawn")
	}

	hidden, err := ts.FetchTextureForTile(core.NewCharacterTile('X', core.DefaultStyle().WithModifiers(core.ModHidden)))
	if err != nil {
		t.Fatalf("fetch hidden: %v", err)
	}
	if !allPixels(hidden.Image, color.RGBA{}) {
		t.Error("expected hidden glyph to leave the cell transparent")
	}
}

func TestFontTileset_Underline(t *testing.T) {
	ts := newBasic(t, DefaultOptions())
	style := core.NewStyle(core.ColorRed, core.ColorDefault).WithModifiers(core.ModUnderline)

	tex, err := ts.FetchTextureForTile(core.NewCharacterTile(' ', style))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	found := false
	for y := range 13 {
		row := true
		for x := range 7 {
			if tex.Image.RGBAAt(x, y) != core.ColorRed.RGBA() {
				row = false
				break
			}
		}
		found = found || row
	}
	if !found {
		t.Error("expected a full-width underline row")
	}
}

func TestFontTileset_BoundedCache(t *testing.T) {
	opts := DefaultOptions()
	opts.CacheSize = 2
	ts := newBasic(t, opts)

	for _, ch := range "abc" {
		if _, err := ts.FetchTextureForTile(core.NewCharacterTile(ch, core.DefaultStyle())); err != nil {
			t.Fatalf("fetch %q: %v", ch, err)
		}
	}
	if got := ts.CacheStats().Entries; got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}
}

func TestFontTileset_ConcurrentFetch(t *testing.T) {
	ts := newBasic(t, DefaultOptions())
	tile := core.NewCharacterTile('#', core.NewStyle(core.ColorGreen, core.ColorBlack))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ts.FetchTextureForTile(tile); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	if got := ts.CacheStats().Entries; got != 1 {
		t.Errorf("expected 1 entry, got %d", got)
	}
}

func TestApplyFlips(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, core.ColorRed.RGBA())

	applyFlips(img, core.ModHorizontalFlip)
	if img.RGBAAt(2, 0) != core.ColorRed.RGBA() {
		t.Errorf("expected horizontal flip to move pixel to (2,0)")
	}

	applyFlips(img, core.ModVerticalFlip)
	if img.RGBAAt(2, 1) != core.ColorRed.RGBA() {
		t.Errorf("expected vertical flip to move pixel to (2,1)")
	}
}
