package renderer

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/dshills/tilegrid/internal/renderer/backend"
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/layer"
	"github.com/dshills/tilegrid/internal/renderer/surface"
	"github.com/dshills/tilegrid/internal/renderer/tileset"
)

type staticSource struct {
	frame Frame
}

func (s *staticSource) Frame() Frame { return s.frame }

var (
	red   = core.MustColorFromHex("#ff0000")
	green = core.MustColorFromHex("#00ff00")
	blue  = core.MustColorFromHex("#0000ff")
)

func solid(bg core.Color) core.Tile {
	return core.NewCharacterTile(' ', core.NewStyle(core.ColorDefault, bg))
}

func newFrame(size core.Size, layers ...layer.Layer) Frame {
	return Frame{
		Tileset: tileset.Basic7x13,
		Size:    size,
		Root:    surface.New(size).Snapshot(),
		Layers:  layers,
	}
}

func layerWith(pos core.Position, tile core.Tile) layer.Layer {
	s := surface.New(core.NewSize(1, 1))
	s.SetTileAt(core.Origin, tile)
	return layer.FromSurface(s, pos, core.NoTileset)
}

func newTestRenderer(src Source) (*Renderer, *backend.ImageSurface) {
	target := backend.NewImageSurface()
	opts := DefaultOptions()
	opts.MaxFPS = 0
	return New(src, tileset.NewLoader(tileset.DefaultOptions()), target, nil, opts), target
}

func TestRenderer_ClearAndSize(t *testing.T) {
	r, target := newTestRenderer(&staticSource{frame: newFrame(core.NewSize(4, 2))})
	if err := r.RenderNow(context.Background()); err != nil {
		t.Fatalf("RenderNow: %v", err)
	}

	img := target.Image()
	if img == nil {
		t.Fatal("expected a presented image")
	}
	if got := img.Bounds().Size(); got.X != 28 || got.Y != 26 {
		t.Errorf("expected 28x26 pixels, got %v", got)
	}
	if got := img.RGBAAt(10, 10); got != core.ColorBlack.RGBA() {
		t.Errorf("expected clear color, got %v", got)
	}
}

func TestRenderer_LayerOrder(t *testing.T) {
	frame := newFrame(core.NewSize(4, 2),
		layerWith(core.NewPosition(1, 0), solid(red)),
		layerWith(core.NewPosition(1, 0), solid(green)),
	)
	r, target := newTestRenderer(&staticSource{frame: frame})
	if err := r.RenderNow(context.Background()); err != nil {
		t.Fatalf("RenderNow: %v", err)
	}

	if got := target.Image().RGBAAt(10, 5); got != green.RGBA() {
		t.Errorf("expected top layer green, got %v", got)
	}
	if got := r.Stats().TilesDrawn; got != 2 {
		t.Errorf("expected 2 tiles drawn, got %d", got)
	}
}

func TestRenderer_DefaultBackgroundIsTransparent(t *testing.T) {
	frame := newFrame(core.NewSize(2, 1),
		layerWith(core.Origin, solid(red)),
		layerWith(core.Origin, core.NewCharacterTile(' ', core.DefaultStyle())),
	)
	r, target := newTestRenderer(&staticSource{frame: frame})
	if err := r.RenderNow(context.Background()); err != nil {
		t.Fatalf("RenderNow: %v", err)
	}
	if got := target.Image().RGBAAt(3, 6); got != red.RGBA() {
		t.Errorf("expected lower layer to show through, got %v", got)
	}
}

func TestRenderer_LayerTilesetCellSize(t *testing.T) {
	s := surface.New(core.NewSize(1, 1))
	s.SetTileAt(core.Origin, solid(blue))
	l := layer.FromSurface(s, core.NewPosition(1, 0), tileset.GoMono8x16)

	r, target := newTestRenderer(&staticSource{frame: newFrame(core.NewSize(4, 2), l)})
	if err := r.RenderNow(context.Background()); err != nil {
		t.Fatalf("RenderNow: %v", err)
	}

	img := target.Image()
	if got := img.RGBAAt(8, 15); got != blue.RGBA() {
		t.Errorf("expected 8x16 cell at x=8, got %v", got)
	}
	if got := img.RGBAAt(7, 15); got == blue.RGBA() {
		t.Errorf("expected cell to start at x=8, got %v at x=7", got)
	}
}

func TestRenderer_TileErrorsAreSkipped(t *testing.T) {
	frame := newFrame(core.NewSize(2, 1),
		layerWith(core.Origin, core.NewGraphicTile("tree", core.DefaultStyle())),
		layerWith(core.NewPosition(1, 0), solid(red)),
	)
	r, target := newTestRenderer(&staticSource{frame: frame})
	if err := r.RenderNow(context.Background()); err != nil {
		t.Fatalf("RenderNow: %v", err)
	}

	stats := r.Stats()
	if stats.TileErrors != 1 || stats.TilesDrawn != 1 {
		t.Errorf("expected 1 error and 1 tile drawn, got %+v", stats)
	}
	if target.Presented() != 1 {
		t.Errorf("expected the frame to be presented, got %d", target.Presented())
	}
}

func TestRenderer_UnknownTilesetAbortsFrame(t *testing.T) {
	frame := newFrame(core.NewSize(2, 1))
	frame.Tileset = core.NewTilesetResource("missing", core.CharacterTileset, 7, 13)
	r, target := newTestRenderer(&staticSource{frame: frame})

	err := r.RenderNow(context.Background())
	if !errors.Is(err, tileset.ErrUnknownTileset) {
		t.Errorf("expected ErrUnknownTileset, got %v", err)
	}
	if target.Presented() != 0 {
		t.Error("expected nothing presented")
	}

	s := surface.New(core.NewSize(1, 1))
	s.SetTileAt(core.Origin, solid(red))
	bad := layer.FromSurface(s, core.Origin, core.NewTilesetResource("gone", core.CharacterTileset, 7, 13))
	r, _ = newTestRenderer(&staticSource{frame: newFrame(core.NewSize(2, 1), bad)})
	if err := r.RenderNow(context.Background()); !errors.Is(err, tileset.ErrUnknownTileset) {
		t.Errorf("expected layer tileset failure to abort, got %v", err)
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	r, target := newTestRenderer(&staticSource{frame: newFrame(core.NewSize(2, 1))})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.RenderNow(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if target.Presented() != 0 {
		t.Error("expected abandoned frame not to be presented")
	}
	if got := r.Stats().FramesAbandoned; got != 1 {
		t.Errorf("expected 1 abandoned frame, got %d", got)
	}
	if !r.NeedsRedraw() {
		t.Error("expected renderer to stay dirty after an abandoned frame")
	}
}

func TestRenderer_RenderOnlyWhenDirty(t *testing.T) {
	r, target := newTestRenderer(&staticSource{frame: newFrame(core.NewSize(2, 1))})
	ctx := context.Background()

	rendered, err := r.Render(ctx)
	if err != nil || !rendered {
		t.Fatalf("expected first render, got %v, %v", rendered, err)
	}
	rendered, err = r.Render(ctx)
	if err != nil || rendered {
		t.Errorf("expected clean renderer to skip, got %v, %v", rendered, err)
	}

	r.MarkDirty()
	if rendered, _ = r.Render(ctx); !rendered {
		t.Error("expected render after MarkDirty")
	}
	if target.Presented() != 2 {
		t.Errorf("expected 2 frames presented, got %d", target.Presented())
	}
}

func TestRenderer_SetClearColor(t *testing.T) {
	r, target := newTestRenderer(&staticSource{frame: newFrame(core.NewSize(1, 1))})
	r.SetClearColor(blue)
	if err := r.RenderNow(context.Background()); err != nil {
		t.Fatalf("RenderNow: %v", err)
	}
	if got := target.Image().RGBAAt(0, 0); got != (color.RGBA{B: 0xff, A: 0xff}) {
		t.Errorf("expected blue, got %v", got)
	}
}
