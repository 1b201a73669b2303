// Package tileset resolves tiles to textures.
//
// A Tileset turns a core.Tile into a pixel Texture of a fixed cell size.
// Every tileset instance owns a texture cache keyed by the tile's cache key,
// so structurally identical tiles are rasterized once per tileset:
//
//	loader := tileset.NewLoader(tileset.DefaultOptions())
//	ts, _ := loader.Load(tileset.GoMono10x20)
//	tex, _ := ts.FetchTextureForTile(core.NewCharacterTile('@', style))
//	draw.Draw(dst, rect, tex.Image, image.Point{}, draw.Over)
package tileset

import (
	"errors"
	"image"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// Sentinel errors for tileset resolution.
var (
	// ErrUnknownTileset is returned when a resource has no registered factory.
	ErrUnknownTileset = errors.New("unknown tileset")

	// ErrNoTileset is returned when loading the zero resource.
	ErrNoTileset = errors.New("no tileset")

	// ErrUnsupportedTile is returned when a tileset cannot render a tile kind.
	ErrUnsupportedTile = errors.New("tile kind not supported by tileset")

	// ErrTextureNotFound is returned when a graphic tileset has no image for a name.
	ErrTextureNotFound = errors.New("texture not found")

	// ErrInvalidSheet is returned when an atlas image does not match the cell size.
	ErrInvalidSheet = errors.New("invalid tileset sheet")
)

// Texture is a rasterized tile.
type Texture struct {
	// Key is the cache key of the tile the texture was made from.
	Key string

	// Image holds exactly one cell of pixels, with bounds starting at (0,0).
	Image *image.RGBA
}

// Bounds returns the pixel bounds of the texture.
func (t *Texture) Bounds() image.Rectangle {
	return t.Image.Bounds()
}

// Tileset maps tiles to textures with fixed per-cell pixel dimensions.
type Tileset interface {
	// Resource returns the descriptor the tileset was created from.
	Resource() core.TilesetResource

	// CellWidth returns the width of a cell in pixels.
	CellWidth() int

	// CellHeight returns the height of a cell in pixels.
	CellHeight() int

	// FetchTextureForTile returns the texture of tile, rasterizing it on
	// first use. Safe for concurrent use.
	FetchTextureForTile(tile core.Tile) (*Texture, error)

	// CacheStats reports texture cache usage.
	CacheStats() CacheStats
}

// Options configures tilesets created by a Loader.
type Options struct {
	// CacheSize bounds each tileset's texture cache (LRU). Zero keeps every
	// texture for the lifetime of the tileset.
	CacheSize int

	// DefaultForeground is used for tiles whose foreground is ColorDefault.
	DefaultForeground core.Color

	// DefaultBackground is used when a reversed tile has a default foreground.
	DefaultBackground core.Color
}

// DefaultOptions returns the default tileset options.
func DefaultOptions() Options {
	return Options{
		CacheSize:         0,
		DefaultForeground: core.ColorWhite,
		DefaultBackground: core.ColorBlack,
	}
}

// base carries the state shared by every tileset implementation.
type base struct {
	res   core.TilesetResource
	cache *textureCache
	opts  Options
}

func newBase(res core.TilesetResource, opts Options) (base, error) {
	cache, err := newTextureCache(opts.CacheSize)
	if err != nil {
		return base{}, err
	}
	return base{res: res, cache: cache, opts: opts}, nil
}

func (b *base) Resource() core.TilesetResource { return b.res }
func (b *base) CellWidth() int                 { return b.res.Width }
func (b *base) CellHeight() int                { return b.res.Height }
func (b *base) CacheStats() CacheStats         { return b.cache.stats() }

// newCell allocates a transparent texture image of one cell.
func (b *base) newCell() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, b.res.Width, b.res.Height))
}
