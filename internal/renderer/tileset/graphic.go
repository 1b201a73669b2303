package tileset

import (
	"fmt"
	"image"
	"maps"
	"slices"

	"golang.org/x/image/draw"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// GraphicTileset renders graphic tiles from named images.
// Images are scaled to the cell size once, at construction.
type GraphicTileset struct {
	base
	images map[string]*image.RGBA
}

// NewGraphicTileset creates a graphic tileset from named images.
func NewGraphicTileset(res core.TilesetResource, images map[string]image.Image, opts Options) (*GraphicTileset, error) {
	if res.Kind != core.GraphicTileset {
		return nil, fmt.Errorf("%w: graphic tileset needs graphic kind, got %s", ErrUnsupportedTile, res.Kind)
	}
	b, err := newBase(res, opts)
	if err != nil {
		return nil, err
	}
	g := &GraphicTileset{base: b, images: make(map[string]*image.RGBA, len(images))}
	for name, src := range images {
		dst := g.newCell()
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
		g.images[name] = dst
	}
	return g, nil
}

// Names returns the image names, sorted.
func (g *GraphicTileset) Names() []string {
	return slices.Sorted(maps.Keys(g.images))
}

// FetchTextureForTile implements Tileset.
func (g *GraphicTileset) FetchTextureForTile(tile core.Tile) (*Texture, error) {
	if tile.Kind != core.TileGraphic {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnsupportedTile, tile.Kind, g.res.ID)
	}
	src, ok := g.images[tile.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrTextureNotFound, tile.Name, g.res.ID)
	}
	return g.cache.getOrCreate(tile.CacheKey(), func() (*Texture, error) {
		mods := tile.Style.Modifiers
		img := g.newCell()
		fillBackground(img, tile.Style.Background)
		if !mods.Has(core.ModHidden) {
			draw.Draw(img, img.Bounds(), src, image.Point{}, draw.Over)
		}
		applyFlips(img, mods)
		return &Texture{Image: img}, nil
	})
}
