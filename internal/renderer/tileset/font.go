package tileset

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// FontTileset rasterizes character tiles from a font face.
type FontTileset struct {
	base

	// font.Face implementations are not safe for concurrent use.
	mu       sync.Mutex
	face     font.Face
	baseline int
}

// NewFontTileset creates a character tileset drawing glyphs from face.
// Glyphs are centered horizontally and the face's ascent is centered
// vertically within the cell.
func NewFontTileset(res core.TilesetResource, face font.Face, opts Options) (*FontTileset, error) {
	if res.Kind != core.CharacterTileset {
		return nil, fmt.Errorf("%w: font tileset needs character kind, got %s", ErrUnsupportedTile, res.Kind)
	}
	b, err := newBase(res, opts)
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	pad := max((res.Height-ascent-descent)/2, 0)
	return &FontTileset{
		base:     b,
		face:     face,
		baseline: min(pad+ascent, res.Height-1),
	}, nil
}

// NewBasicTileset creates a tileset from the built-in 7x13 bitmap face.
func NewBasicTileset(res core.TilesetResource, opts Options) (Tileset, error) {
	ts, err := NewFontTileset(res, basicfont.Face7x13, opts)
	if err != nil {
		return nil, err
	}
	return ts, nil
}

// NewGoMonoTileset creates a tileset from the Go Mono font at the given point size.
func NewGoMonoTileset(res core.TilesetResource, size float64, opts Options) (Tileset, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing go mono: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating go mono face: %w", err)
	}
	ts, err := NewFontTileset(res, face, opts)
	if err != nil {
		return nil, err
	}
	return ts, nil
}

// FetchTextureForTile implements Tileset.
func (f *FontTileset) FetchTextureForTile(tile core.Tile) (*Texture, error) {
	if tile.Kind != core.TileCharacter {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnsupportedTile, tile.Kind, f.res.ID)
	}
	return f.cache.getOrCreate(tile.CacheKey(), func() (*Texture, error) {
		return &Texture{Image: f.rasterize(tile)}, nil
	})
}

func (f *FontTileset) rasterize(tile core.Tile) *image.RGBA {
	mods := tile.Style.Modifiers
	fg, bg := cellColors(tile.Style, f.opts)

	img := f.newCell()
	fillBackground(img, bg)

	if !mods.Has(core.ModHidden) && tile.Char != ' ' {
		glyph := f.drawGlyph(tile.Char, fg, mods.Has(core.ModBold))
		if mods.Has(core.ModItalic) {
			glyph = shear(glyph, f.baseline)
		}
		draw.Draw(img, img.Bounds(), glyph, image.Point{}, draw.Over)
	}

	applyLines(img, fg, mods, f.baseline)
	applyFlips(img, mods)
	return img
}

// drawGlyph renders ch on a transparent cell.
func (f *FontTileset) drawGlyph(ch rune, fg core.Color, bold bool) *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()

	adv, ok := f.face.GlyphAdvance(ch)
	if !ok {
		ch = '?'
		adv, _ = f.face.GlyphAdvance(ch)
	}
	x := max((f.res.Width-adv.Round())/2, 0)

	glyph := f.newCell()
	d := font.Drawer{
		Dst:  glyph,
		Src:  image.NewUniform(fg.RGBA()),
		Face: f.face,
		Dot:  fixed.P(x, f.baseline),
	}
	d.DrawString(string(ch))
	if bold {
		d.Dot = fixed.P(x+1, f.baseline)
		d.DrawString(string(ch))
	}
	return glyph
}
