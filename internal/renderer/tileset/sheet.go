package tileset

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/text/encoding/charmap"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// sheetColumns is the number of glyphs per atlas row (16x16 CP437 layout).
const sheetColumns = 16

// SheetTileset renders character tiles from a CP437 atlas image.
// The atlas holds 256 glyphs in a 16x16 grid; glyph intensity is used as a
// mask and tinted with the tile's foreground.
type SheetTileset struct {
	base
	masks [256]*image.Alpha
}

// NewSheetTileset slices sheet into glyph masks.
// The sheet must be exactly 16 cells wide and 16 cells high.
func NewSheetTileset(res core.TilesetResource, sheet image.Image, opts Options) (*SheetTileset, error) {
	if res.Kind != core.CharacterTileset {
		return nil, fmt.Errorf("%w: sheet tileset needs character kind, got %s", ErrUnsupportedTile, res.Kind)
	}
	sb := sheet.Bounds()
	if sb.Dx() != res.Width*sheetColumns || sb.Dy() != res.Height*sheetColumns {
		return nil, fmt.Errorf("%w: %s expects %dx%d pixels, got %dx%d", ErrInvalidSheet,
			res.ID, res.Width*sheetColumns, res.Height*sheetColumns, sb.Dx(), sb.Dy())
	}
	b, err := newBase(res, opts)
	if err != nil {
		return nil, err
	}
	s := &SheetTileset{base: b}
	for i := range s.masks {
		origin := sb.Min.Add(image.Pt((i%sheetColumns)*res.Width, (i/sheetColumns)*res.Height))
		s.masks[i] = glyphMask(sheet, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(res.Width, res.Height))})
	}
	return s, nil
}

// glyphMask converts one atlas cell to an alpha mask: bright opaque pixels
// are glyph, dark or transparent pixels are background.
func glyphMask(sheet image.Image, cell image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, cell.Dx(), cell.Dy()))
	for y := cell.Min.Y; y < cell.Max.Y; y++ {
		for x := cell.Min.X; x < cell.Max.X; x++ {
			gray := color.GrayModel.Convert(sheet.At(x, y)).(color.Gray)
			_, _, _, a := sheet.At(x, y).RGBA()
			mask.SetAlpha(x-cell.Min.X, y-cell.Min.Y, color.Alpha{A: uint8(uint32(gray.Y) * (a >> 8) / 0xff)})
		}
	}
	return mask
}

// glyphIndex maps a rune to its CP437 atlas slot.
func glyphIndex(ch rune) int {
	if b, ok := charmap.CodePage437.EncodeRune(ch); ok {
		return int(b)
	}
	return '?'
}

// FetchTextureForTile implements Tileset.
func (s *SheetTileset) FetchTextureForTile(tile core.Tile) (*Texture, error) {
	if tile.Kind != core.TileCharacter {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnsupportedTile, tile.Kind, s.res.ID)
	}
	return s.cache.getOrCreate(tile.CacheKey(), func() (*Texture, error) {
		return &Texture{Image: s.rasterize(tile)}, nil
	})
}

func (s *SheetTileset) rasterize(tile core.Tile) *image.RGBA {
	mods := tile.Style.Modifiers
	fg, bg := cellColors(tile.Style, s.opts)

	img := s.newCell()
	fillBackground(img, bg)
	if !mods.Has(core.ModHidden) {
		mask := s.masks[glyphIndex(tile.Char)]
		draw.DrawMask(img, img.Bounds(), image.NewUniform(fg.RGBA()), image.Point{}, mask, image.Point{}, draw.Over)
	}
	applyLines(img, fg, mods, s.res.Height-2)
	applyFlips(img, mods)
	return img
}
