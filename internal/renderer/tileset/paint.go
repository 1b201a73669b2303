package tileset

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// cellColors resolves the effective foreground and background of a style.
// A default background stays default (transparent).
func cellColors(style core.StyleSet, opts Options) (fg, bg core.Color) {
	fg = style.Foreground.Or(opts.DefaultForeground)
	bg = style.Background
	if style.Modifiers.Has(core.ModReverse) {
		fg, bg = bg.Or(opts.DefaultBackground), fg
	}
	return fg, bg
}

// fillBackground paints bg over the whole cell unless it is transparent.
func fillBackground(img *image.RGBA, bg core.Color) {
	if bg.IsDefault() {
		return
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg.RGBA()), image.Point{}, draw.Src)
}

// applyLines draws the underline and crossed-out strokes.
func applyLines(img *image.RGBA, fg core.Color, mods core.Modifier, baseline int) {
	b := img.Bounds()
	c := fg.RGBA()
	if mods.Has(core.ModUnderline) {
		y := min(baseline+1, b.Max.Y-1)
		hline(img, y, c)
	}
	if mods.Has(core.ModCrossedOut) {
		hline(img, b.Min.Y+b.Dy()/2, c)
	}
}

func hline(img *image.RGBA, y int, c color.RGBA) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		img.SetRGBA(x, y, c)
	}
}

// applyFlips mirrors the cell in place.
func applyFlips(img *image.RGBA, mods core.Modifier) {
	b := img.Bounds()
	if mods.Has(core.ModHorizontalFlip) {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for l, r := b.Min.X, b.Max.X-1; l < r; l, r = l+1, r-1 {
				a, z := img.RGBAAt(l, y), img.RGBAAt(r, y)
				img.SetRGBA(l, y, z)
				img.SetRGBA(r, y, a)
			}
		}
	}
	if mods.Has(core.ModVerticalFlip) {
		for t, bt := b.Min.Y, b.Max.Y-1; t < bt; t, bt = t+1, bt-1 {
			for x := b.Min.X; x < b.Max.X; x++ {
				a, z := img.RGBAAt(x, t), img.RGBAAt(x, bt)
				img.SetRGBA(x, t, z)
				img.SetRGBA(x, bt, a)
			}
		}
	}
}

// shear slants the glyph layer to the right above the baseline, one pixel
// every four rows, to fake an italic face.
func shear(glyph *image.RGBA, baseline int) *image.RGBA {
	b := glyph.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		shift := (baseline - y) / 4
		for x := b.Min.X; x < b.Max.X; x++ {
			sx := x - shift
			if sx < b.Min.X || sx >= b.Max.X {
				continue
			}
			out.SetRGBA(x, y, glyph.RGBAAt(sx, y))
		}
	}
	return out
}
