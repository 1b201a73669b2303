package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/dshills/tilegrid/internal/renderer/backend"
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/layer"
	"github.com/dshills/tilegrid/internal/renderer/tileset"
)

// Options configures the renderers.
type Options struct {
	// ClearColor fills the frame before any layer is drawn.
	ClearColor core.Color

	// MaxFPS limits how often Render produces a frame.
	MaxFPS int
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ClearColor: core.ColorBlack,
		MaxFPS:     60,
	}
}

func frameInterval(maxFPS int) time.Duration {
	if maxFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(maxFPS)
}

// Renderer composes frames into pixels through tilesets.
type Renderer struct {
	mu sync.Mutex

	opts   Options
	source Source
	loader *tileset.Loader
	target backend.PixelSurface
	logger *zap.Logger

	// Frame timing
	lastFrame    time.Time
	minFrameTime time.Duration
	needsRedraw  bool

	stats Stats
}

// New creates a renderer drawing frames from source onto target.
func New(source Source, loader *tileset.Loader, target backend.PixelSurface, logger *zap.Logger, opts Options) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		opts:         opts,
		source:       source,
		loader:       loader,
		target:       target,
		logger:       logger.Named("renderer"),
		minFrameTime: frameInterval(opts.MaxFPS),
		needsRedraw:  true,
	}
}

// MarkDirty marks the renderer as needing a redraw.
func (r *Renderer) MarkDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.needsRedraw = true
}

// NeedsRedraw returns true if the renderer needs to redraw.
func (r *Renderer) NeedsRedraw() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.needsRedraw
}

// SetClearColor changes the color frames are cleared with.
func (r *Renderer) SetClearColor(c core.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.ClearColor = c
	r.needsRedraw = true
}

// Render draws a frame if the renderer is dirty and the frame rate allows.
// Returns true if a frame was presented.
func (r *Renderer) Render(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if !r.needsRedraw || now.Sub(r.lastFrame) < r.minFrameTime {
		return false, nil
	}
	r.lastFrame = now

	if err := r.render(ctx); err != nil {
		return false, err
	}
	r.needsRedraw = false
	return true, nil
}

// RenderNow draws a frame immediately.
func (r *Renderer) RenderNow(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.render(ctx); err != nil {
		return err
	}
	r.lastFrame = time.Now()
	r.needsRedraw = false
	return nil
}

// Stats returns a snapshot of renderer activity.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Renderer) render(ctx context.Context) error {
	start := time.Now()
	frame := r.source.Frame()

	img, err := r.compose(ctx, frame)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if ctx.Err() != nil {
			r.stats.FramesAbandoned++
			return fmt.Errorf("frame abandoned: %w", ctx.Err())
		}
		return err
	}

	b := img.Bounds()
	canvas := r.target.Canvas(b.Dx(), b.Dy())
	if canvas == nil {
		return backend.ErrNoCanvas
	}
	draw.Draw(canvas, canvas.Bounds(), img, image.Point{}, draw.Src)
	if err := r.target.Present(); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}

	r.stats.FramesRendered++
	r.stats.LastFrame = time.Since(start)
	return nil
}

// compose draws every layer of frame into a new image.
func (r *Renderer) compose(ctx context.Context, frame Frame) (*image.RGBA, error) {
	base, err := r.loader.Load(frame.Tileset)
	if err != nil {
		return nil, fmt.Errorf("load grid tileset: %w", err)
	}

	w := frame.Size.Width * base.CellWidth()
	h := frame.Size.Height * base.CellHeight()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.opts.ClearColor.RGBA()), image.Point{}, draw.Src)

	res := resolver{loader: r.loader, base: base, loaded: map[core.TilesetResource]tileset.Tileset{}}
	var layerErr error
	frame.EachLayer(func(l layer.Layer) {
		if layerErr != nil {
			return
		}
		if err := ctx.Err(); err != nil {
			layerErr = err
			return
		}
		layerErr = r.drawLayer(img, l, &res)
	})
	if layerErr != nil {
		return nil, layerErr
	}
	return img, nil
}

func (r *Renderer) drawLayer(dst *image.RGBA, l layer.Layer, res *resolver) error {
	active := res.base
	if lr, ok := l.Tileset(); ok {
		ts, err := res.load(lr)
		if err != nil {
			return fmt.Errorf("load layer tileset %s: %w", lr.ID, err)
		}
		active = ts
	}
	cw, ch := active.CellWidth(), active.CellHeight()

	l.EachTile(func(pos core.Position, tile core.Tile) {
		ts := active
		if tile.HasTilesetOverride() {
			override, err := res.load(tile.Tileset)
			if err != nil {
				r.stats.TileErrors++
				r.logger.Warn("tile tileset unavailable",
					zap.String("tileset", tile.Tileset.ID),
					zap.Stringer("position", pos),
					zap.Error(err))
				return
			}
			ts = override
		}

		tex, err := ts.FetchTextureForTile(tile)
		if err != nil {
			r.stats.TileErrors++
			r.logger.Debug("skipping tile",
				zap.String("tile", tile.CacheKey()),
				zap.Stringer("position", pos),
				zap.Error(err))
			return
		}

		at := image.Pt(pos.X*cw, pos.Y*ch)
		rect := image.Rectangle{Min: at, Max: at.Add(tex.Bounds().Size())}
		draw.Draw(dst, rect, tex.Image, image.Point{}, draw.Over)
		r.stats.TilesDrawn++
	})
	return nil
}

// resolver memoizes tileset loads for the duration of one frame.
type resolver struct {
	loader *tileset.Loader
	base   tileset.Tileset
	loaded map[core.TilesetResource]tileset.Tileset
}

func (r *resolver) load(res core.TilesetResource) (tileset.Tileset, error) {
	if res == r.base.Resource() {
		return r.base, nil
	}
	if ts, ok := r.loaded[res]; ok {
		return ts, nil
	}
	ts, err := r.loader.Load(res)
	if err != nil {
		return nil, err
	}
	r.loaded[res] = ts
	return ts, nil
}
