package renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/tilegrid/internal/renderer/backend"
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/layer"
	"github.com/dshills/tilegrid/internal/renderer/surface"
)

// CellRenderer draws frames onto a cell backend, one tile per cell.
// Only cells that changed since the previous frame are written.
type CellRenderer struct {
	mu sync.Mutex

	source  Source
	backend *backend.BufferedBackend
	logger  *zap.Logger

	lastFrame    time.Time
	minFrameTime time.Duration
	needsRedraw  bool

	stats Stats
}

// NewCellRenderer creates a cell renderer drawing frames from source onto b.
func NewCellRenderer(source Source, b backend.Backend, logger *zap.Logger, opts Options) *CellRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	buffered, ok := b.(*backend.BufferedBackend)
	if !ok {
		buffered = backend.NewBufferedBackend(b)
	}
	r := &CellRenderer{
		source:       source,
		backend:      buffered,
		logger:       logger.Named("cells"),
		minFrameTime: frameInterval(opts.MaxFPS),
		needsRedraw:  true,
	}
	buffered.OnResize(func(width, height int) {
		r.logger.Debug("backend resized", zap.Int("width", width), zap.Int("height", height))
		r.MarkDirty()
	})
	return r
}

// Backend returns the buffered backend frames are drawn onto.
func (r *CellRenderer) Backend() *backend.BufferedBackend {
	return r.backend
}

// MarkDirty marks the renderer as needing a redraw.
func (r *CellRenderer) MarkDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.needsRedraw = true
}

// NeedsRedraw returns true if the renderer needs to redraw.
func (r *CellRenderer) NeedsRedraw() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.needsRedraw
}

// Render draws a frame if the renderer is dirty and the frame rate allows.
// Returns true if a frame was shown.
func (r *CellRenderer) Render(ctx context.Context) (bool, error) {
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
func (r *CellRenderer) RenderNow(ctx context.Context) error {
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
func (r *CellRenderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *CellRenderer) render(ctx context.Context) error {
	start := time.Now()
	flat, err := Flatten(ctx, r.source.Frame())
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		r.stats.FramesAbandoned++
		return fmt.Errorf("frame abandoned: %w", err)
	}

	r.backend.Clear()
	flat.EachTile(func(pos core.Position, tile core.Tile) {
		r.backend.SetCell(pos.X, pos.Y, tile)
		r.stats.TilesDrawn++
	})
	r.backend.Show()

	r.stats.FramesRendered++
	r.stats.LastFrame = time.Since(start)
	return nil
}

// Flatten composites every layer of frame onto one surface of the grid
// size. A tile with a default background takes the background of the
// tile beneath it.
func Flatten(ctx context.Context, frame Frame) (*surface.Surface, error) {
	flat := surface.New(frame.Size)
	var err error
	frame.EachLayer(func(l layer.Layer) {
		if err != nil {
			return
		}
		if err = ctx.Err(); err != nil {
			return
		}
		l.EachTile(func(pos core.Position, tile core.Tile) {
			if tile.Style.Background.IsDefault() {
				if under, ok := flat.TileAt(pos); ok {
					tile = tile.WithBackground(under.Style.Background)
				}
			}
			flat.SetTileAt(pos, tile)
		})
	})
	if err != nil {
		return nil, err
	}
	return flat, nil
}
