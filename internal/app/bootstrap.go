package app

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"go.uber.org/zap"

	"github.com/dshills/tilegrid/internal/config/watcher"
	"github.com/dshills/tilegrid/internal/event"
	"github.com/dshills/tilegrid/internal/grid"
	"github.com/dshills/tilegrid/internal/renderer"
	"github.com/dshills/tilegrid/internal/renderer/backend"
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/tileset"
	"github.com/dshills/tilegrid/internal/theme"
)

// sheetGlyphs is the number of glyph rows and columns in a CP437 atlas.
const sheetGlyphs = 16

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		initOrder: make([]string, 0, 5),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"tilesets", b.initTilesets},
		{"grid", b.initGrid},
		{"theme", b.initTheme},
		{"renderer", b.initRenderer},
		{"theme watcher", b.initWatcher},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
		b.initOrder = append(b.initOrder, step.name)
		b.app.logger.Debug("initialized", zap.String("component", step.name))
	}
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "grid":
			_ = b.app.grid.Close()
		case "renderer":
			for _, sub := range b.app.subs {
				_ = b.app.bus.Unsubscribe(sub)
			}
			b.app.subs = nil
		}
	}
}

func (b *bootstrapper) initTilesets() error {
	cfg := b.app.cfg
	b.app.loader = tileset.NewLoader(tileset.Options{
		CacheSize:         cfg.Render.TextureCacheSize,
		DefaultForeground: core.ColorWhite,
		DefaultBackground: core.ColorBlack,
	})

	if cfg.Grid.Sheet == "" {
		return nil
	}
	sheet, err := loadSheet(cfg.Grid.Sheet)
	if err != nil {
		return err
	}
	bounds := sheet.Bounds()
	res := core.NewTilesetResource(cfg.Grid.Tileset, core.CharacterTileset,
		bounds.Dx()/sheetGlyphs, bounds.Dy()/sheetGlyphs)
	b.app.loader.RegisterSheet(res, sheet)

	// Instantiate now so a malformed atlas fails at startup.
	if _, err := b.app.loader.Load(res); err != nil {
		return NewOperationError("load sheet", cfg.Grid.Sheet, err)
	}
	b.app.logger.Info("registered sheet tileset",
		zap.String("tileset", res.ID),
		zap.String("sheet", cfg.Grid.Sheet),
		zap.Int("cell_width", res.Width),
		zap.Int("cell_height", res.Height))
	return nil
}

func loadSheet(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewOperationError("open sheet", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, NewOperationError("decode sheet", path, err)
	}
	return img, nil
}

func (b *bootstrapper) initGrid() error {
	cfg := b.app.cfg
	res, ok := b.app.loader.Lookup(cfg.Grid.Tileset)
	if !ok {
		return fmt.Errorf("%w: %s", tileset.ErrUnknownTileset, cfg.Grid.Tileset)
	}
	g, err := grid.New(core.NewSize(cfg.Grid.Width, cfg.Grid.Height), res, b.app.bus)
	if err != nil {
		return err
	}
	b.app.grid = g
	return nil
}

func (b *bootstrapper) initTheme() error {
	t, err := theme.Resolve(b.app.cfg.Theme.Name, b.app.cfg.Theme.File)
	if err != nil {
		return err
	}
	b.app.grid.ApplyColorTheme(t)
	b.app.setTheme(t)
	return nil
}

func (b *bootstrapper) initRenderer() error {
	app := b.app
	opts := renderer.Options{
		ClearColor: app.cfg.ClearColor(),
		MaxFPS:     app.cfg.Render.MaxFPS,
	}

	if app.backend != nil {
		cells := renderer.NewCellRenderer(app.grid, app.backend, app.logger, opts)
		app.backend = cells.Backend()
		app.renderer = cells
	} else {
		if app.surface == nil {
			app.surface = backend.NewImageSurface()
		}
		app.renderer = renderer.New(app.grid, app.loader, app.surface, app.logger, opts)
	}

	// Structural changes need a new frame.
	sub, err := app.bus.Subscribe("component.**", func(context.Context, event.Envelope) error {
		app.renderer.MarkDirty()
		return nil
	})
	if err != nil {
		return err
	}
	app.subs = append(app.subs, sub)
	return nil
}

func (b *bootstrapper) initWatcher() error {
	cfg := b.app.cfg.Theme
	if !cfg.Watch || cfg.File == "" {
		return nil
	}
	w, err := watcher.New()
	if err != nil {
		return err
	}
	if err := w.Watch(cfg.File); err != nil {
		_ = w.Close()
		return err
	}
	w.OnChange(b.app.themeChanged)
	b.app.watcher = w
	b.app.logger.Info("watching theme file", zap.String("path", cfg.File))
	return nil
}
