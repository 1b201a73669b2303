// Package app wires a tile grid to a renderer and runs it.
//
// An Application owns one goroutine (Run) that serializes every mutation of
// the component tree with frame rendering. Other goroutines submit work with
// Do; the theme watcher uses the same queue.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/tilegrid/internal/config"
	"github.com/dshills/tilegrid/internal/config/watcher"
	"github.com/dshills/tilegrid/internal/event"
	"github.com/dshills/tilegrid/internal/grid"
	"github.com/dshills/tilegrid/internal/renderer"
	"github.com/dshills/tilegrid/internal/renderer/backend"
	"github.com/dshills/tilegrid/internal/renderer/tileset"
	"github.com/dshills/tilegrid/internal/theme"
)

// TopicThemeReloaded is published after a watched theme file was applied.
// The payload is the new theme.ColorTheme.
const TopicThemeReloaded = "app.theme.reloaded"

// queueSize bounds pending tasks submitted with Do.
const queueSize = 64

// frameRenderer is the part of renderer.Renderer and renderer.CellRenderer
// the loop drives.
type frameRenderer interface {
	MarkDirty()
	Render(ctx context.Context) (bool, error)
	RenderNow(ctx context.Context) error
	Stats() renderer.Stats
}

// Task is a unit of work run on the owner goroutine.
type Task func(g *grid.TileGrid) error

type request struct {
	task Task
	done chan error
}

// Application is the central coordinator: config, tilesets, grid, renderer
// and the owner loop.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	cfg     *config.Config
	logger  *zap.Logger
	bus     *event.Bus
	metrics *Metrics

	// Rendering
	loader   *tileset.Loader
	grid     *grid.TileGrid
	renderer frameRenderer
	surface  backend.PixelSurface
	backend  backend.Backend
	theme    theme.ColorTheme

	// Theme reload
	watcher *watcher.Watcher

	subs []event.Subscription

	// State
	running atomic.Bool
	queue   chan request
	done    chan struct{}
	stop    sync.Once

	closeOnce sync.Once
	closeErr  error
}

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(app *Application) {
		if logger != nil {
			app.logger = logger
		}
	}
}

// WithBus shares an existing notification bus with the grid.
func WithBus(bus *event.Bus) Option {
	return func(app *Application) {
		app.bus = bus
	}
}

// WithPixelSurface renders frames as pixels onto s.
func WithPixelSurface(s backend.PixelSurface) Option {
	return func(app *Application) {
		app.surface = s
	}
}

// WithBackend renders frames onto a cell backend such as a terminal.
// It takes precedence over WithPixelSurface.
func WithBackend(b backend.Backend) Option {
	return func(app *Application) {
		app.backend = b
	}
}

// WithMetrics sets the metrics tracker.
func WithMetrics(m *Metrics) Option {
	return func(app *Application) {
		app.metrics = m
	}
}

// New builds an application from cfg. Without a backend or surface option
// frames are rendered into an in-memory ImageSurface.
func New(cfg *config.Config, opts ...Option) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: zap.NewNop(),
		queue:  make(chan request, queueSize),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.bus == nil {
		app.bus = event.NewBus()
	}
	if app.metrics == nil {
		app.metrics = NewMetrics()
	}

	b := newBootstrapper(app)
	if err := b.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Grid returns the tile grid. Outside of tasks it may only be used before
// Run is called.
func (app *Application) Grid() *grid.TileGrid {
	return app.grid
}

// Loader returns the tileset loader shared by the renderer.
func (app *Application) Loader() *tileset.Loader {
	return app.loader
}

// Bus returns the notification bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Config returns the configuration the application was built from.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *zap.Logger {
	return app.logger
}

// Metrics returns the loop metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Surface returns the pixel surface, or nil in cell mode.
func (app *Application) Surface() backend.PixelSurface {
	return app.surface
}

// RenderStats returns the renderer counters.
func (app *Application) RenderStats() renderer.Stats {
	return app.renderer.Stats()
}

// Theme returns the theme currently applied to the grid.
func (app *Application) Theme() theme.ColorTheme {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.theme
}

func (app *Application) setTheme(t theme.ColorTheme) {
	app.mu.Lock()
	app.theme = t
	app.mu.Unlock()
}

// IsRunning returns true if Run is executing.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// RenderOnce renders a single frame immediately. It is meant for headless
// use before or instead of Run.
func (app *Application) RenderOnce(ctx context.Context) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	return app.renderer.RenderNow(ctx)
}

// Close releases the subscriptions, the watcher and the grid. Run does not
// call it; whoever called New does, after Run has returned. It is safe to
// call more than once.
func (app *Application) Close() error {
	app.closeOnce.Do(func() {
		app.mu.Lock()
		subs := app.subs
		app.subs = nil
		w := app.watcher
		app.watcher = nil
		app.mu.Unlock()

		var errs []error
		for _, sub := range subs {
			errs = append(errs, WrapError(app.bus.Unsubscribe(sub), "unsubscribe %s", sub.Topic()))
		}
		if w != nil {
			errs = append(errs, WrapError(w.Close(), "close theme watcher"))
		}
		errs = append(errs, app.grid.Close())
		app.closeErr = errors.Join(errs...)
	})
	return app.closeErr
}

// frameInterval converts a frame rate to a tick period.
func frameInterval(maxFPS int) time.Duration {
	if maxFPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(maxFPS)
}
