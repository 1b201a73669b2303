package app

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/tilegrid/internal/config/watcher"
	"github.com/dshills/tilegrid/internal/grid"
	"github.com/dshills/tilegrid/internal/renderer/backend"
	"github.com/dshills/tilegrid/internal/theme"
)

// ErrQueueFull is returned by Submit when the task queue has no room.
var ErrQueueFull = errors.New("task queue full")

// Run starts the owner loop and blocks until ctx is cancelled, Shutdown is
// called or the backend reports an interrupt. An Application runs once.
//
// The loop executes queued tasks, renders a frame on every tick when the
// grid changed, and forwards backend events.
func (app *Application) Run(ctx context.Context) error {
	select {
	case <-app.done:
		return ErrNotRunning
	default:
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	var events <-chan backend.Event
	if app.backend != nil {
		if err := app.backend.Init(); err != nil {
			return &InitError{Component: "backend", Err: err}
		}
		events = app.pumpEvents(app.backend)
	}
	defer app.exit()

	interval := frameInterval(app.cfg.Render.MaxFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	app.logger.Info("running",
		zap.Stringer("grid", app.grid.Size()),
		zap.String("tileset", app.grid.Tileset().ID),
		zap.Duration("tick", interval))

	app.renderer.MarkDirty()
	app.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-app.done:
			return nil

		case req := <-app.queue:
			app.runTask(req)

		case ev := <-events:
			if err := app.handleBackendEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					app.logger.Info("quit requested")
					return nil
				}
				app.logger.Warn("backend event failed", zap.Error(err))
			}

		case <-ticker.C:
			app.tick(ctx)
		}
	}
}

// exit stops the loop, releases the backend and fails pending tasks.
func (app *Application) exit() {
	app.stop.Do(func() { close(app.done) })
	if app.backend != nil {
		// Wakes a pump blocked in PollEvent.
		app.backend.PostEvent(backend.Event{Type: backend.EventNone})
		app.backend.Shutdown()
	}
	for {
		select {
		case req := <-app.queue:
			req.done <- ErrNotRunning
		default:
			s := app.metrics.Snapshot()
			app.logger.Info("stopped",
				zap.Uint64("tasks", s.TaskCount),
				zap.Uint64("frames", s.RenderCount),
				zap.Float64("idle_pct", s.IdleRate()))
			return
		}
	}
}

// Shutdown asks a running loop to stop. It does not wait for Run to return.
func (app *Application) Shutdown() {
	app.stop.Do(func() { close(app.done) })
}

// Do runs task on the owner goroutine and waits for its result.
// It must not be called from inside a task.
func (app *Application) Do(ctx context.Context, task Task) error {
	if !app.running.Load() {
		return ErrNotRunning
	}
	req := request{task: task, done: make(chan error, 1)}
	select {
	case app.queue <- req:
	case <-app.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-app.done:
		select {
		case err := <-req.done:
			return err
		default:
			return ErrNotRunning
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit queues task without waiting for it. Errors returned by the task
// are logged.
func (app *Application) Submit(task Task) error {
	if !app.running.Load() {
		return ErrNotRunning
	}
	select {
	case app.queue <- request{task: task, done: make(chan error, 1)}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (app *Application) runTask(req request) {
	start := time.Now()
	err := app.safeRun(req.task)
	app.metrics.RecordTask(time.Since(start), err)
	if err != nil {
		app.logger.Debug("task failed", zap.Error(err))
	}
	// Drawing on a surface publishes nothing, so any task may have changed
	// the frame.
	app.renderer.MarkDirty()
	req.done <- err
}

func (app *Application) safeRun(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			app.metrics.RecordPanic()
			app.logger.Error("task panicked", zap.Any("panic", r))
			err = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()
	return task(app.grid)
}

func (app *Application) tick(ctx context.Context) {
	start := time.Now()
	rendered, err := app.renderer.Render(ctx)
	app.metrics.RecordTick(time.Since(start), rendered, err)
	if err != nil && ctx.Err() == nil {
		app.logger.Warn("render failed", zap.Error(err))
	}
}

// pumpEvents forwards backend events to the loop until it stops.
func (app *Application) pumpEvents(b backend.Backend) <-chan backend.Event {
	events := make(chan backend.Event, 16)
	go func() {
		for {
			ev := b.PollEvent()
			select {
			case <-app.done:
				return
			default:
			}
			if ev.Type == backend.EventNone {
				continue
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()
	return events
}

// handleBackendEvent processes a backend event.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventInterrupt:
		return ErrQuit
	case backend.EventKey:
		if ev.Rune == 'q' {
			return ErrQuit
		}
		return nil
	case backend.EventResize:
		app.logger.Debug("resize", zap.Int("width", ev.Width), zap.Int("height", ev.Height))
		app.renderer.MarkDirty()
		return nil
	default:
		return nil
	}
}

// themeChanged runs on the watcher goroutine. The theme is parsed there and
// applied by a task.
func (app *Application) themeChanged(ev watcher.Event) {
	if ev.Op == watcher.OpRemove {
		app.logger.Warn("theme file removed, keeping current theme", zap.String("path", ev.Path))
		return
	}
	t, err := theme.LoadFile(ev.Path)
	app.metrics.RecordThemeReload(err)
	if err != nil {
		app.logger.Warn("theme reload failed", zap.String("path", ev.Path), zap.Error(err))
		return
	}

	err = app.Submit(func(g *grid.TileGrid) error {
		g.ApplyColorTheme(t)
		app.setTheme(t)
		app.logger.Info("theme reloaded", zap.String("theme", t.Name))
		return WrapError(app.bus.Publish(context.Background(), TopicThemeReloaded, t),
			"publish %s", TopicThemeReloaded)
	})
	if err != nil {
		app.logger.Warn("theme reload dropped", zap.String("theme", t.Name), zap.Error(err))
	}
}
