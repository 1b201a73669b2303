package config

import (
	"errors"
	"slices"

	"go.uber.org/zap/zapcore"

	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/theme"
)

// Limits on numeric settings.
const (
	MaxGridCells = 4096
	MaxFPS       = 240
)

var logFormats = []string{"console", "json"}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	if c.Grid.Width <= 0 || c.Grid.Width > MaxGridCells {
		add("grid.width", "must be between 1 and 4096", c.Grid.Width, ErrCodeOutOfRange)
	}
	if c.Grid.Height <= 0 || c.Grid.Height > MaxGridCells {
		add("grid.height", "must be between 1 and 4096", c.Grid.Height, ErrCodeOutOfRange)
	}
	if c.Grid.Tileset == "" {
		add("grid.tileset", "is required", nil, ErrCodeRequiredMissing)
	}

	if c.Render.MaxFPS < 0 || c.Render.MaxFPS > MaxFPS {
		add("render.max_fps", "must be between 0 and 240", c.Render.MaxFPS, ErrCodeOutOfRange)
	}
	if _, err := core.ColorFromHex(c.Render.ClearColor); err != nil {
		add("render.clear_color", "must be a #rrggbb color", c.Render.ClearColor, ErrCodeTypeMismatch)
	}
	if c.Render.TextureCacheSize < 0 {
		add("render.texture_cache_size", "must not be negative", c.Render.TextureCacheSize, ErrCodeOutOfRange)
	}

	if c.Theme.Name == "" {
		add("theme.name", "is required", nil, ErrCodeRequiredMissing)
	} else if c.Theme.File == "" {
		if _, err := theme.Lookup(c.Theme.Name); err != nil {
			add("theme.name", "is not a built-in theme", c.Theme.Name, ErrCodeInvalidEnum)
		}
	}
	if c.Theme.Watch && c.Theme.File == "" {
		add("theme.watch", "requires theme.file", true, ErrCodeRequiredMissing)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "is not a log level", c.Log.Level, ErrCodeInvalidEnum)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		add("log.format", "must be console or json", c.Log.Format, ErrCodeInvalidEnum)
	}

	return errors.Join(errs...)
}
