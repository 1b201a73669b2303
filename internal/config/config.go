package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/tilegrid/internal/config/loader"
	"github.com/dshills/tilegrid/internal/renderer/core"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TILEGRID_"

// maxIncludeDepth bounds nested include directives.
const maxIncludeDepth = 8

// Config holds every tilegrid setting.
type Config struct {
	Grid   GridConfig   `toml:"grid"`
	Render RenderConfig `toml:"render"`
	Theme  ThemeConfig  `toml:"theme"`
	Log    LogConfig    `toml:"log"`
}

// GridConfig sizes the grid.
type GridConfig struct {
	// Width and Height are in cells.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Tileset is the ID of the grid tileset.
	Tileset string `toml:"tileset"`

	// Sheet optionally names a 16x16 CP437 PNG atlas registered as Tileset.
	Sheet string `toml:"sheet"`
}

// RenderConfig tunes frame production.
type RenderConfig struct {
	MaxFPS           int    `toml:"max_fps"`
	ClearColor       string `toml:"clear_color"`
	TextureCacheSize int    `toml:"texture_cache_size"`
}

// ThemeConfig selects the color theme.
type ThemeConfig struct {
	// Name is a built-in theme or one defined in File.
	Name string `toml:"name"`
	// File is an optional YAML theme file.
	File string `toml:"file"`
	// Watch reloads File when it changes.
	Watch bool `toml:"watch"`
}

// LogConfig configures logging.
type LogConfig struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
	Format  string `toml:"format"`
	// File receives log output; empty means stderr.
	File string `toml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Width:   80,
			Height:  24,
			Tileset: "gomono-10x20",
		},
		Render: RenderConfig{
			MaxFPS:     30,
			ClearColor: "#000000",
		},
		Theme: ThemeConfig{
			Name: "solarized-dark",
		},
		Log: LogConfig{
			Enabled: true,
			Level:   "info",
			Format:  "console",
		},
	}
}

// ClearColor returns the parsed render.clear_color.
func (c *Config) ClearColor() core.Color {
	col, err := core.ColorFromHex(c.Render.ClearColor)
	if err != nil {
		return core.ColorBlack
	}
	return col
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	return load(path, newEnvLoader())
}

func load(path string, env loader.Loader) (*Config, error) {
	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, err
		}
		file, err := loader.NewTOMLLoader(path).LoadWithIncludes(path, maxIncludeDepth)
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, file)
	}

	overrides, err := env.Load()
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	merged = loader.DeepMerge(merged, overrides)

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newEnvLoader() *loader.EnvLoader {
	l := loader.NewEnvLoader(EnvPrefix, "grid", "render", "theme", "log")
	l.AddMapping(EnvPrefix+"THEME", "theme.name")
	l.AddMapping(EnvPrefix+"TILESET", "grid.tileset")
	return l
}

// toMap converts cfg to the generic form the loaders produce.
func toMap(cfg *Config) (map[string]any, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	m := make(map[string]any)
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}
	return m, nil
}

// decode converts the merged map to a Config, rejecting unknown keys and
// mistyped values.
func decode(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	cfg := &Config{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			var errs []error
			for _, e := range strict.Errors {
				errs = append(errs, &ValidationError{
					Path:    strings.Join(e.Key(), "."),
					Message: "unknown setting",
					Code:    ErrCodeUnknownSetting,
				})
			}
			return nil, errors.Join(errs...)
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			return nil, &ValidationError{
				Path:    strings.Join(derr.Key(), "."),
				Message: derr.Error(),
				Code:    ErrCodeTypeMismatch,
			}
		}
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
