package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

type staticEnv map[string]any

func (e staticEnv) Load() (map[string]any, error) { return e, nil }

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tilegrid.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Layers(t *testing.T) {
	path := writeConfig(t, `
[grid]
width = 50
height = 30

[render]
clear_color = "#102030"
`)
	env := staticEnv{"grid": map[string]any{"height": int64(40)}}

	cfg, err := load(path, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Grid.Width != 50 {
		t.Errorf("expected file width 50, got %d", cfg.Grid.Width)
	}
	if cfg.Grid.Height != 40 {
		t.Errorf("expected environment height 40, got %d", cfg.Grid.Height)
	}
	if cfg.Grid.Tileset != "gomono-10x20" {
		t.Errorf("expected default tileset, got %q", cfg.Grid.Tileset)
	}
	if got := cfg.ClearColor(); !got.Equals(core.MustColorFromHex("#102030")) {
		t.Errorf("expected clear color #102030, got %v", got)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := load("", staticEnv{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Grid.Width != 80 || cfg.Theme.Name != "solarized-dark" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "missing.toml"), staticEnv{})
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestLoad_UnknownSetting(t *testing.T) {
	path := writeConfig(t, `
[grid]
widht = 10
`)
	_, err := load(path, staticEnv{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Code != ErrCodeUnknownSetting || verr.Path != "grid.widht" {
		t.Errorf("expected unknown grid.widht, got %v %q", verr.Code, verr.Path)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TILEGRID_THEME", "gamebook")
	t.Setenv("TILEGRID_RENDER_MAX_FPS", "12")
	t.Setenv("TILEGRID_CONFIG", "ignored")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme.Name != "gamebook" {
		t.Errorf("expected theme gamebook, got %q", cfg.Theme.Name)
	}
	if cfg.Render.MaxFPS != 12 {
		t.Errorf("expected max_fps 12, got %d", cfg.Render.MaxFPS)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero width", func(c *Config) { c.Grid.Width = 0 }, "grid.width"},
		{"huge height", func(c *Config) { c.Grid.Height = MaxGridCells + 1 }, "grid.height"},
		{"no tileset", func(c *Config) { c.Grid.Tileset = "" }, "grid.tileset"},
		{"fps", func(c *Config) { c.Render.MaxFPS = -1 }, "render.max_fps"},
		{"clear color", func(c *Config) { c.Render.ClearColor = "black" }, "render.clear_color"},
		{"cache size", func(c *Config) { c.Render.TextureCacheSize = -5 }, "render.texture_cache_size"},
		{"unknown theme", func(c *Config) { c.Theme.Name = "neon" }, "theme.name"},
		{"watch without file", func(c *Config) { c.Theme.Watch = true }, "theme.watch"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected ErrValidationFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.path) {
				t.Errorf("expected error about %s, got %v", tt.path, err)
			}
		})
	}
}

func TestValidate_ThemeFromFile(t *testing.T) {
	cfg := Default()
	cfg.Theme.Name = "custom"
	cfg.Theme.File = "themes.yaml"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected file themes to skip built-in lookup, got %v", err)
	}
}

func TestValidationErrorCode_String(t *testing.T) {
	if got := ErrCodeOutOfRange.String(); got != "out_of_range" {
		t.Errorf("expected out_of_range, got %q", got)
	}
	if got := ValidationErrorCode(99).String(); got != "unknown" {
		t.Errorf("expected unknown, got %q", got)
	}
}
