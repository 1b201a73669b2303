package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/tilegrid/internal/component"
	"github.com/dshills/tilegrid/internal/grid"
	"github.com/dshills/tilegrid/internal/renderer/core"
	"github.com/dshills/tilegrid/internal/renderer/tileset"
)

func newDemoGrid(t *testing.T, w, h int) *grid.TileGrid {
	t.Helper()
	g, err := grid.New(core.NewSize(w, h), tileset.GoMono10x20, nil)
	if err != nil {
		t.Fatalf("grid.New() failed: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestBuildDemo(t *testing.T) {
	g := newDemoGrid(t, 80, 24)

	if err := buildDemo(g, "status"); err != nil {
		t.Fatalf("buildDemo() failed: %v", err)
	}

	top := g.Root().Components()
	if len(top) != 1 {
		t.Fatalf("expected 1 top-level component, got %d", len(top))
	}
	panel, ok := top[0].(*component.Container)
	if !ok {
		t.Fatalf("expected a panel, got %T", top[0])
	}
	if got := len(panel.Components()); got != 6 {
		t.Errorf("expected 6 panel children, got %d", got)
	}

	// Button sits right of "Label left " on content row 2, inside the box.
	c, ok := g.FetchComponentByPosition(core.NewPosition(12, 3))
	if !ok || c.Kind() != component.KindButton {
		t.Errorf("expected button at (12,3), got %v", c)
	}

	tile, ok := g.Layers()[len(g.Layers())-1].TileAt(core.NewPosition(0, 23))
	if !ok || tile.Char != 's' {
		t.Errorf("expected status line on the last row, got %v", tile)
	}
}

func TestBuildDemo_SmallGrids(t *testing.T) {
	g := newDemoGrid(t, 20, 8)
	if err := buildDemo(g, ""); err != nil {
		t.Fatalf("buildDemo() failed: %v", err)
	}
	if len(g.Layers()) == 0 {
		t.Error("expected component layers")
	}

	tiny := newDemoGrid(t, 4, 4)
	if err := buildDemo(tiny, ""); err == nil {
		t.Error("expected error for a 4x4 grid")
	}
}

func TestTopRightOf(t *testing.T) {
	label := component.NewLabel("abc", component.WithPosition(core.NewPosition(2, 5)))
	if got := topRightOf(label); got != core.NewPosition(5, 5) {
		t.Errorf("expected (5,5), got %v", got)
	}
}

func TestCommands(t *testing.T) {
	t.Setenv("TILEGRID_LOG_LEVEL", "error")

	t.Run("version", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"version"})
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("Execute() failed: %v", err)
		}
		if !strings.HasPrefix(out.String(), "tilegrid dev") {
			t.Errorf("expected version line, got %q", out.String())
		}
	})

	t.Run("themes", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"themes"})
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("Execute() failed: %v", err)
		}
		if !strings.Contains(out.String(), "cyberpunk") {
			t.Errorf("expected cyberpunk in theme list, got %q", out.String())
		}
	})

	t.Run("render", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "demo.png")
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"render", "-o", path, "--width", "50", "--height", "30", "--theme", "cyberpunk"})
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("Execute() failed: %v", err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer f.Close()
		img, err := png.Decode(f)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := img.Bounds().Size(); got.X != 500 || got.Y != 600 {
			t.Errorf("expected 500x600 pixels, got %v", got)
		}
		if !strings.Contains(out.String(), "wrote") {
			t.Errorf("expected confirmation, got %q", out.String())
		}
	})
}
