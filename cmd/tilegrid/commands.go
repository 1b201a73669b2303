package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/tilegrid/internal/app"
	"github.com/dshills/tilegrid/internal/config"
	"github.com/dshills/tilegrid/internal/logging"
	"github.com/dshills/tilegrid/internal/renderer/backend"
	"github.com/dshills/tilegrid/internal/renderer/tileset"
	"github.com/dshills/tilegrid/internal/theme"
)

// Shared flags
var (
	configPath  string
	themeName   string
	tilesetName string
	gridWidth   int
	gridHeight  int
	outputPath  string
	showStatus  bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Built-in color theme (overrides theme.name)")
	rootCmd.PersistentFlags().StringVar(&tilesetName, "tileset", "", "Grid tileset ID (overrides grid.tileset)")
	rootCmd.PersistentFlags().IntVar(&gridWidth, "width", 0, "Grid width in cells (overrides grid.width)")
	rootCmd.PersistentFlags().IntVar(&gridHeight, "height", 0, "Grid height in cells (overrides grid.height)")

	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "tilegrid.png", "PNG file to write")
	renderCmd.Flags().BoolVar(&showStatus, "status", true, "Draw the status line layer")

	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(tilesetsCmd)
	rootCmd.AddCommand(configCmd)
}

// renderCmd writes one frame of the demo scene as a PNG.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the demo scene to a PNG file",
	Example: `  # Render with the default settings
  tilegrid render -o demo.png

  # Cyberpunk theme, small bitmap font
  tilegrid render --theme cyberpunk --tileset basic-7x13 -o demo.png`,
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := app.New(cfg,
		app.WithLogger(logger),
		app.WithPixelSurface(backend.NewPNGFileSurface(outputPath)))
	if err != nil {
		return err
	}
	defer a.Close()

	status := ""
	if showStatus {
		status = statusLine(a)
	}
	if err := buildDemo(a.Grid(), status); err != nil {
		return err
	}
	a.Grid().ApplyColorTheme(a.Theme())

	if err := a.RenderOnce(cmd.Context()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	stats := a.RenderStats()
	logger.Info("frame written",
		zap.String("path", outputPath),
		zap.Int("width", a.Grid().WidthInPixels()),
		zap.Int("height", a.Grid().HeightInPixels()),
		zap.Uint64("tiles", stats.TilesDrawn),
		zap.Duration("took", stats.LastFrame))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", outputPath, a.Grid().WidthInPixels(), a.Grid().HeightInPixels())
	return nil
}

// runCmd shows the demo scene in the terminal until q, Esc or Ctrl-C.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the demo scene in the terminal",
	Long: `Show the demo scene in the terminal, one tile per cell.

Press q, Esc or Ctrl-C to quit. Logging goes to log.file when set and is
otherwise disabled so it does not draw over the screen.`,
	RunE: runTerminal,
}

func runTerminal(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("run needs a terminal; use 'tilegrid render' instead")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	a, err := app.New(cfg, app.WithLogger(logger), app.WithBackend(screen))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := buildDemo(a.Grid(), statusLine(a)+"  q: quit"); err != nil {
		return err
	}
	a.Grid().ApplyColorTheme(a.Theme())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in color themes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range theme.Names() {
			t, _ := theme.Lookup(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s fg %s  bg %s  accent %s\n",
				name, t.PrimaryForeground, t.PrimaryBackground, t.Accent)
		}
	},
}

var tilesetsCmd = &cobra.Command{
	Use:   "tilesets",
	Short: "List the built-in tilesets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, res := range tileset.NewLoader(tileset.DefaultOptions()).Resources() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s %dx%d\n", res.ID, res.Kind, res.Width, res.Height)
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	changed := false
	if flags.Changed("theme") {
		cfg.Theme.Name = themeName
		cfg.Theme.File = ""
		cfg.Theme.Watch = false
		changed = true
	}
	if flags.Changed("tileset") {
		cfg.Grid.Tileset = tilesetName
		changed = true
	}
	if flags.Changed("width") {
		cfg.Grid.Width = gridWidth
		changed = true
	}
	if flags.Changed("height") {
		cfg.Grid.Height = gridHeight
		changed = true
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
	}
	return cfg, nil
}

// newLogger builds the logger from cfg.Log. In terminal mode logging to
// stderr is turned off.
func newLogger(cfg *config.Config, terminal bool) (*zap.Logger, func(), error) {
	lc := logging.Config{
		Enabled: cfg.Log.Enabled,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
	}
	if terminal && lc.File == "" {
		lc.Enabled = false
	}
	return logging.New(lc)
}

func statusLine(a *app.Application) string {
	g := a.Grid()
	return fmt.Sprintf(" tilegrid %s | %s | %s %s", version, a.Theme().Name, g.Tileset().ID, g.Size())
}
