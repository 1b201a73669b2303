// Tilegrid renders tile-grid component trees.
//
// It builds a grid from a TOML configuration, composes a demo scene of
// panels, labels and buttons, and presents it either as a PNG image or in
// the terminal.
//
// Usage:
//
//	tilegrid [command] [flags]
//
// See 'tilegrid --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilegrid",
	Short: "Tile grid composition and rendering",
	Long: `Tilegrid composes component trees (panels, labels, buttons, headers)
on a grid of tiles and renders them through bitmap or atlas tilesets.

Settings are read from a TOML file (--config) and TILEGRID_* environment
variables; a few common settings can be overridden with flags.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(fmt.Sprintf("tilegrid %s (commit: %s, built: %s)\n", version, commit, date))

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tilegrid %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
