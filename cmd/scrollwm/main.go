// Command scrollwm is a scrolling tiling window manager for X11. Windows on
// each monitor sit side by side on an endless horizontal strip that scrolls
// to keep the focused window visible.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/scrollwm/internal/config"
)

// Version information (set by the release build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	configPath  string
	displayName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scrollwm",
		Short: "Scrolling tiling window manager for X11",
		Long: `scrollwm - scrolling tiling window manager

Lays out windows as a horizontal strip per monitor, full height, and scrolls
the strip so the focused window is always on screen.`,
		Example: `  # Start the window manager (from .xinitrc)
  exec scrollwm

  # Check a config file before reloading
  scrollwm config validate --config ~/scrollwm.yaml

  # Show the active key bindings
  scrollwm bindings`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $XDG_CONFIG_HOME/scrollwm/config.yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the window manager (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVar(&displayName, "display", "", "X display to manage (default: $DISPLAY)")
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scrollwm %s (commit %s, built %s)\n", version, commit, date)
		},
	}

	rootCmd.AddCommand(runCmd, newConfigCmd(), newBindingsCmd(), versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config when given, the standard location otherwise.
func loadConfig() (*config.LoadResult, error) {
	if configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(configPath)
}

// watchedConfigPath is the file hot reload follows, whether or not it
// exists yet.
func watchedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultConfigPath()
}
