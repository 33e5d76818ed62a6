// Package main provides the CLI entrypoint for daysuntil.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daysuntil/internal/config"
	"github.com/jmylchreest/daysuntil/internal/store"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose      bool
		settingsFile string
		configPath   string
	}
	logger *slog.Logger

	// settingsKV is the settings file shared by all commands
	settingsKV *store.FileKV
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "daysuntil",
	Short: "Countdown to an event in your terminal",
	Long: `daysuntil shows the current time and the number of whole days left until
an event.

The event, its label and the colour theme are stored in a settings file and
can be changed from the command line (set), from a companion over D-Bus
(send), or with the face's own key bindings.

Running daysuntil without a subcommand launches the face.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		path, err := settingsPath()
		if err != nil {
			return err
		}

		settingsKV, err = store.NewFileKV(path)
		if err != nil {
			return fmt.Errorf("failed to open settings: %w", err)
		}
		logger.Debug("settings opened", "path", path)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if settingsKV != nil {
			return settingsKV.Close()
		}
		return nil
	},
	// Default to the face when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFace(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.settingsFile, "settings-file", "",
		"Path to settings file (default: ~/.local/share/daysuntil/settings.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/daysuntil/config.toml)")

	rootCmd.Flags().BoolVar(&faceOpts.headless, "headless", false,
		"Run without a terminal UI, printing a status line on every change")
	rootCmd.Flags().StringVar(&faceOpts.format, "format", "line",
		"Headless output format (plain, line, json, yaml)")
}

// settingsPath resolves the settings file: flag, then config, then default.
func settingsPath() (string, error) {
	if globalOpts.settingsFile != "" {
		return globalOpts.settingsFile, nil
	}
	if path := cfg.SettingsPath(); path != "" {
		return path, nil
	}
	path, err := store.SettingsPath()
	if err != nil {
		return "", fmt.Errorf("failed to resolve settings path: %w", err)
	}
	return path, nil
}

// logLevel returns the level selected by --verbose.
func logLevel() slog.Level {
	if globalOpts.verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// setupLogger configures the global slog logger.
func setupLogger() {
	opts := &slog.HandlerOptions{
		Level: logLevel(),
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
