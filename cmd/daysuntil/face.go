package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daysuntil/internal/adapter/output"
	"github.com/jmylchreest/daysuntil/internal/config"
	"github.com/jmylchreest/daysuntil/internal/face"
)

var faceOpts struct {
	headless bool
	format   string
}

var faceCmd = &cobra.Command{
	Use:   "face",
	Short: "Launch the countdown face",
	Long: `Launch the countdown face: the current time, the number of whole days
until the event, and the event label.

The face redraws every minute, accepts settings from a companion over D-Bus
and picks up changes written by "daysuntil set".

Key bindings:
  t           Toggle dark/light theme
  r           Refresh
  c           Copy "N days until <label>" to clipboard
  ?           Show help
  q           Quit

With --headless no terminal UI is drawn; a status line is printed whenever
the display would change.`,
	RunE: runFace,
}

func init() {
	rootCmd.AddCommand(faceCmd)

	faceCmd.Flags().BoolVar(&faceOpts.headless, "headless", false,
		"Run without a terminal UI, printing a status line on every change")
	faceCmd.Flags().StringVar(&faceOpts.format, "format", "line",
		"Headless output format (plain, line, json, yaml)")
}

func runFace(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if faceOpts.headless {
		format := output.FormatType(faceOpts.format)
		if !slices.Contains(output.ValidFormats(), format) {
			return fmt.Errorf("invalid format %q (valid: %v)", faceOpts.format, output.ValidFormats())
		}

		logger.Info("starting headless face", "version", version)
		return face.RunHeadless(ctx, face.HeadlessOptions{
			Config:  cfg,
			KV:      settingsKV,
			Out:     cmd.OutOrStdout(),
			Format:  format,
			Logger:  logger,
			Version: version,
		})
	}

	// The alt screen owns the terminal; send logs to a file instead
	faceLogger, closeLog, err := fileLogger(config.LogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	return face.Run(ctx, face.RunOptions{
		Config:  cfg,
		KV:      settingsKV,
		Logger:  faceLogger,
		Version: version,
	})
}

// fileLogger returns a logger writing to path at the --verbose level.
func fileLogger(path string) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel()}))
	return l, func() { f.Close() }, nil
}
