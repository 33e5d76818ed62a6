package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daysuntil/internal/adapter/output"
	"github.com/jmylchreest/daysuntil/internal/countdown"
	"github.com/jmylchreest/daysuntil/internal/dbus"
	"github.com/jmylchreest/daysuntil/internal/settings"
)

var statusOpts struct {
	format   string
	template string
	noBus    bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the countdown",
	Long: `Print what the face would show right now, read from the settings file.

Formats:
  plain   Multi-line summary (default)
  line    "N days until <label>", for status bars
  json    Machine-readable JSON
  yaml    Machine-readable YAML

The plain and line formats accept a Go template via --template, e.g.:
  daysuntil status --format line --template '{{.DaysRemaining}}d {{truncate .Label 20}}'`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", "plain",
		"Output format (plain, line, json, yaml)")
	statusCmd.Flags().StringVar(&statusOpts.template, "template", "",
		"Go template for plain/line output")
	statusCmd.Flags().BoolVar(&statusOpts.noBus, "no-bus", false,
		"Do not check the session bus for a running face")
}

func runStatus(cmd *cobra.Command, args []string) error {
	format := output.FormatType(statusOpts.format)
	if !slices.Contains(output.ValidFormats(), format) {
		return fmt.Errorf("invalid format %q (valid: %v)", statusOpts.format, output.ValidFormats())
	}

	st := settings.New(settingsKV, nil, logger)
	st.Load()

	now := time.Now()
	snap := countdown.Compute(now, st.Target(), cfg.Clock24h())
	status := output.NewStatus(now, snap, st.Label(), st.Theme())

	if !statusOpts.noBus {
		status.FaceRunning, status.FaceVersion = queryFace(cmd.Context(), cfg.Companion.Timeout.Duration())
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = statusOpts.template

	return output.NewFormatter(format, opts).Format(cmd.OutOrStdout(), status)
}

// queryFace reports whether a face owns the companion bus name and, if it
// answers, its version. Any bus error counts as not running.
func queryFace(ctx context.Context, timeout time.Duration) (running bool, version string) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := dbus.NewClient()
	if err != nil {
		logger.Debug("session bus unavailable", "error", err)
		return false, ""
	}
	if !client.Running(ctx) {
		return false, ""
	}

	info, err := client.ServerInformation(ctx)
	if err != nil {
		logger.Debug("face did not identify itself", "error", err)
		return true, ""
	}
	return true, info.Version
}
