package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daysuntil/internal/adapter/output"
	"github.com/jmylchreest/daysuntil/internal/countdown"
	"github.com/jmylchreest/daysuntil/internal/message"
	"github.com/jmylchreest/daysuntil/internal/settings"
)

var setOpts settingsFlags

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change stored settings",
	Long: `Change the stored theme, label or event.

Only the flags given are changed. A running face picks up the new settings
from the settings file.

Examples:
  # Count down to a launch
  daysuntil set --event "2026-03-01 09:30" --label "launch"

  # Switch to the light theme
  daysuntil set --theme light`,
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setOpts.register(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	msg, err := setOpts.build(cmd)
	if err != nil {
		return err
	}

	st := settings.New(settingsKV, nil, logger)
	st.Load()
	message.NewHandler(st, logger).Handle(msg)

	now := time.Now()
	snap := countdown.Compute(now, st.Target(), cfg.Clock24h())
	status := output.NewStatus(now, snap, st.Label(), st.Theme())

	return output.NewLineFormatter(output.DefaultFormatterOptions()).Format(cmd.OutOrStdout(), status)
}
