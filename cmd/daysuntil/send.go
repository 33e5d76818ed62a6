package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daysuntil/internal/dbus"
)

var sendOpts settingsFlags

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send settings to a running face",
	Long: `Send a settings message to a running face over the D-Bus session bus,
the same way a companion does.

The face stores the settings and redraws immediately. Prints the id the
face assigned to the message.

Examples:
  daysuntil send --label "holiday" --event 2026-12-24`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendOpts.register(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	msg, err := sendOpts.build(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Companion.Timeout.Duration())
	defer cancel()

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	if !client.Running(ctx) {
		return fmt.Errorf("no face is running on the session bus (use 'daysuntil set' instead)")
	}

	id, err := client.Send(ctx, msg)
	if err != nil {
		return err
	}

	logger.Debug("settings sent", "id", id)
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
