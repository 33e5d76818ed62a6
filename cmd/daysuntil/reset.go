package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetOpts struct {
	yes bool
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget stored settings",
	Long: `Remove every stored setting. The face falls back to the dark theme,
the default label and the default event.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&resetOpts.yes, "yes", "y", false,
		"Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetOpts.yes {
		return fmt.Errorf("refusing to reset %s without --yes", settingsKV.Path())
	}

	if err := settingsKV.Clear(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	logger.Info("settings reset", "path", settingsKV.Path())
	fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to defaults")
	return nil
}
