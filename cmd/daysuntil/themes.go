package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/daysuntil/internal/config"
	"github.com/jmylchreest/daysuntil/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List colour palettes",
	Long: `List the bundled palettes and any user palettes found in
~/.config/daysuntil/themes. The palette selected by [theme] name in the
config file is marked with "*"; if it cannot be loaded the default is
marked instead.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	loader := theme.NewLoader(theme.ThemesDir(config.ConfigDir()), logger)
	if err := loader.LoadTheme(cfg.Theme.Name); err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}

	current := loader.CurrentTheme()
	out := cmd.OutOrStdout()
	for _, name := range loader.ListThemes() {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, name)
	}
	return nil
}
