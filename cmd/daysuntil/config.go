package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/daysuntil/internal/config"
)

var configOpts struct {
	write bool
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the configuration",
	Long: `Print the effective configuration (defaults overlaid with the config
file) as TOML.

With --write the effective configuration is saved to the config file, which
is a convenient way to create one with every option filled in.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configOpts.write, "write", false,
		"Save the effective configuration to the config file")
	configCmd.Flags().BoolVar(&configOpts.force, "force", false,
		"Overwrite an existing config file with --write")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if !configOpts.write {
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	}

	path := globalOpts.configPath
	if path == "" {
		path = config.ConfigPath()
	}

	if !configOpts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
