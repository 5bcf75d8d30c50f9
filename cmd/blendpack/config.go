// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"blendpack/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	// configCmd is the parent for configuration subcommands
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect blendpack configuration",
	}

	// configShowCmd prints the effective configuration
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	// configPathCmd prints the config file location
	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Show the config file location",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Println()
	fmt.Print(string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	fmt.Println(path)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		fmt.Fprintln(os.Stderr, SubtitleStyle.Render("(file does not exist; defaults are in effect)"))
	}
	return nil
}
