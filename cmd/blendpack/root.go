// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for blendpack.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"blendpack/internal/config"
	"blendpack/internal/issue"
	"blendpack/internal/registry"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the loaded configuration, populated by initRootConfig.
	cfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "blendpack",
		Short: "Package and install Blender add-ons",
		Long: TitleStyle.Render("blendpack") + SubtitleStyle.Render(" - Package and install Blender add-ons") + `

blendpack builds distributable ZIP archives from Blender add-on source
directories. The add-on's files are staged under a canonical folder name
derived from its bl_info metadata, so the archive installs cleanly
through Blender's add-on preferences or 'blendpack install'.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Scaffold an add-on with: blendpack create "My Tools"
  2. Edit its __init__.py
  3. Build the archive with: blendpack package ./my-tools

` + SubtitleStyle.Render("Examples:") + `
  blendpack package .            Package the add-on in the current directory
  blendpack validate ./my-tools  Check an add-on without packaging it
  blendpack info ./my-tools      Show an add-on's metadata
  blendpack install my-tools.zip Install an archive into Blender
  blendpack history              Show packaging and install history`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/blendpack/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	loaded, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if loaded != nil {
		cfg = loaded
	}

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// registryPath resolves the history database location from config or the
// platform data directory.
func registryPath() (string, error) {
	if cfg.Registry.Path != "" {
		return cfg.Registry.Path, nil
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, registry.DBFileName), nil
}

// openRegistry opens the history database at the configured location.
func openRegistry() (*registry.Registry, error) {
	path, err := registryPath()
	if err != nil {
		return nil, err
	}
	return registry.Open(path)
}

// recordEvent records an event in the registry, logging instead of failing
// when the registry is unavailable. History is advisory; the primary
// operation has already succeeded by the time this runs.
func recordEvent(e registry.Event) {
	reg, err := openRegistry()
	if err != nil {
		log.Debug("skipping history record", "err", err)
		return
	}
	defer func() { _ = reg.Close() }()

	if err := reg.Record(e); err != nil {
		log.Debug("failed to record history event", "err", err)
	}
}
