// SPDX-License-Identifier: MPL-2.0

package config

type (
	// Config is the root configuration structure.
	Config struct {
		// OutputDir is where packaged archives are written when set.
		// Empty means next to the add-on source directory.
		OutputDir string `mapstructure:"output_dir" toml:"output_dir"`

		// Package controls file selection during packaging.
		Package PackageConfig `mapstructure:"package" toml:"package"`

		// Hooks are shell snippets run around packaging.
		Hooks HooksConfig `mapstructure:"hooks" toml:"hooks"`

		// Install controls where add-ons are installed.
		Install InstallConfig `mapstructure:"install" toml:"install"`

		// Registry controls the packaging/install history database.
		Registry RegistryConfig `mapstructure:"registry" toml:"registry"`

		// UI controls output behavior.
		UI UIConfig `mapstructure:"ui" toml:"ui"`
	}

	// PackageConfig selects which files are staged into archives.
	PackageConfig struct {
		// Include replaces the default include patterns when non-empty.
		Include []string `mapstructure:"include" toml:"include"`
		// Exclude adds glob patterns on top of the built-in excludes.
		Exclude []string `mapstructure:"exclude" toml:"exclude"`
	}

	// HooksConfig holds shell snippets run around packaging.
	// Hooks run in a built-in POSIX shell interpreter, so they behave
	// the same on every platform.
	HooksConfig struct {
		// PrePackage runs before staging; a failure aborts packaging.
		PrePackage string `mapstructure:"pre_package" toml:"pre_package"`
		// PostPackage runs after the archive is in place; a failure is
		// reported but the archive is kept.
		PostPackage string `mapstructure:"post_package" toml:"post_package"`
	}

	// InstallConfig controls add-on installation.
	InstallConfig struct {
		// AddonsDir overrides the detected Blender add-ons directory.
		AddonsDir string `mapstructure:"addons_dir" toml:"addons_dir"`
	}

	// RegistryConfig controls the history database.
	RegistryConfig struct {
		// Path overrides the default registry database location.
		Path string `mapstructure:"path" toml:"path"`
	}

	// UIConfig holds UI preferences.
	UIConfig struct {
		// Verbose enables detailed diagnostic output.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Package: PackageConfig{},
		UI:      UIConfig{Verbose: false},
	}
}
