// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists blendpack's user configuration.
//
// Configuration is layered: built-in defaults, then the TOML config file,
// then BLENDPACK_* environment variables. The config file lives in a
// platform-specific directory (see ConfigDir).
package config
