// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OutputDir != "" {
		t.Errorf("OutputDir = %q, expected empty default", cfg.OutputDir)
	}
	if cfg.UI.Verbose {
		t.Error("UI.Verbose should default to false")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	content := `output_dir = "/tmp/dist"

[package]
include = ["*.py", "assets/*.png"]
exclude = ["*.blend1"]

[hooks]
pre_package = "echo before"

[install]
addons_dir = "/tmp/addons"

[ui]
verbose = true
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OutputDir != "/tmp/dist" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if len(cfg.Package.Include) != 2 || cfg.Package.Include[1] != "assets/*.png" {
		t.Errorf("Package.Include = %v", cfg.Package.Include)
	}
	if cfg.Hooks.PrePackage != "echo before" {
		t.Errorf("Hooks.PrePackage = %q", cfg.Hooks.PrePackage)
	}
	if cfg.Install.AddonsDir != "/tmp/addons" {
		t.Errorf("Install.AddonsDir = %q", cfg.Install.AddonsDir)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, expected true from file")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	if err := os.WriteFile(filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), []byte("output_dir = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error for invalid TOML")
	}
}

func TestConfigFilePathOverride(t *testing.T) {
	t.Cleanup(Reset)

	t.Run("missing explicit file is an error", func(t *testing.T) {
		SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.toml"))
		if _, err := Load(); err == nil {
			t.Error("Load() = nil error for missing explicit config file")
		}
		Reset()
	})

	t.Run("explicit file is used", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		if err := os.WriteFile(path, []byte("[ui]\nverbose = true\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		SetConfigFilePathOverride(path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if !cfg.UI.Verbose {
			t.Error("explicit config file was not applied")
		}
		Reset()
	})
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	t.Setenv("BLENDPACK_OUTPUT_DIR", "/env/dist")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.OutputDir != "/env/dist" {
		t.Errorf("OutputDir = %q, expected env override", cfg.OutputDir)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	want := DefaultConfig()
	want.OutputDir = "/tmp/dist"
	want.Hooks.PostPackage = "echo done"
	want.UI.Verbose = true

	if err := Save(want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save() failed: %v", err)
	}
	if got.OutputDir != want.OutputDir {
		t.Errorf("OutputDir = %q, expected %q", got.OutputDir, want.OutputDir)
	}
	if got.Hooks.PostPackage != want.Hooks.PostPackage {
		t.Errorf("Hooks.PostPackage = %q", got.Hooks.PostPackage)
	}
	if !got.UI.Verbose {
		t.Error("UI.Verbose not persisted")
	}
}

func TestEnsureConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "blendpack")
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("config dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("config dir path is not a directory")
	}
}

func TestConfigFilePath(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, err := ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() failed: %v", err)
	}
	expected := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if path != expected {
		t.Errorf("ConfigFilePath() = %q, expected %q", path, expected)
	}
}
