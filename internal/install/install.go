// SPDX-License-Identifier: MPL-2.0

// Package install locates the Blender add-ons directory and installs
// packaged add-ons into it.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"blendpack/internal/issue"
	"blendpack/internal/platform"
	"blendpack/pkg/addon"
)

// versionDirRegex matches Blender version directories like "4.2" or "3.6".
var versionDirRegex = regexp.MustCompile(`^\d+\.\d+$`)

// BlenderRoot returns the per-user Blender configuration root that holds
// one directory per Blender version.
func BlenderRoot() (string, error) {
	switch runtime.GOOS {
	case platform.Windows:
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(appData, "Blender Foundation", "Blender"), nil
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "Blender"), nil
	default: // Linux and others
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
		return filepath.Join(configDir, "blender"), nil
	}
}

// AddonsDir resolves the add-ons directory for the newest Blender version
// found under the per-user Blender root. When override is non-empty it is
// used directly.
func AddonsDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	root, err := BlenderRoot()
	if err != nil {
		return "", err
	}

	version, err := newestVersionDir(root)
	if err != nil {
		return "", err
	}

	return filepath.Join(root, version, "scripts", "addons"), nil
}

// newestVersionDir returns the highest "major.minor" directory name under root.
func newestVersionDir(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("locate Blender installation").
			WithResource(root).
			WithSuggestion("Run Blender at least once so it creates its configuration directory").
			WithSuggestion("Or set install.addons_dir in the blendpack config").
			Wrap(err).
			BuildError()
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() && versionDirRegex.MatchString(entry.Name()) {
			versions = append(versions, entry.Name())
		}
	}
	if len(versions) == 0 {
		return "", issue.NewErrorContext().
			WithOperation("locate Blender installation").
			WithResource(root).
			WithSuggestion("Run Blender at least once so it creates its configuration directory").
			WithSuggestion("Or set install.addons_dir in the blendpack config").
			Wrap(fmt.Errorf("no Blender version directories found")).
			BuildError()
	}

	sort.Slice(versions, func(i, j int) bool {
		return compareVersions(versions[i], versions[j]) < 0
	})
	return versions[len(versions)-1], nil
}

// compareVersions compares two "major.minor" strings numerically.
func compareVersions(a, b string) int {
	aParts := strings.SplitN(a, ".", 2)
	bParts := strings.SplitN(b, ".", 2)
	for i := 0; i < 2; i++ {
		av, _ := strconv.Atoi(aParts[i])
		bv, _ := strconv.Atoi(bParts[i])
		if av != bv {
			return av - bv
		}
	}
	return 0
}

// Install extracts the archive into the add-ons directory and returns the
// installed add-on. An existing add-on with the same slug is replaced only
// when overwrite is true.
func Install(archivePath, addonsDir string, overwrite bool) (*addon.Addon, error) {
	if err := os.MkdirAll(addonsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create add-ons directory: %w", err)
	}

	extractedPath, err := addon.Unpack(addon.UnpackOptions{
		Source:    archivePath,
		DestDir:   addonsDir,
		Overwrite: overwrite,
	})
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("install add-on").
			WithResource(archivePath).
			WithSuggestion("Check that the archive was produced by 'blendpack package'").
			Wrap(err).
			BuildError()
	}

	return addon.Load(extractedPath)
}

// Uninstall removes the add-on directory named slug from the add-ons
// directory. It refuses to operate on anything that is not a directory
// containing an add-on.
func Uninstall(slug, addonsDir string) error {
	if err := addon.ValidateSlug(slug); err != nil {
		return err
	}

	addonPath := filepath.Join(addonsDir, slug)
	info, err := os.Stat(addonPath)
	if os.IsNotExist(err) {
		return issue.NewErrorContext().
			WithOperation("uninstall add-on").
			WithResource(slug).
			WithSuggestion("Run 'blendpack history' to see installed add-ons").
			Wrap(fmt.Errorf("add-on not installed: %s", addonPath)).
			BuildError()
	}
	if err != nil {
		return fmt.Errorf("failed to stat add-on directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not an add-on directory: %s", addonPath)
	}
	if !addon.IsAddon(addonPath) {
		return fmt.Errorf("refusing to remove %s: no %s found", addonPath, addon.InitFileName)
	}

	if err := os.RemoveAll(addonPath); err != nil {
		return fmt.Errorf("failed to remove add-on: %w", err)
	}
	return nil
}
