// SPDX-License-Identifier: MPL-2.0

package install

import (
	"os"
	"path/filepath"
	"testing"

	"blendpack/pkg/addon"
)

// packageFixture scaffolds an add-on and packages it, returning the archive path.
func packageFixture(t *testing.T, displayName string) string {
	t.Helper()
	dir := t.TempDir()
	addonPath, err := addon.Create(addon.CreateOptions{Name: displayName, ParentDir: dir})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	archivePath, err := addon.Package(addon.PackageOptions{SourceDir: addonPath})
	if err != nil {
		t.Fatalf("Package() failed: %v", err)
	}
	return archivePath
}

func TestAddonsDir(t *testing.T) {
	t.Parallel()

	t.Run("override wins", func(t *testing.T) {
		t.Parallel()
		dir, err := AddonsDir("/custom/addons")
		if err != nil {
			t.Fatalf("AddonsDir() failed: %v", err)
		}
		if dir != "/custom/addons" {
			t.Errorf("AddonsDir() = %q", dir)
		}
	})
}

func TestNewestVersionDir(t *testing.T) {
	t.Parallel()

	t.Run("picks highest version numerically", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		for _, name := range []string{"3.6", "4.2", "4.10", "config", "notes.txt"} {
			if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
				t.Fatal(err)
			}
		}

		got, err := newestVersionDir(root)
		if err != nil {
			t.Fatalf("newestVersionDir() failed: %v", err)
		}
		// 4.10 > 4.2 numerically, not lexically
		if got != "4.10" {
			t.Errorf("newestVersionDir() = %q, expected %q", got, "4.10")
		}
	})

	t.Run("no version directories", func(t *testing.T) {
		t.Parallel()
		if _, err := newestVersionDir(t.TempDir()); err == nil {
			t.Error("expected error for root without version directories")
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		if _, err := newestVersionDir(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("expected error for missing root")
		}
	})
}

func TestInstall(t *testing.T) {
	t.Parallel()

	t.Run("installs into the add-ons directory", func(t *testing.T) {
		t.Parallel()
		archivePath := packageFixture(t, "Nino's Tools")
		addonsDir := filepath.Join(t.TempDir(), "addons")

		a, err := Install(archivePath, addonsDir, false)
		if err != nil {
			t.Fatalf("Install() failed: %v", err)
		}
		if a.Slug != "nino-tools" {
			t.Errorf("installed slug = %q", a.Slug)
		}
		if filepath.Dir(a.Path) != addonsDir {
			t.Errorf("installed path = %q, expected inside %q", a.Path, addonsDir)
		}
	})

	t.Run("refuses reinstall without overwrite", func(t *testing.T) {
		t.Parallel()
		archivePath := packageFixture(t, "My Tools")
		addonsDir := t.TempDir()

		if _, err := Install(archivePath, addonsDir, false); err != nil {
			t.Fatalf("first Install() failed: %v", err)
		}
		if _, err := Install(archivePath, addonsDir, false); err == nil {
			t.Error("expected error for reinstall without overwrite")
		}
		if _, err := Install(archivePath, addonsDir, true); err != nil {
			t.Errorf("Install() with overwrite failed: %v", err)
		}
	})
}

func TestUninstall(t *testing.T) {
	t.Parallel()

	t.Run("removes an installed add-on", func(t *testing.T) {
		t.Parallel()
		archivePath := packageFixture(t, "My Tools")
		addonsDir := t.TempDir()

		a, err := Install(archivePath, addonsDir, false)
		if err != nil {
			t.Fatalf("Install() failed: %v", err)
		}

		if err := Uninstall("my-tools", addonsDir); err != nil {
			t.Fatalf("Uninstall() failed: %v", err)
		}
		if _, err := os.Stat(a.Path); !os.IsNotExist(err) {
			t.Error("add-on directory still exists after Uninstall()")
		}
	})

	t.Run("not installed", func(t *testing.T) {
		t.Parallel()
		if err := Uninstall("ghost-tools", t.TempDir()); err == nil {
			t.Error("expected error for add-on that is not installed")
		}
	})

	t.Run("refuses non add-on directory", func(t *testing.T) {
		t.Parallel()
		addonsDir := t.TempDir()
		if err := os.Mkdir(filepath.Join(addonsDir, "just-a-dir"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := Uninstall("just-a-dir", addonsDir); err == nil {
			t.Error("expected error for directory without " + addon.InitFileName)
		}
	})

	t.Run("invalid slug", func(t *testing.T) {
		t.Parallel()
		if err := Uninstall("../escape", t.TempDir()); err == nil {
			t.Error("expected error for invalid slug")
		}
	})
}
