// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleInit = `"""Nino's Tools add-on."""

import bpy

bl_info = {
    "name": "Nino's Tools",
    "author": "Nino",
    "version": (1, 0, 0),
    "blender": (3, 0, 0),
    "location": "View3D > Sidebar > Nino",
    "description": "Small helpers for everyday modeling",
    "warning": "",
    "doc_url": "https://example.com/nino-tools",
    "category": "3D View",
}


def register():
    pass


def unregister():
    pass
`

func TestParseBlInfoBytes(t *testing.T) {
	t.Parallel()

	t.Run("full bl_info dict", func(t *testing.T) {
		t.Parallel()
		info, err := ParseBlInfoBytes([]byte(sampleInit))
		if err != nil {
			t.Fatalf("ParseBlInfoBytes() failed: %v", err)
		}

		if info.Name != "Nino's Tools" {
			t.Errorf("Name = %q, expected %q", info.Name, "Nino's Tools")
		}
		if info.Author != "Nino" {
			t.Errorf("Author = %q, expected %q", info.Author, "Nino")
		}
		if info.Version != (Version{1, 0, 0}) {
			t.Errorf("Version = %v, expected (1, 0, 0)", info.Version)
		}
		if info.Blender != (Version{3, 0, 0}) {
			t.Errorf("Blender = %v, expected (3, 0, 0)", info.Blender)
		}
		if info.Category != "3D View" {
			t.Errorf("Category = %q, expected %q", info.Category, "3D View")
		}
		if info.DocURL != "https://example.com/nino-tools" {
			t.Errorf("DocURL = %q", info.DocURL)
		}
	})

	t.Run("single quotes and comments", func(t *testing.T) {
		t.Parallel()
		src := `bl_info = {
    # metadata
    'name': 'My Tools',  # display name
    'version': (0, 2),
}`
		info, err := ParseBlInfoBytes([]byte(src))
		if err != nil {
			t.Fatalf("ParseBlInfoBytes() failed: %v", err)
		}
		if info.Name != "My Tools" {
			t.Errorf("Name = %q, expected %q", info.Name, "My Tools")
		}
		if info.Version != (Version{0, 2, 0}) {
			t.Errorf("Version = %v, expected (0, 2, 0)", info.Version)
		}
	})

	t.Run("unknown keys are skipped", func(t *testing.T) {
		t.Parallel()
		src := `bl_info = {
    "name": "My Tools",
    "support": "COMMUNITY",
    "tracker_url": "https://example.com/issues",
    "custom_list": ["a", "b", {"nested": 1}],
}`
		info, err := ParseBlInfoBytes([]byte(src))
		if err != nil {
			t.Fatalf("ParseBlInfoBytes() failed: %v", err)
		}
		if info.Name != "My Tools" {
			t.Errorf("Name = %q, expected %q", info.Name, "My Tools")
		}
	})

	t.Run("bl_info in a comment is ignored", func(t *testing.T) {
		t.Parallel()
		src := `# bl_info = {"name": "Fake"}
x = 1
`
		_, err := ParseBlInfoBytes([]byte(src))
		if !errors.Is(err, ErrBlInfoNotFound) {
			t.Errorf("expected ErrBlInfoNotFound, got %v", err)
		}
	})

	t.Run("missing bl_info", func(t *testing.T) {
		t.Parallel()
		_, err := ParseBlInfoBytes([]byte("import bpy\n"))
		if !errors.Is(err, ErrBlInfoNotFound) {
			t.Errorf("expected ErrBlInfoNotFound, got %v", err)
		}
	})

	t.Run("missing name entry", func(t *testing.T) {
		t.Parallel()
		_, err := ParseBlInfoBytes([]byte(`bl_info = {"category": "Mesh"}`))
		if err == nil {
			t.Error("expected error for bl_info without name")
		}
	})

	t.Run("unclosed dict", func(t *testing.T) {
		t.Parallel()
		_, err := ParseBlInfoBytes([]byte(`bl_info = {"name": "X",`))
		if err == nil {
			t.Error("expected error for unclosed dict")
		}
	})

	t.Run("escaped quotes in strings", func(t *testing.T) {
		t.Parallel()
		src := `bl_info = {"name": "Tom\"s \"Tools\"", "description": "line1\nline2"}`
		info, err := ParseBlInfoBytes([]byte(src))
		if err != nil {
			t.Fatalf("ParseBlInfoBytes() failed: %v", err)
		}
		if info.Name != `Tom"s "Tools"` {
			t.Errorf("Name = %q", info.Name)
		}
		if info.Description != "line1\nline2" {
			t.Errorf("Description = %q", info.Description)
		}
	})
}

func TestParseBlInfo(t *testing.T) {
	t.Parallel()

	t.Run("reads from file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		initPath := filepath.Join(dir, InitFileName)
		if err := os.WriteFile(initPath, []byte(sampleInit), 0o644); err != nil {
			t.Fatal(err)
		}

		info, err := ParseBlInfo(initPath)
		if err != nil {
			t.Fatalf("ParseBlInfo() failed: %v", err)
		}
		if info.Name != "Nino's Tools" {
			t.Errorf("Name = %q", info.Name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ParseBlInfo(filepath.Join(t.TempDir(), InitFileName))
		if err == nil {
			t.Error("expected error for missing file")
		}
	})
}
