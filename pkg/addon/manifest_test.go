// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestManifestValidate(t *testing.T) {
	t.Parallel()

	valid := Manifest{
		SchemaVersion: ManifestSchemaVersion,
		ID:            "nino-tools",
		Version:       "1.0.0",
		Name:          "Nino's Tools",
		Type:          "add-on",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, expected nil", err)
	}

	tests := []struct {
		name   string
		mutate func(m *Manifest)
	}{
		{name: "missing id", mutate: func(m *Manifest) { m.ID = "" }},
		{name: "invalid id", mutate: func(m *Manifest) { m.ID = "Nino Tools" }},
		{name: "missing name", mutate: func(m *Manifest) { m.Name = "" }},
		{name: "missing version", mutate: func(m *Manifest) { m.Version = "" }},
		{name: "unknown type", mutate: func(m *Manifest) { m.Type = "script" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := valid
			tt.mutate(&m)
			if err := m.Validate(); err == nil {
				t.Error("Validate() = nil, expected error")
			}
		})
	}
}

func TestParseManifest(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, ManifestFileName)

		m := &Manifest{
			SchemaVersion: ManifestSchemaVersion,
			ID:            "nino-tools",
			Version:       "1.0.0",
			Name:          "Nino's Tools",
			Tagline:       "Small helpers for everyday modeling",
			Maintainer:    "Nino <nino@example.com>",
			Type:          "add-on",
			License:       []string{"SPDX:GPL-3.0-or-later"},
			Tags:          []string{"3D View"},
		}
		if err := WriteManifest(path, m); err != nil {
			t.Fatalf("WriteManifest() failed: %v", err)
		}

		parsed, err := ParseManifest(path)
		if err != nil {
			t.Fatalf("ParseManifest() failed: %v", err)
		}
		if parsed.ID != m.ID {
			t.Errorf("ID = %q, expected %q", parsed.ID, m.ID)
		}
		if parsed.Name != m.Name {
			t.Errorf("Name = %q, expected %q", parsed.Name, m.Name)
		}
		if len(parsed.License) != 1 || parsed.License[0] != m.License[0] {
			t.Errorf("License = %v, expected %v", parsed.License, m.License)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ParseManifest(filepath.Join(t.TempDir(), ManifestFileName))
		if !errors.Is(err, ErrManifestNotFound) {
			t.Errorf("expected ErrManifestNotFound, got %v", err)
		}
	})

	t.Run("invalid TOML", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, ManifestFileName)
		writeFile(t, path, "id = [unclosed")

		_, err := ParseManifest(path)
		if err == nil {
			t.Error("expected error for invalid TOML")
		}
		if errors.Is(err, ErrManifestNotFound) {
			t.Error("parse error should not wrap ErrManifestNotFound")
		}
	})

	t.Run("invalid content", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, ManifestFileName)
		writeFile(t, path, strings.Join([]string{
			`schema_version = "1.0.0"`,
			`id = "Not A Slug"`,
			`version = "1.0.0"`,
			`name = "Broken"`,
		}, "\n"))

		if _, err := ParseManifest(path); err == nil {
			t.Error("expected validation error for invalid id")
		}
	})
}
