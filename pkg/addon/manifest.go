// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ManifestSchemaVersion is the blender_manifest.toml schema version blendpack
// writes when scaffolding.
const ManifestSchemaVersion = "1.0.0"

// ParseManifest reads and parses a blender_manifest.toml file.
// Returns ErrManifestNotFound (wrapped) when the file does not exist.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrManifestNotFound)
		}
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest at %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest at %s: %w", path, err)
	}

	return &m, nil
}

// WriteManifest marshals the manifest to TOML and writes it to path.
func WriteManifest(path string, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid manifest: %w", err)
	}

	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest to %s: %w", path, err)
	}
	return nil
}

// Validate checks the manifest's required fields.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("manifest is missing required field 'id'")
	}
	if err := ValidateSlug(m.ID); err != nil {
		return fmt.Errorf("manifest field 'id': %w", err)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("manifest is missing required field 'name'")
	}
	if strings.TrimSpace(m.Version) == "" {
		return fmt.Errorf("manifest is missing required field 'version'")
	}
	if m.Type != "" && m.Type != "add-on" && m.Type != "theme" {
		return fmt.Errorf("manifest field 'type' must be \"add-on\" or \"theme\", got %q", m.Type)
	}
	return nil
}
