// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateOptions contains options for scaffolding a new add-on.
type CreateOptions struct {
	// Name is the display name (e.g., "Nino's Tools")
	Name string
	// ParentDir is the directory where the add-on will be created
	ParentDir string
	// Author is written into bl_info (optional)
	Author string
	// Description is written into bl_info and the manifest (optional)
	Description string
	// Category is the Blender category (defaults to "3D View")
	Category string
	// WithManifest also writes a blender_manifest.toml
	WithManifest bool
}

// Create scaffolds a new add-on with the given options.
// Returns the path to the created add-on directory or an error.
func Create(opts CreateOptions) (string, error) {
	if opts.Name == "" {
		return "", fmt.Errorf("add-on name cannot be empty")
	}

	slug := Slug(opts.Name)
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}

	// Default parent directory to current directory
	parentDir := opts.ParentDir
	if parentDir == "" {
		var err error
		parentDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	absParentDir, err := filepath.Abs(parentDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve parent directory: %w", err)
	}

	addonPath := filepath.Join(absParentDir, slug)

	// Check if the add-on already exists
	if _, err := os.Stat(addonPath); err == nil {
		return "", fmt.Errorf("add-on already exists at %s", addonPath)
	}

	if err := os.MkdirAll(addonPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create add-on directory: %w", err)
	}

	category := opts.Category
	if category == "" {
		category = "3D View"
	}
	description := opts.Description
	if description == "" {
		description = fmt.Sprintf("%s Blender add-on", opts.Name)
	}

	initContent := fmt.Sprintf(`"""
%s - a Blender add-on.
"""

bl_info = {
    "name": %q,
    "author": %q,
    "version": (0, 1, 0),
    "blender": (3, 0, 0),
    "description": %q,
    "category": %q,
}

import bpy


def register():
    pass


def unregister():
    pass


if __name__ == "__main__":
    register()
`, opts.Name, opts.Name, opts.Author, description, category)

	initPath := filepath.Join(addonPath, InitFileName)
	if err := os.WriteFile(initPath, []byte(initContent), 0o644); err != nil {
		// Clean up on failure
		_ = os.RemoveAll(addonPath) // Best-effort cleanup on error path
		return "", fmt.Errorf("failed to create %s: %w", InitFileName, err)
	}

	if opts.WithManifest {
		m := &Manifest{
			SchemaVersion: ManifestSchemaVersion,
			ID:            slug,
			Version:       "0.1.0",
			Name:          opts.Name,
			Tagline:       description,
			Maintainer:    opts.Author,
			Type:          "add-on",
		}
		if err := WriteManifest(filepath.Join(addonPath, ManifestFileName), m); err != nil {
			// Clean up on failure
			_ = os.RemoveAll(addonPath) // Best-effort cleanup on error path
			return "", err
		}
	}

	return addonPath, nil
}
