// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// InitFileName is the entry-point file every Blender add-on must contain.
	InitFileName = "__init__.py"

	// ManifestFileName is the optional Blender 4.2+ extension manifest.
	ManifestFileName = "blender_manifest.toml"

	// MaxPathLength is the maximum allowed length for file paths.
	MaxPathLength = 4096
)

var (
	// ErrBlInfoNotFound is returned when __init__.py contains no bl_info dict.
	// Callers can check for this error using errors.Is(err, ErrBlInfoNotFound).
	ErrBlInfoNotFound = errors.New("bl_info not found")

	// ErrManifestNotFound is returned when blender_manifest.toml is absent.
	ErrManifestNotFound = errors.New("blender_manifest.toml not found")
)

type (
	// Version is a Blender-style three-component version, e.g. (1, 0, 0).
	Version [3]int

	// BlInfo is the add-on metadata parsed from the bl_info dict literal
	// in __init__.py. Only the keys blendpack cares about are modeled;
	// unknown keys are ignored by the parser.
	BlInfo struct {
		// Name is the human-readable add-on name, e.g. "Nino's Tools".
		Name string
		// Author is the add-on author.
		Author string
		// Version is the add-on version tuple.
		Version Version
		// Blender is the minimum supported Blender version tuple.
		Blender Version
		// Location describes where the add-on appears in the Blender UI.
		Location string
		// Description is a one-line summary.
		Description string
		// Category is the add-on category shown in Blender's preferences.
		Category string
		// Warning is an optional warning shown in Blender's preferences.
		Warning string
		// DocURL is an optional documentation link.
		DocURL string
	}

	// Manifest is the optional blender_manifest.toml used by Blender 4.2+
	// extensions. It is the TOML analogue of bl_info and, when present,
	// its ID is authoritative for the add-on's folder name.
	Manifest struct {
		SchemaVersion     string   `toml:"schema_version"`
		ID                string   `toml:"id"`
		Version           string   `toml:"version"`
		Name              string   `toml:"name"`
		Tagline           string   `toml:"tagline,omitempty"`
		Maintainer        string   `toml:"maintainer,omitempty"`
		Type              string   `toml:"type"`
		BlenderVersionMin string   `toml:"blender_version_min,omitempty"`
		License           []string `toml:"license,omitempty"`
		Tags              []string `toml:"tags,omitempty"`
	}

	// ValidationIssue represents a single domain-level validation problem in an
	// add-on directory. Issues are collected and reported as a batch via
	// ValidationResult; error returns are reserved for I/O failures that prevent
	// validation from continuing.
	//
	//nolint:errname // Intentionally named Issue, not Error - semantic domain type
	ValidationIssue struct {
		// Type categorizes the issue (e.g., "structure", "naming", "metadata")
		Type string
		// Message describes the specific problem
		Message string
		// Path is the relative path within the add-on where the issue was found (optional)
		Path string
	}

	// ValidationResult contains the result of add-on validation.
	ValidationResult struct {
		// Valid is true if the add-on passed all validation checks
		Valid bool
		// AddonPath is the absolute path to the validated add-on directory
		AddonPath string
		// Slug is the canonical folder name derived during validation
		Slug string
		// InitPath is the path to __init__.py within the add-on (required)
		InitPath string
		// ManifestPath is the path to blender_manifest.toml (optional)
		ManifestPath string
		// Issues contains all validation problems found
		Issues []ValidationIssue
	}

	// Addon represents a loaded Blender add-on, ready for packaging or install.
	Addon struct {
		// Path is the absolute filesystem path to the add-on source directory
		Path string
		// Slug is the canonical folder name used inside archives and the
		// add-ons directory, e.g. "nino-tools"
		Slug string
		// Info is the parsed bl_info metadata (nil if __init__.py has none)
		Info *BlInfo
		// Manifest is the parsed blender_manifest.toml (nil if absent)
		Manifest *Manifest
	}
)

// String renders the version as dotted decimal, e.g. "1.0.0".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// IsZero reports whether the version is the zero tuple.
func (v Version) IsZero() bool {
	return v == Version{}
}

// Error implements the error interface for ValidationIssue.
func (i ValidationIssue) Error() string {
	if i.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", i.Type, i.Path, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Type, i.Message)
}

// AddIssue adds a validation issue to the result.
func (r *ValidationResult) AddIssue(issueType, message, path string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Type:    issueType,
		Message: message,
		Path:    path,
	})
	r.Valid = false
}

// DisplayName returns the human-readable add-on name, preferring the
// manifest over bl_info and falling back to the slug.
func (a *Addon) DisplayName() string {
	if a.Manifest != nil && a.Manifest.Name != "" {
		return a.Manifest.Name
	}
	if a.Info != nil && a.Info.Name != "" {
		return a.Info.Name
	}
	return a.Slug
}

// VersionString returns the add-on version, preferring the manifest over
// bl_info. Returns "" when neither declares one.
func (a *Addon) VersionString() string {
	if a.Manifest != nil && a.Manifest.Version != "" {
		return a.Manifest.Version
	}
	if a.Info != nil && !a.Info.Version.IsZero() {
		return a.Info.Version.String()
	}
	return ""
}

// InitPath returns the absolute path to __init__.py for this add-on.
func (a *Addon) InitPath() string {
	return filepath.Join(a.Path, InitFileName)
}

// ManifestPath returns the absolute path to blender_manifest.toml for this
// add-on. The file may not exist; check Manifest for parsed content.
func (a *Addon) ManifestPath() string {
	return filepath.Join(a.Path, ManifestFileName)
}

// ContainsPath checks if the given path is inside this add-on's directory.
func (a *Addon) ContainsPath(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	relPath, err := filepath.Rel(a.Path, absPath)
	if err != nil {
		return false
	}

	return !strings.HasPrefix(relPath, "..")
}
