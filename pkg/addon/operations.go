// SPDX-License-Identifier: MPL-2.0

// Package addon provides Blender add-on operations: validation, scaffolding,
// packaging, and archive extraction. Types and data structures are defined
// in addon.go.
package addon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blendpack/internal/platform"
)

// IsAddon checks if the given path is a Blender add-on source directory.
// This is a quick check that only verifies the directory contains an
// __init__.py. For full validation, use Validate().
func IsAddon(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	initInfo, err := os.Stat(filepath.Join(path, InitFileName))
	return err == nil && !initInfo.IsDir()
}

// Validate performs comprehensive validation of an add-on source directory.
// Returns a ValidationResult with all issues found, or an error if the path
// cannot be accessed.
func Validate(addonPath string) (*ValidationResult, error) {
	// Convert to absolute path
	absPath, err := filepath.Abs(addonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	result := &ValidationResult{
		Valid:     true,
		AddonPath: absPath,
		Issues:    []ValidationIssue{},
	}

	// Check if path exists
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.AddIssue("structure", "path does not exist", "")
			return result, nil
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	// Check if it's a directory
	if !info.IsDir() {
		result.AddIssue("structure", "path is not a directory", "")
		return result, nil
	}

	// Check for __init__.py (required)
	initPath := filepath.Join(absPath, InitFileName)
	initInfo, err := os.Stat(initPath)
	var blInfo *BlInfo
	blInfoMissing := false
	switch {
	case err != nil && os.IsNotExist(err):
		result.AddIssue("structure", "missing required "+InitFileName, "")
	case err != nil:
		result.AddIssue("structure", fmt.Sprintf("cannot access %s: %v", InitFileName, err), "")
	case initInfo.IsDir():
		result.AddIssue("structure", InitFileName+" must be a file, not a directory", "")
	default:
		result.InitPath = initPath

		blInfo, err = ParseBlInfo(initPath)
		switch {
		case errors.Is(err, ErrBlInfoNotFound):
			blInfoMissing = true
		case err != nil:
			result.AddIssue("metadata", fmt.Sprintf("failed to parse bl_info: %v", err), InitFileName)
		}
	}

	// Check for blender_manifest.toml (optional; authoritative for naming)
	var manifest *Manifest
	manifestPath := filepath.Join(absPath, ManifestFileName)
	manifest, err = ParseManifest(manifestPath)
	switch {
	case errors.Is(err, ErrManifestNotFound):
		manifest = nil
	case err != nil:
		manifest = nil
		result.AddIssue("metadata", err.Error(), ManifestFileName)
	default:
		result.ManifestPath = manifestPath
	}

	// A legacy add-on needs bl_info; an extension may rely on the manifest alone
	if blInfoMissing && manifest == nil {
		result.AddIssue("metadata", "no bl_info dict in "+InitFileName+" and no "+ManifestFileName, InitFileName)
	}

	// Derive and validate the canonical folder name
	slug := deriveSlug(absPath, blInfo, manifest)
	if err := ValidateSlug(slug); err != nil {
		result.AddIssue("naming", err.Error(), "")
	} else {
		result.Slug = slug
	}

	// Manifest id and bl_info name must agree when both are present
	if manifest != nil && blInfo != nil && blInfo.Name != "" {
		if derived := Slug(blInfo.Name); derived != "" && derived != manifest.ID {
			result.AddIssue("naming", fmt.Sprintf(
				"manifest id '%s' does not match bl_info name '%s' (expected '%s')",
				manifest.ID, blInfo.Name, derived), ManifestFileName)
		}
	}

	// Check for symlinks and Windows reserved filenames across the tree
	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Intentionally skip errors to continue walking
		}

		// Skip the root directory itself
		if path == absPath {
			return nil
		}

		// Paths beyond this length break on common filesystems
		if len(path) > MaxPathLength {
			relPath, _ := filepath.Rel(absPath, path)
			result.AddIssue("compatibility", fmt.Sprintf("path exceeds maximum length of %d characters", MaxPathLength), relPath)
			return nil
		}

		// Symlinks are a security concern during archive extraction
		if d.Type()&os.ModeSymlink != 0 {
			relPath, _ := filepath.Rel(absPath, path)
			linkTarget, readErr := os.Readlink(path)
			if readErr != nil {
				result.AddIssue("security", "cannot read symlink target", relPath)
				return nil
			}
			var resolvedTarget string
			if filepath.IsAbs(linkTarget) {
				resolvedTarget = linkTarget
			} else {
				resolvedTarget = filepath.Join(filepath.Dir(path), linkTarget)
			}
			resolvedTarget = filepath.Clean(resolvedTarget)
			relToRoot, relErr := filepath.Rel(absPath, resolvedTarget)
			if relErr != nil || strings.HasPrefix(relToRoot, "..") {
				result.AddIssue("security", fmt.Sprintf("symlink points outside add-on directory (target: %s)", linkTarget), relPath)
			} else {
				result.AddIssue("security", "symlinks are not allowed in add-ons (security risk during extraction)", relPath)
			}
			return nil
		}

		// Check for Windows reserved filenames (cross-platform compatibility)
		if platform.IsWindowsReservedName(d.Name()) {
			relPath, _ := filepath.Rel(absPath, path)
			result.AddIssue("compatibility", fmt.Sprintf("filename '%s' is reserved on Windows", d.Name()), relPath)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk add-on directory: %w", err)
	}

	return result, nil
}

// Load loads and validates an add-on at the given path.
// Returns an Addon if valid, or an error with validation details.
func Load(addonPath string) (*Addon, error) {
	result, err := Validate(addonPath)
	if err != nil {
		return nil, err
	}

	if !result.Valid {
		var msgs []string
		for _, issue := range result.Issues {
			msgs = append(msgs, issue.Error())
		}
		return nil, fmt.Errorf("invalid add-on: %s", strings.Join(msgs, "; "))
	}

	a := &Addon{
		Path: result.AddonPath,
		Slug: result.Slug,
	}

	if result.InitPath != "" {
		a.Info, err = ParseBlInfo(result.InitPath)
		if err != nil && !errors.Is(err, ErrBlInfoNotFound) {
			return nil, fmt.Errorf("failed to parse add-on metadata: %w", err)
		}
	}

	if result.ManifestPath != "" {
		a.Manifest, err = ParseManifest(result.ManifestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse add-on manifest: %w", err)
		}
	}

	return a, nil
}

// deriveSlug picks the canonical folder name: the manifest id wins, then the
// slugged bl_info name, then the source directory's base name.
func deriveSlug(absPath string, info *BlInfo, manifest *Manifest) string {
	if manifest != nil && manifest.ID != "" {
		return manifest.ID
	}
	if info != nil && info.Name != "" {
		if s := Slug(info.Name); s != "" {
			return s
		}
	}
	return Slug(filepath.Base(absPath))
}
