// SPDX-License-Identifier: MPL-2.0

package addon

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultInclude is the default set of glob patterns staged into an archive.
// Patterns are matched against both the file's base name and its slash-separated
// path relative to the add-on root.
var DefaultInclude = []string{"*.py", ManifestFileName}

// DefaultExclude is always applied on top of any user-provided excludes.
var DefaultExclude = []string{"*.pyc"}

// PackageOptions contains options for packaging an add-on.
type PackageOptions struct {
	// SourceDir is the add-on source directory (must contain __init__.py)
	SourceDir string
	// OutputPath overrides the archive location (default: <slug>.zip in SourceDir)
	OutputPath string
	// Name overrides the canonical folder name inside the archive
	Name string
	// Include replaces DefaultInclude when non-empty
	Include []string
	// Exclude adds glob patterns to DefaultExclude
	Exclude []string
}

// Package stages an add-on's distributable files into a temporary directory
// under its canonical folder name, compresses the staging tree into a ZIP
// archive, and moves the archive into place at the output path.
//
// The staging directory is removed on every exit path, success or failure,
// and a failed run leaves no partial archive behind.
func Package(opts PackageOptions) (archivePath string, err error) {
	a, err := Load(opts.SourceDir)
	if err != nil {
		return "", err
	}

	slug := a.Slug
	if opts.Name != "" {
		if err := ValidateSlug(opts.Name); err != nil {
			return "", err
		}
		slug = opts.Name
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(a.Path, slug+".zip")
	}
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}

	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	exclude := append(append([]string{}, DefaultExclude...), opts.Exclude...)

	// Stage into a temp directory; gone on all exit paths
	staging, err := os.MkdirTemp("", "blendpack-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	stageRoot := filepath.Join(staging, slug)
	staged, err := stageAddon(a.Path, stageRoot, include, exclude)
	if err != nil {
		return "", fmt.Errorf("failed to stage add-on files: %w", err)
	}
	if staged == 0 {
		return "", fmt.Errorf("no files matched the include patterns %v", include)
	}

	// Write the archive next to its final location, then rename into place
	// so a failed run never leaves a partial archive at the output path.
	partial := absOutputPath + ".partial"
	if err := writeArchive(partial, staging, slug); err != nil {
		_ = os.Remove(partial) // Best-effort cleanup on error path
		return "", err
	}
	if err := os.Rename(partial, absOutputPath); err != nil {
		_ = os.Remove(partial) // Best-effort cleanup on error path
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}

	return absOutputPath, nil
}

// stageAddon copies the files under srcDir matching the include patterns into
// dstDir, preserving the relative layout and file modes. Returns the number of
// files staged. Hidden entries and __pycache__ directories are always skipped.
func stageAddon(srcDir, dstDir string, include, exclude []string) (int, error) {
	staged := 0
	err := filepath.WalkDir(srcDir, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == srcDir {
			return nil
		}

		base := d.Name()
		relPath, relErr := filepath.Rel(srcDir, p)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		relSlash := filepath.ToSlash(relPath)

		if d.IsDir() {
			if base == "__pycache__" || strings.HasPrefix(base, ".") || matchAny(exclude, relSlash, base) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(base, ".") || matchAny(exclude, relSlash, base) {
			return nil
		}
		if !matchAny(include, relSlash, base) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return fmt.Errorf("failed to get file info: %w", infoErr)
		}

		dst := filepath.Join(dstDir, relPath)
		if mkErr := os.MkdirAll(filepath.Dir(dst), 0o755); mkErr != nil {
			return fmt.Errorf("failed to create staging subdirectory: %w", mkErr)
		}
		if cpErr := copyFile(p, dst, info.Mode().Perm()); cpErr != nil {
			return fmt.Errorf("failed to stage %s: %w", relSlash, cpErr)
		}

		staged++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return staged, nil
}

// matchAny reports whether any glob pattern matches the relative slash path
// or the base name.
func matchAny(patterns []string, relSlash, base string) bool {
	for _, pat := range patterns {
		if ok, _ := path.Match(pat, relSlash); ok {
			return true
		}
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
	}
	return false
}

// copyFile copies src to dst with the given permissions.
func copyFile(src, dst string, perm os.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// writeArchive creates a ZIP file at zipPath containing the <slug>/ tree
// rooted at stagingDir.
func writeArchive(zipPath, stagingDir, slug string) (err error) {
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create ZIP file: %w", err)
	}
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zipWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	root := filepath.Join(stagingDir, slug)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, relErr := filepath.Rel(stagingDir, p)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		// Use forward slashes for ZIP compatibility
		entryName := filepath.ToSlash(relPath)

		if d.IsDir() {
			if _, createErr := zipWriter.Create(entryName + "/"); createErr != nil {
				return fmt.Errorf("failed to create directory entry: %w", createErr)
			}
			return nil
		}

		fileData, readErr := os.ReadFile(p)
		if readErr != nil {
			return fmt.Errorf("failed to read file %s: %w", p, readErr)
		}

		fileInfo, infoErr := d.Info()
		if infoErr != nil {
			return fmt.Errorf("failed to get file info: %w", infoErr)
		}

		header, headerErr := zip.FileInfoHeader(fileInfo)
		if headerErr != nil {
			return fmt.Errorf("failed to create file header: %w", headerErr)
		}
		header.Name = entryName
		header.Method = zip.Deflate

		writer, writerErr := zipWriter.CreateHeader(header)
		if writerErr != nil {
			return fmt.Errorf("failed to create ZIP entry: %w", writerErr)
		}

		if _, writeErr := writer.Write(fileData); writeErr != nil {
			return fmt.Errorf("failed to write file data: %w", writeErr)
		}

		return nil
	})
}

// UnpackOptions contains options for extracting a packaged add-on.
type UnpackOptions struct {
	// Source is the path to the ZIP file or an http(s) URL
	Source string
	// DestDir is the destination directory (defaults to current directory)
	DestDir string
	// Overwrite allows overwriting an existing add-on directory
	Overwrite bool
}

// Unpack extracts an add-on from a ZIP archive produced by Package.
// Returns the path to the extracted add-on directory or an error.
func Unpack(opts UnpackOptions) (extractedPath string, err error) {
	if opts.Source == "" {
		return "", fmt.Errorf("source cannot be empty")
	}

	destDir := opts.DestDir
	if destDir == "" {
		destDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	absDestDir, err := filepath.Abs(destDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination directory: %w", err)
	}

	if err = os.MkdirAll(absDestDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	// Check if source is a URL
	var zipPath string
	var cleanup func()
	if strings.HasPrefix(opts.Source, "http://") || strings.HasPrefix(opts.Source, "https://") {
		var tmpFile string
		tmpFile, err = downloadFile(opts.Source)
		if err != nil {
			return "", fmt.Errorf("failed to download add-on: %w", err)
		}
		zipPath = tmpFile
		cleanup = func() { _ = os.Remove(tmpFile) } // Best-effort cleanup of temp file
	} else {
		zipPath, err = filepath.Abs(opts.Source)
		if err != nil {
			return "", fmt.Errorf("failed to resolve source path: %w", err)
		}
		cleanup = func() {}
	}
	defer cleanup()

	zipReader, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to open ZIP file: %w", err)
	}
	defer func() {
		if closeErr := zipReader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// The archive must have a single top-level directory with a valid name
	addonRoot := ""
	for _, file := range zipReader.File {
		parts := strings.SplitN(file.Name, "/", 2)
		if len(parts) == 0 || parts[0] == "" {
			continue
		}
		switch {
		case addonRoot == "":
			if ValidateSlug(parts[0]) != nil {
				return "", fmt.Errorf("invalid add-on directory name in ZIP: %q", parts[0])
			}
			addonRoot = parts[0]
		case parts[0] != addonRoot:
			return "", fmt.Errorf("ZIP contains multiple top-level entries (%q and %q); expected a single add-on directory", addonRoot, parts[0])
		}
	}
	if addonRoot == "" {
		return "", fmt.Errorf("no add-on directory found in ZIP")
	}

	// Check if the add-on already exists
	addonPath := filepath.Join(absDestDir, addonRoot)
	if _, statErr := os.Stat(addonPath); statErr == nil {
		if !opts.Overwrite {
			return "", fmt.Errorf("add-on already exists at %s (use overwrite option to replace)", addonPath)
		}
		if err = os.RemoveAll(addonPath); err != nil {
			return "", fmt.Errorf("failed to remove existing add-on: %w", err)
		}
	}

	// Extract files
	for _, file := range zipReader.File {
		if len(file.Name) > MaxPathLength {
			return "", fmt.Errorf("path in ZIP too long (%d chars, max %d)", len(file.Name), MaxPathLength)
		}
		destPath := filepath.Join(absDestDir, filepath.FromSlash(file.Name))

		// The cleaned path must stay under the add-on root; an entry like
		// "<slug>/../x" passes the top-level scan but escapes it (security check)
		relPath, relErr := filepath.Rel(addonPath, destPath)
		if relErr != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("invalid path in ZIP: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if mkdirErr := os.MkdirAll(destPath, file.Mode()); mkdirErr != nil {
				return "", fmt.Errorf("failed to create directory: %w", mkdirErr)
			}
			continue
		}

		parentDir := filepath.Dir(destPath)
		if mkdirErr := os.MkdirAll(parentDir, 0o755); mkdirErr != nil {
			return "", fmt.Errorf("failed to create parent directory: %w", mkdirErr)
		}

		if extractErr := extractFile(file, destPath); extractErr != nil {
			return "", fmt.Errorf("failed to extract %s: %w", file.Name, extractErr)
		}
	}

	// Validate the extracted add-on
	if _, err = Load(addonPath); err != nil {
		// Clean up on validation failure (best-effort)
		_ = os.RemoveAll(addonPath)
		return "", fmt.Errorf("extracted add-on is invalid: %w", err)
	}

	return addonPath, nil
}

// downloadFile downloads a file from a URL and returns the path to the temporary file
func downloadFile(url string) (tmpPath string, err error) {
	tmpFile, err := os.CreateTemp("", "blendpack-addon-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath = tmpFile.Name()

	// Clean up temp file on any error
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath) // Best-effort cleanup
		}
	}()

	defer func() {
		if closeErr := tmpFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req) //nolint:gosec // URL is validated by caller
	if err != nil {
		return "", fmt.Errorf("failed to download: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status: %s", resp.Status)
	}

	if _, err = io.Copy(tmpFile, resp.Body); err != nil {
		return "", fmt.Errorf("failed to save downloaded file: %w", err)
	}

	return tmpPath, nil
}

// extractFile extracts a single file from the ZIP archive
func extractFile(file *zip.File, destPath string) (err error) {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: ZIP extraction from user-trusted sources; size limits handled by filesystem
	_, err = io.Copy(destFile, rc)
	return err
}
