// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"blendpack/internal/hooks"
	"blendpack/internal/registry"
	"blendpack/pkg/addon"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// packageOutput is the output path for the archive
	packageOutput string
	// packageName overrides the canonical folder name inside the archive
	packageName string
	// packageNoHooks disables configured pre/post package hooks
	packageNoHooks bool
	// packageInclude replaces the default include patterns
	packageInclude []string
	// packageExclude adds exclude patterns
	packageExclude []string

	// packageCmd builds a distributable ZIP archive from an add-on directory
	packageCmd = &cobra.Command{
		Use:   "package [path]",
		Short: "Build a distributable ZIP archive from an add-on",
		Long: `Build a distributable ZIP archive from a Blender add-on directory.

The add-on's files are staged into a temporary directory under the
add-on's canonical folder name, compressed, and the archive is moved
into place. The staging directory is always removed, and a failed run
leaves no archive behind.

Examples:
  blendpack package
  blendpack package ./my-tools
  blendpack package ./my-tools --output ./dist/my-tools.zip
  blendpack package ./my-tools --include '*.py' --include assets/*.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPackage,
	}
)

func init() {
	packageCmd.Flags().StringVarP(&packageOutput, "output", "o", "", "output path for the ZIP file (default: <slug>.zip next to the add-on)")
	packageCmd.Flags().StringVar(&packageName, "name", "", "override the add-on folder name inside the archive")
	packageCmd.Flags().BoolVar(&packageNoHooks, "no-hooks", false, "skip configured pre/post package hooks")
	packageCmd.Flags().StringArrayVar(&packageInclude, "include", nil, "glob patterns to stage (replaces defaults)")
	packageCmd.Flags().StringArrayVar(&packageExclude, "exclude", nil, "glob patterns to skip (adds to defaults)")
}

func runPackage(cmd *cobra.Command, args []string) error {
	sourceDir := "."
	if len(args) > 0 {
		sourceDir = args[0]
	}

	fmt.Println(TitleStyle.Render("Package Add-on"))

	a, err := addon.Load(sourceDir)
	if err != nil {
		return err
	}

	slug := a.Slug
	if packageName != "" {
		slug = packageName
	}

	outputPath := packageOutput
	if outputPath == "" && cfg.OutputDir != "" {
		outputPath = filepath.Join(cfg.OutputDir, slug+".zip")
	}

	include := packageInclude
	if len(include) == 0 {
		include = cfg.Package.Include
	}
	exclude := append(append([]string{}, cfg.Package.Exclude...), packageExclude...)

	runner := hooks.NewRunner(os.Stdout, os.Stderr)
	hookEnv := hooks.Env{AddonPath: a.Path, Slug: slug, OutputPath: outputPath}

	if !packageNoHooks && cfg.Hooks.PrePackage != "" {
		log.Debug("running pre-package hook")
		if err := runner.Run(cmd.Context(), "pre_package", cfg.Hooks.PrePackage, hookEnv); err != nil {
			return fmt.Errorf("pre-package hook failed, aborting: %w", err)
		}
	}

	archivePath, err := addon.Package(addon.PackageOptions{
		SourceDir:  sourceDir,
		OutputPath: outputPath,
		Name:       packageName,
		Include:    include,
		Exclude:    exclude,
	})
	if err != nil {
		return err
	}

	digest, size, err := registry.HashFile(archivePath)
	if err != nil {
		return fmt.Errorf("failed to hash archive: %w", err)
	}

	recordEvent(registry.Event{
		Slug:        slug,
		Version:     a.VersionString(),
		Action:      registry.ActionPackage,
		ArchivePath: archivePath,
		SHA256:      digest,
		SizeBytes:   size,
	})

	fmt.Printf("%s Add-on packaged successfully\n", successIcon)
	fmt.Println()
	fmt.Printf("%s Add-on: %s\n", infoIcon, PathStyle.Render(a.DisplayName()))
	fmt.Printf("%s Output: %s\n", infoIcon, PathStyle.Render(archivePath))
	fmt.Printf("%s Size: %s\n", infoIcon, formatFileSize(size))
	if verbose {
		fmt.Printf("%s SHA-256: %s\n", infoIcon, VerboseStyle.Render(digest))
	}

	if !packageNoHooks && cfg.Hooks.PostPackage != "" {
		log.Debug("running post-package hook")
		hookEnv.OutputPath = archivePath
		if err := runner.Run(cmd.Context(), "post_package", cfg.Hooks.PostPackage, hookEnv); err != nil {
			// The archive is already in place; report the hook failure
			// without discarding it.
			fmt.Fprintf(os.Stderr, "%s %s (archive kept at %s)\n", errorIcon, err, archivePath)
			return &ExitError{Code: 1, Err: err}
		}
	}

	return nil
}
