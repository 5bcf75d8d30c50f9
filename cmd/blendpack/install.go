// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"blendpack/internal/install"
	"blendpack/internal/registry"
	"blendpack/pkg/addon"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// installAddonsDir overrides the detected Blender add-ons directory
	installAddonsDir string
	// installOverwrite replaces an already-installed add-on
	installOverwrite bool

	// installCmd installs a packaged add-on into Blender
	installCmd = &cobra.Command{
		Use:   "install <archive>",
		Short: "Install a packaged add-on into Blender",
		Long: `Install a packaged add-on archive into the Blender add-ons directory.

The add-ons directory is detected from the newest Blender version found
in the per-user Blender configuration, or taken from install.addons_dir
in the blendpack config. The archive may be a local file or an
http(s) URL.

Examples:
  blendpack install ./nino-tools.zip
  blendpack install https://example.com/addons/nino-tools.zip
  blendpack install ./nino-tools.zip --overwrite
  blendpack install ./nino-tools.zip --addons-dir ~/blender/addons`,
		Args: cobra.ExactArgs(1),
		RunE: runInstall,
	}

	// uninstallCmd removes an installed add-on
	uninstallCmd = &cobra.Command{
		Use:   "uninstall <slug>",
		Short: "Remove an installed add-on",
		Long: `Remove an add-on from the Blender add-ons directory by its slug.

Examples:
  blendpack uninstall nino-tools
  blendpack uninstall nino-tools --addons-dir ~/blender/addons`,
		Args: cobra.ExactArgs(1),
		RunE: runUninstall,
	}
)

func init() {
	installCmd.Flags().StringVar(&installAddonsDir, "addons-dir", "", "Blender add-ons directory (default: auto-detected)")
	installCmd.Flags().BoolVar(&installOverwrite, "overwrite", false, "replace the add-on if already installed")
	uninstallCmd.Flags().StringVar(&installAddonsDir, "addons-dir", "", "Blender add-ons directory (default: auto-detected)")
}

// resolveAddonsDir applies flag, config, then auto-detection.
func resolveAddonsDir() (string, error) {
	override := installAddonsDir
	if override == "" {
		override = cfg.Install.AddonsDir
	}
	return install.AddonsDir(override)
}

func runInstall(cmd *cobra.Command, args []string) error {
	source := args[0]

	fmt.Println(TitleStyle.Render("Install Add-on"))

	addonsDir, err := resolveAddonsDir()
	if err != nil {
		return err
	}
	log.Debug("resolved add-ons directory", "dir", addonsDir)

	a, err := install.Install(source, addonsDir, installOverwrite)
	if err != nil {
		return err
	}

	recordEvent(registry.Event{
		Slug:        a.Slug,
		Version:     a.VersionString(),
		Action:      registry.ActionInstall,
		ArchivePath: source,
	})

	fmt.Printf("%s Add-on installed successfully\n", successIcon)
	fmt.Println()
	fmt.Printf("%s Add-on: %s\n", infoIcon, PathStyle.Render(a.DisplayName()))
	fmt.Printf("%s Location: %s\n", infoIcon, PathStyle.Render(a.Path))
	fmt.Printf("%s Enable it in Blender under Edit > Preferences > Add-ons\n", infoIcon)

	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	slug := args[0]

	fmt.Println(TitleStyle.Render("Uninstall Add-on"))

	if err := addon.ValidateSlug(slug); err != nil {
		return err
	}

	addonsDir, err := resolveAddonsDir()
	if err != nil {
		return err
	}

	if err := install.Uninstall(slug, addonsDir); err != nil {
		return err
	}

	recordEvent(registry.Event{
		Slug:   slug,
		Action: registry.ActionUninstall,
	})

	fmt.Printf("%s Add-on removed: %s\n", successIcon, PathStyle.Render(slug))

	return nil
}
