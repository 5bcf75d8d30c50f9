// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"blendpack/pkg/addon"

	"github.com/spf13/cobra"
)

var (
	// createParentDir is where the new add-on directory is created
	createParentDir string
	// createAuthor is written into bl_info
	createAuthor string
	// createDescription is written into bl_info
	createDescription string
	// createCategory is the Blender category
	createCategory string
	// createWithManifest also writes a blender_manifest.toml
	createWithManifest bool

	// createCmd scaffolds a new add-on directory
	createCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Scaffold a new Blender add-on",
		Long: `Scaffold a new Blender add-on directory with a populated __init__.py.

The directory name is derived from the display name, so "Nino's Tools"
becomes nino-tools/.

Examples:
  blendpack create "Nino's Tools"
  blendpack create "My Tools" --author "Jo Doe" --with-manifest
  blendpack create "My Tools" --dir ./addons`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}
)

func init() {
	createCmd.Flags().StringVar(&createParentDir, "dir", "", "parent directory for the new add-on (default: current directory)")
	createCmd.Flags().StringVar(&createAuthor, "author", "", "author written into bl_info")
	createCmd.Flags().StringVar(&createDescription, "description", "", "description written into bl_info")
	createCmd.Flags().StringVar(&createCategory, "category", "", "Blender category (default: 3D View)")
	createCmd.Flags().BoolVar(&createWithManifest, "with-manifest", false, "also write a blender_manifest.toml")
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	fmt.Println(TitleStyle.Render("Create Add-on"))

	addonPath, err := addon.Create(addon.CreateOptions{
		Name:         name,
		ParentDir:    createParentDir,
		Author:       createAuthor,
		Description:  createDescription,
		Category:     createCategory,
		WithManifest: createWithManifest,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s Add-on created successfully\n", successIcon)
	fmt.Println()
	fmt.Printf("%s Path: %s\n", infoIcon, PathStyle.Render(addonPath))
	fmt.Printf("%s Next: edit %s, then run 'blendpack package %s'\n", infoIcon, addon.InitFileName, addonPath)

	return nil
}
