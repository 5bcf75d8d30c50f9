// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"blendpack/pkg/addon"

	"github.com/spf13/cobra"
)

// validateCmd checks an add-on directory without packaging it.
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check an add-on directory without packaging it",
	Long: `Check that a directory is a packageable Blender add-on.

Validation checks the directory structure, the bl_info metadata in
__init__.py, and the blender_manifest.toml when present.

Examples:
  blendpack validate
  blendpack validate ./my-tools`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	fmt.Println(TitleStyle.Render("Validate Add-on"))

	result, err := addon.Validate(path)
	if err != nil {
		return err
	}

	if result.Valid {
		fmt.Printf("%s Add-on is valid: %s\n", successIcon, PathStyle.Render(result.AddonPath))
		fmt.Printf("%s Slug: %s\n", infoIcon, PathStyle.Render(result.Slug))
		return nil
	}

	fmt.Printf("%s Add-on has %d issue(s):\n", errorIcon, len(result.Issues))
	fmt.Println()
	for _, iss := range result.Issues {
		fmt.Printf("  %s %s\n", warnIcon, iss.Error())
	}

	return &ExitError{Code: 1, Err: fmt.Errorf("add-on failed validation with %d issue(s)", len(result.Issues))}
}
