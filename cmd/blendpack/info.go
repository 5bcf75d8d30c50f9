// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"blendpack/pkg/addon"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	// infoShowReadme renders the add-on's README after the metadata
	infoShowReadme bool

	// infoCmd shows an add-on's metadata
	infoCmd = &cobra.Command{
		Use:   "info [path]",
		Short: "Show an add-on's metadata",
		Long: `Show the bl_info and blender_manifest.toml metadata of an add-on.

Examples:
  blendpack info
  blendpack info ./my-tools
  blendpack info ./my-tools --readme`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInfo,
	}
)

func init() {
	infoCmd.Flags().BoolVar(&infoShowReadme, "readme", false, "render the add-on's README.md")
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	a, err := addon.Load(path)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render(a.DisplayName()))
	fmt.Println()
	fmt.Printf("%s Slug: %s\n", infoIcon, PathStyle.Render(a.Slug))
	fmt.Printf("%s Path: %s\n", infoIcon, PathStyle.Render(a.Path))
	if v := a.VersionString(); v != "" {
		fmt.Printf("%s Version: %s\n", infoIcon, v)
	}

	if a.Info != nil {
		if a.Info.Author != "" {
			fmt.Printf("%s Author: %s\n", infoIcon, a.Info.Author)
		}
		if a.Info.Category != "" {
			fmt.Printf("%s Category: %s\n", infoIcon, a.Info.Category)
		}
		if !a.Info.Blender.IsZero() {
			fmt.Printf("%s Blender: %s+\n", infoIcon, a.Info.Blender.String())
		}
		if a.Info.Description != "" {
			fmt.Printf("%s Description: %s\n", infoIcon, a.Info.Description)
		}
		if a.Info.Warning != "" {
			fmt.Printf("%s Warning: %s\n", warnIcon, WarningStyle.Render(a.Info.Warning))
		}
	}

	if a.Manifest != nil {
		fmt.Printf("%s Manifest: %s\n", infoIcon, PathStyle.Render(addon.ManifestFileName))
		if len(a.Manifest.License) > 0 {
			fmt.Printf("%s License: %v\n", infoIcon, a.Manifest.License)
		}
		if len(a.Manifest.Tags) > 0 {
			fmt.Printf("%s Tags: %v\n", infoIcon, a.Manifest.Tags)
		}
	}

	if infoShowReadme {
		return renderReadme(a.Path)
	}

	return nil
}

// renderReadme renders the add-on's README.md to the terminal.
func renderReadme(addonPath string) error {
	readmePath := filepath.Join(addonPath, "README.md")
	data, err := os.ReadFile(readmePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no README.md found in %s", addonPath)
		}
		return fmt.Errorf("failed to read README: %w", err)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(string(data))
	if err != nil {
		return fmt.Errorf("failed to render README: %w", err)
	}

	fmt.Println()
	fmt.Print(out)
	return nil
}
