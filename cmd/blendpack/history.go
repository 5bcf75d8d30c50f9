// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"blendpack/internal/registry"

	"github.com/spf13/cobra"
)

var (
	// historyLimit caps the number of events shown
	historyLimit int
	// historyAddon filters events to a single add-on slug
	historyAddon string
	// historyInstalled lists currently installed add-ons instead of raw events
	historyInstalled bool

	// historyCmd shows packaging and install history
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show packaging and install history",
		Long: `Show the recorded packaging and install history, newest first.

Examples:
  blendpack history
  blendpack history --addon nino-tools
  blendpack history --limit 10
  blendpack history --installed`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of events to show (0 for all)")
	historyCmd.Flags().StringVar(&historyAddon, "addon", "", "only show events for this add-on slug")
	historyCmd.Flags().BoolVar(&historyInstalled, "installed", false, "list currently installed add-ons")
}

func runHistory(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer func() { _ = reg.Close() }()

	if historyInstalled {
		return printInstalled(reg)
	}

	events, err := reg.History(historyAddon, historyLimit)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println(SubtitleStyle.Render("No history recorded yet."))
		return nil
	}

	fmt.Println(TitleStyle.Render("History"))
	fmt.Println()
	for _, e := range events {
		printEvent(e)
	}
	return nil
}

func printInstalled(reg *registry.Registry) error {
	events, err := reg.Installed()
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println(SubtitleStyle.Render("No add-ons installed via blendpack."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Installed Add-ons"))
	fmt.Println()
	for _, e := range events {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Printf("%s %s %s %s\n",
			successIcon,
			PathStyle.Render(e.Slug),
			version,
			SubtitleStyle.Render(e.CreatedAt.Format("2006-01-02 15:04")),
		)
	}
	return nil
}

func printEvent(e registry.Event) {
	icon := infoIcon
	switch e.Action {
	case registry.ActionPackage:
		icon = successIcon
	case registry.ActionUninstall:
		icon = errorIcon
	}

	line := fmt.Sprintf("%s %-9s %s", icon, e.Action, PathStyle.Render(e.Slug))
	if e.Version != "" {
		line += " " + e.Version
	}
	line += " " + SubtitleStyle.Render(e.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Println(line)

	if verbose {
		if e.ArchivePath != "" {
			fmt.Printf("    %s\n", VerboseStyle.Render(e.ArchivePath))
		}
		if e.SHA256 != "" {
			fmt.Printf("    %s\n", VerboseStyle.Render("sha256: "+e.SHA256))
		}
		if e.SizeBytes > 0 {
			fmt.Printf("    %s\n", VerboseStyle.Render("size: "+formatFileSize(e.SizeBytes)))
		}
	}
}
