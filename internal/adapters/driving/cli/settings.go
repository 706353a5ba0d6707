package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagelayout/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage layout settings",
	Long: `View and configure the thresholds of the layout engine, record
generation and storage.

Settings are stored in config.toml under the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Long: `Change a single setting, for example:

  pagelayout settings set layout.header_fraction 0.08
  pagelayout settings set layout.boilerplate_markers "Confidential,Draft"
  pagelayout settings set layout.boilerplate_markers '["Copyright 2024, ACME"]'
  pagelayout settings set layout.title_match position
  pagelayout settings set records.max_chars 800

List values are comma separated. Use a JSON array when a marker
itself contains a comma.

Run "pagelayout settings keys" for every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettingsService(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	s := styles.For(out)
	row := func(key string, value any) {
		fmt.Fprintf(out, "  %s = %v\n", s.Key.Render(key), value)
	}

	fmt.Fprintln(out, s.Heading.Render("Current Settings"))
	fmt.Fprintln(out)

	l := settings.Layout
	fmt.Fprintln(out, "[layout]")
	row("header_fraction", l.HeaderFraction)
	row("footer_fraction", l.FooterFraction)
	row("boilerplate_markers", formatMarkers(l.BoilerplateMarkers))
	row("min_text_length", l.MinTextLength)
	row("vertical_gap_ratio", l.VerticalGapRatio)
	row("font_size_tolerance", l.FontSizeTolerance)
	row("alignment_tolerance", l.AlignmentTolerance)
	row("section_gap_ratio", l.SectionGapRatio)
	row("section_font_ratio", l.SectionFontRatio)
	row("title_region_fraction", l.TitleRegionFraction)
	row("title_match", fmt.Sprintf("%s (%s)", l.TitleMatch, l.TitleMatch.Description()))
	row("validate_geometry", l.ValidateGeometry)
	row("workers", formatWorkers(l.Workers))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[records]")
	row("max_chars", formatMaxChars(settings.Records))
	row("overlap", settings.Records.Overlap)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[storage]")
	dir := settings.Storage.DataDir
	if dir == "" {
		dir = "(default)"
	}
	row("data_dir", dir)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requireSettingsService(); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.For(out).Success.Render(fmt.Sprintf("Set %s = %s", key, value)))
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if err := requireSettingsService(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, key := range settingsService.Keys() {
		fmt.Fprintln(out, key)
	}
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if err := requireSettingsService(); err != nil {
		return err
	}

	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.For(out).Success.Render("Settings restored to defaults."))
	return nil
}

func formatMarkers(markers []string) string {
	if len(markers) == 0 {
		return "(none)"
	}
	return strings.Join(markers, ", ")
}

func formatWorkers(n int) string {
	if n == 0 {
		return "0 (all CPUs)"
	}
	return fmt.Sprint(n)
}

func formatMaxChars(r domain.RecordSettings) string {
	if r.MaxChars == 0 {
		return "0 (no splitting)"
	}
	return fmt.Sprint(r.MaxChars)
}
