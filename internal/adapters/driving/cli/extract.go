package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagelayout/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
)

var (
	extractOutput  string
	extractSave    bool
	extractDecoder string
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Reconstruct the layout of a file",
	Long: `Decode a file and print the title and paragraphs of every page.

The decoder is chosen by file extension: .pdf files are read natively and
.json files are treated as PyMuPDF "dict" dumps. Use --decoder to override.

Output formats:
  text     - Styled page listing (default)
  json     - The full layout as JSON
  records  - Retrieval records as JSON`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", outputText, "Output format: text, json or records")
	extractCmd.Flags().BoolVarP(&extractSave, "save", "s", false, "Store the layout and its records")
	extractCmd.Flags().StringVar(&extractDecoder, "decoder", "", "Force a decoder by name (pdf, pymupdf)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := requireLayoutService(); err != nil {
		return err
	}
	if !validOutput(extractOutput) {
		return fmt.Errorf("unknown output format %q", extractOutput)
	}

	result, err := layoutService.ExtractFile(cmd.Context(), args[0], driving.ExtractOptions{
		Save:    extractSave,
		Decoder: extractDecoder,
	})
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	switch extractOutput {
	case outputJSON:
		return writeJSON(out, result.Layout)
	case outputRecords:
		return writeRecordsJSON(out, result.Records)
	}

	renderLayout(out, styles.For(out), result.Layout)
	if result.Saved {
		fmt.Fprintf(out, "Saved as %s\n", result.Layout.ID)
	}
	return nil
}
