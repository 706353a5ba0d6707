package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagelayout/internal/adapters/driving/cli/styles"
)

var documentOutput string

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored layouts",
	Long:  `List, view, or delete layouts saved with extract --save or watch.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored layouts",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a stored layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentRecordsCmd = &cobra.Command{
	Use:   "records [doc-id]",
	Short: "Show the records of a stored layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRecords,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a stored layout and its records",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.PersistentFlags().StringVarP(&documentOutput, "output", "o", outputText, "Output format: text or json")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentRecordsCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if err := requireLayoutService(); err != nil {
		return err
	}

	layouts, err := layoutService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	out := cmd.OutOrStdout()
	if documentOutput == outputJSON {
		for i := range layouts {
			layouts[i].Pages = nil
		}
		return writeJSON(out, layouts)
	}

	if len(layouts) == 0 {
		fmt.Fprintln(out, "No documents stored.")
		return nil
	}

	s := styles.For(out)
	fmt.Fprintln(out, s.Heading.Render("Stored documents:"))
	fmt.Fprintln(out)
	for i := range layouts {
		l := &layouts[i]
		fmt.Fprintf(out, "  %s\n", s.Key.Render(l.ID))
		fmt.Fprintf(out, "    URI:     %s\n", l.URI)
		fmt.Fprintf(out, "    Decoder: %s\n", l.Decoder)
		fmt.Fprintf(out, "    Created: %s\n", l.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Total: %d documents\n", len(layouts))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if err := requireLayoutService(); err != nil {
		return err
	}

	layout, err := layoutService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	out := cmd.OutOrStdout()
	if documentOutput == outputJSON {
		return writeJSON(out, layout)
	}
	renderLayout(out, styles.For(out), layout)
	return nil
}

func runDocumentRecords(cmd *cobra.Command, args []string) error {
	if err := requireLayoutService(); err != nil {
		return err
	}

	records, err := layoutService.Records(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}

	out := cmd.OutOrStdout()
	if documentOutput == outputJSON {
		return writeRecordsJSON(out, records)
	}
	renderRecords(out, styles.For(out), records)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if err := requireLayoutService(); err != nil {
		return err
	}

	if err := layoutService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Document %s deleted.\n", args[0])
	return nil
}
