package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/pagelayout/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

// Output formats accepted by --output.
const (
	outputText    = "text"
	outputJSON    = "json"
	outputRecords = "records"
)

func validOutput(format string) bool {
	switch format {
	case outputText, outputJSON, outputRecords:
		return true
	default:
		return false
	}
}

// renderLayout prints a layout page by page.
func renderLayout(w io.Writer, s *styles.Styles, layout *domain.DocumentLayout) {
	fmt.Fprintln(w, s.Heading.Render("Document: "+layout.URI))
	fmt.Fprintln(w, s.Muted.Render(fmt.Sprintf("%s | %s | %d pages | %d chunks",
		layout.ID, layout.Decoder, len(layout.Pages), layout.ChunkCount())))

	for i := range layout.Pages {
		page := &layout.Pages[i]
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Page.Render(fmt.Sprintf("Page %d", page.PageNumber)))
		if page.HasTitle() {
			fmt.Fprintln(w, s.Title.Render(page.TitleText()))
		}
		if len(page.Chunks) == 0 {
			fmt.Fprintln(w, s.Warning.Render("(no content)"))
			continue
		}
		for _, chunk := range page.Chunks {
			fmt.Fprintln(w, s.Chunk.Render(chunk))
			fmt.Fprintln(w)
		}
	}
}

// renderRecords prints records one per paragraph with their origin.
func renderRecords(w io.Writer, s *styles.Styles, records []domain.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, s.Muted.Render("No records."))
		return
	}
	for i := range records {
		r := &records[i]
		header := fmt.Sprintf("#%d page %d", r.Position, r.PageNumber)
		if r.Title != "" {
			header += " | " + r.Title
		}
		fmt.Fprintln(w, s.Page.Render(header))
		fmt.Fprintln(w, s.Chunk.Render(r.Content))
		fmt.Fprintln(w)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRecordsJSON encodes records as a JSON array, empty rather than null.
func writeRecordsJSON(w io.Writer, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	return writeJSON(w, records)
}
