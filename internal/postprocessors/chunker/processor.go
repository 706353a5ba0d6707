// Package chunker converts page layouts into retrieval records,
// one record per reconstructed paragraph.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Metadata keys set on every record.
const (
	MetaTitle  = "title"
	MetaPages  = "pages"
	MetaSource = "source"
	MetaChunk  = "chunk_index"
)

// Processor creates one record per page chunk.
type Processor struct {
	newID func() string
}

// New creates a new chunker processor.
func New() *Processor {
	return &Processor{newID: func() string { return uuid.New().String() }}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process builds records from the layout's pages in page then chunk order.
// Input records are ignored; this processor creates records from the layout.
// The page title is attached to every record of that page but never
// becomes a record itself.
func (p *Processor) Process(_ context.Context, layout *domain.DocumentLayout, _ []domain.Record) ([]domain.Record, error) {
	records := make([]domain.Record, 0, layout.ChunkCount())

	for _, page := range layout.Pages {
		for i, content := range page.Chunks {
			meta := map[string]any{
				MetaPages: page.PageNumber,
				MetaChunk: i,
			}
			if page.HasTitle() {
				meta[MetaTitle] = page.TitleText()
			}
			if layout.URI != "" {
				meta[MetaSource] = layout.URI
			}

			records = append(records, domain.Record{
				ID:         p.newID(),
				DocumentID: layout.ID,
				PageNumber: page.PageNumber,
				Title:      page.TitleText(),
				Content:    content,
				Position:   len(records),
				Metadata:   meta,
			})
		}
	}

	if len(records) == 0 {
		return nil, nil
	}
	return records, nil
}
