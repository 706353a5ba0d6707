package driven

import (
	"context"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

// PostProcessor derives retrieval records from a document layout.
// PostProcessors are chained in a pipeline (e.g., chunking, splitting).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a layout and returns records.
	// If the processor creates records (e.g., chunker), it receives nil and returns new records.
	// If the processor modifies records, it receives and returns records.
	Process(ctx context.Context, layout *domain.DocumentLayout, records []domain.Record) ([]domain.Record, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the layout through all processors in order.
	// Returns the final records after all processing.
	Process(ctx context.Context, layout *domain.DocumentLayout) ([]domain.Record, error)
}
