package driving

import (
	"context"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

// ExtractOptions controls a single extraction.
type ExtractOptions struct {
	// Save persists the layout and its records when a store is configured.
	Save bool

	// Decoder forces a decoder by name instead of selecting by extension.
	Decoder string
}

// ExtractResult is the outcome of an extraction.
type ExtractResult struct {
	// Layout is the reconstructed document.
	Layout *domain.DocumentLayout

	// Records are the retrieval records derived from the layout.
	Records []domain.Record

	// Saved is true when the layout was persisted.
	Saved bool
}

// LayoutService reconstructs and manages document layouts.
type LayoutService interface {
	// ExtractFile decodes the file at path and reconstructs its layout.
	ExtractFile(ctx context.Context, path string, opts ExtractOptions) (*ExtractResult, error)

	// ExtractBytes reconstructs the layout of file content. The name selects
	// the decoder by extension and becomes the layout URI.
	ExtractBytes(ctx context.Context, name string, data []byte, opts ExtractOptions) (*ExtractResult, error)

	// ProcessPages runs already decoded pages through the layout engine.
	ProcessPages(ctx context.Context, pages []domain.Page) ([]domain.PageResult, error)

	// Get retrieves a stored layout by ID.
	Get(ctx context.Context, id string) (*domain.DocumentLayout, error)

	// List returns all stored layouts.
	List(ctx context.Context) ([]domain.DocumentLayout, error)

	// Records returns the stored records of a layout.
	Records(ctx context.Context, id string) ([]domain.Record, error)

	// Delete removes a stored layout.
	Delete(ctx context.Context, id string) error

	// SupportedExtensions returns the file extensions that can be extracted.
	SupportedExtensions() []string
}
