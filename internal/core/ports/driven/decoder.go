package driven

import (
	"context"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

// PageDecoder turns the bytes of a file into decoded pages.
// Each decoder handles specific file formats (e.g., PDF, PyMuPDF JSON dumps).
type PageDecoder interface {
	// Name returns the decoder name for logging and selection.
	Name() string

	// Extensions returns the lower-case file extensions handled, with leading dot.
	Extensions() []string

	// Decode returns the pages of the file in page order.
	// Blocks within each page must be in top-to-bottom reading order.
	Decode(ctx context.Context, data []byte) ([]domain.Page, error)
}

// DecoderRegistry selects decoders for files.
type DecoderRegistry interface {
	// ForPath returns the decoder for the file's extension.
	// Returns domain.ErrUnsupportedType if none is registered.
	ForPath(path string) (PageDecoder, error)

	// Get returns the decoder with the given name.
	// Returns domain.ErrUnsupportedType if none is registered.
	Get(name string) (PageDecoder, error)

	// Extensions returns every registered extension.
	Extensions() []string
}
