package driven

import (
	"context"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

// LayoutStore persists processed document layouts and their records.
type LayoutStore interface {
	// Save stores or replaces a layout together with its records.
	Save(ctx context.Context, layout *domain.DocumentLayout, records []domain.Record) error

	// Get retrieves a layout by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.DocumentLayout, error)

	// List returns all stored layouts, newest first.
	List(ctx context.Context) ([]domain.DocumentLayout, error)

	// Records returns the records of a layout in position order.
	Records(ctx context.Context, id string) ([]domain.Record, error)

	// Delete removes a layout and its records.
	Delete(ctx context.Context, id string) error
}
