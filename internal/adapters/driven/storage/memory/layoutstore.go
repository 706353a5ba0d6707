package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
)

// Ensure LayoutStore implements the interface.
var _ driven.LayoutStore = (*LayoutStore)(nil)

// LayoutStore is an in-memory implementation of driven.LayoutStore.
type LayoutStore struct {
	mu      sync.RWMutex
	layouts map[string]domain.DocumentLayout
	records map[string][]domain.Record
}

// NewLayoutStore creates a new in-memory layout store.
func NewLayoutStore() *LayoutStore {
	return &LayoutStore{
		layouts: make(map[string]domain.DocumentLayout),
		records: make(map[string][]domain.Record),
	}
}

// Save stores or replaces a layout together with its records.
func (s *LayoutStore) Save(_ context.Context, layout *domain.DocumentLayout, records []domain.Record) error {
	if layout == nil || layout.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *layout
	stored.Pages = append([]domain.PageResult(nil), layout.Pages...)
	s.layouts[layout.ID] = stored

	recs := append([]domain.Record(nil), records...)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Position < recs[j].Position })
	s.records[layout.ID] = recs
	return nil
}

// Get retrieves a layout by ID.
func (s *LayoutStore) Get(_ context.Context, id string) (*domain.DocumentLayout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	layout, ok := s.layouts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &layout, nil
}

// List returns all stored layouts, newest first.
func (s *LayoutStore) List(_ context.Context) ([]domain.DocumentLayout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	layouts := make([]domain.DocumentLayout, 0, len(s.layouts))
	for _, l := range s.layouts {
		layouts = append(layouts, l)
	}
	sort.Slice(layouts, func(i, j int) bool {
		if !layouts[i].CreatedAt.Equal(layouts[j].CreatedAt) {
			return layouts[i].CreatedAt.After(layouts[j].CreatedAt)
		}
		return layouts[i].ID < layouts[j].ID
	})
	return layouts, nil
}

// Records returns the records of a layout in position order.
func (s *LayoutStore) Records(_ context.Context, id string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.layouts[id]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.Record(nil), s.records[id]...), nil
}

// Delete removes a layout and its records.
func (s *LayoutStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.layouts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.layouts, id)
	delete(s.records, id)
	return nil
}
