package mcp

import (
	"context"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
)

// mockLayoutService is a mock implementation of driving.LayoutService.
type mockLayoutService struct {
	result  *driving.ExtractResult
	pages   []domain.PageResult
	layouts []domain.DocumentLayout
	layout  *domain.DocumentLayout
	records []domain.Record
	err     error

	gotPath  string
	gotOpts  driving.ExtractOptions
	gotPages []domain.Page
	gotID    string
}

func (m *mockLayoutService) ExtractFile(
	_ context.Context,
	path string,
	opts driving.ExtractOptions,
) (*driving.ExtractResult, error) {
	m.gotPath = path
	m.gotOpts = opts
	return m.result, m.err
}

func (m *mockLayoutService) ExtractBytes(
	_ context.Context,
	_ string,
	_ []byte,
	_ driving.ExtractOptions,
) (*driving.ExtractResult, error) {
	return m.result, m.err
}

func (m *mockLayoutService) ProcessPages(_ context.Context, pages []domain.Page) ([]domain.PageResult, error) {
	m.gotPages = pages
	return m.pages, m.err
}

func (m *mockLayoutService) Get(_ context.Context, id string) (*domain.DocumentLayout, error) {
	m.gotID = id
	return m.layout, m.err
}

func (m *mockLayoutService) List(_ context.Context) ([]domain.DocumentLayout, error) {
	return m.layouts, m.err
}

func (m *mockLayoutService) Records(_ context.Context, _ string) ([]domain.Record, error) {
	return m.records, m.err
}

func (m *mockLayoutService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockLayoutService) SupportedExtensions() []string {
	return []string{".json", ".pdf"}
}

func strPtr(s string) *string {
	return &s
}
