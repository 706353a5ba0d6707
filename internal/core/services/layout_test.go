package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagelayout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
	"github.com/custodia-labs/pagelayout/internal/decoders"
	"github.com/custodia-labs/pagelayout/internal/postprocessors"
)

// manualDump is a one-page PyMuPDF dump: a title, a two-line paragraph,
// a separate paragraph and a footer page number.
const manualDump = `[{
  "width": 600, "height": 1000,
  "blocks": [
    {"type": 0, "bbox": [50, 100, 400, 130], "lines": [{"spans": [{"text": "Engine Oil", "size": 24}]}]},
    {"type": 0, "bbox": [50, 200, 500, 212], "lines": [{"spans": [{"text": "Use only approved oil.", "size": 12}]}]},
    {"type": 0, "bbox": [50, 214, 500, 226], "lines": [{"spans": [{"text": "Check the level weekly.", "size": 12}]}]},
    {"type": 0, "bbox": [50, 300, 500, 312], "lines": [{"spans": [{"text": "Dispose of used oil safely.", "size": 12}]}]},
    {"type": 0, "bbox": [290, 960, 310, 975], "lines": [{"spans": [{"text": "12", "size": 9}]}]}
  ]
}]`

func buildPipeline(settings domain.RecordSettings) (driven.PostProcessorPipeline, error) {
	return postprocessors.NewDefaultPipeline(settings)
}

func newTestLayoutService(t *testing.T) (*LayoutService, *memory.LayoutStore, *SettingsService) {
	t.Helper()
	store := memory.NewLayoutStore()
	settings := NewSettingsService(memory.NewConfigStore())
	svc := NewLayoutService(decoders.NewDefaultRegistry(), settings, buildPipeline, store)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc, store, settings
}

func writeDump(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLayoutService_ExtractFile(t *testing.T) {
	svc, store, _ := newTestLayoutService(t)
	path := writeDump(t, "manual.json", manualDump)

	result, err := svc.ExtractFile(context.Background(), path, driving.ExtractOptions{})
	require.NoError(t, err)

	doc := result.Layout
	assert.Equal(t, path, doc.URI)
	assert.Equal(t, "pymupdf", doc.Decoder)
	assert.Equal(t, LayoutID(path), doc.ID)
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, "Engine Oil", page.TitleText())
	assert.Equal(t, []string{
		"Use only approved oil.\nCheck the level weekly.",
		"Dispose of used oil safely.",
	}, page.Chunks)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "Engine Oil", result.Records[0].Title)
	assert.False(t, result.Saved)

	layouts, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, layouts, "nothing saved without Save")
}

func TestLayoutService_ExtractFile_Save(t *testing.T) {
	svc, _, _ := newTestLayoutService(t)
	ctx := context.Background()
	path := writeDump(t, "manual.json", manualDump)

	result, err := svc.ExtractFile(ctx, path, driving.ExtractOptions{Save: true})
	require.NoError(t, err)
	assert.True(t, result.Saved)

	// Extracting again replaces rather than duplicates.
	_, err = svc.ExtractFile(ctx, path, driving.ExtractOptions{Save: true})
	require.NoError(t, err)

	layouts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, layouts, 1)

	got, err := svc.Get(ctx, result.Layout.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Layout.Pages, got.Pages)

	records, err := svc.Records(ctx, result.Layout.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, svc.Delete(ctx, result.Layout.ID))
	_, err = svc.Get(ctx, result.Layout.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLayoutService_ExtractFile_NotFound(t *testing.T) {
	svc, _, _ := newTestLayoutService(t)

	_, err := svc.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), driving.ExtractOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLayoutService_ExtractBytes_UnsupportedType(t *testing.T) {
	svc, _, _ := newTestLayoutService(t)

	_, err := svc.ExtractBytes(context.Background(), "notes.txt", []byte("hi"), driving.ExtractOptions{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = svc.ExtractBytes(context.Background(), "dump.json", []byte(manualDump), driving.ExtractOptions{Decoder: "ocr"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestLayoutService_ExtractBytes_ForcedDecoder(t *testing.T) {
	svc, _, _ := newTestLayoutService(t)

	result, err := svc.ExtractBytes(context.Background(), "dump.txt", []byte(manualDump),
		driving.ExtractOptions{Decoder: "pymupdf"})
	require.NoError(t, err)
	assert.Equal(t, "pymupdf", result.Layout.Decoder)
}

func TestLayoutService_ExtractBytes_DecodeError(t *testing.T) {
	svc, _, _ := newTestLayoutService(t)
	bad := `[{"width": 600, "height": 1000, "blocks": [{"type": 0, "bbox": [1, 2]}]}]`

	_, err := svc.ExtractBytes(context.Background(), "bad.json", []byte(bad), driving.ExtractOptions{})

	var blockErr *domain.BlockError
	require.True(t, errors.As(err, &blockErr))
	assert.Equal(t, 1, blockErr.Page)
	assert.Equal(t, 0, blockErr.Block)
}

func TestLayoutService_UsesCurrentSettings(t *testing.T) {
	svc, _, settings := newTestLayoutService(t)
	require.NoError(t, settings.Set("layout.boilerplate_markers", "Dispose"))
	require.NoError(t, settings.Set("records.max_chars", "10"))

	result, err := svc.ExtractBytes(context.Background(), "manual.json", []byte(manualDump), driving.ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Use only approved oil.\nCheck the level weekly."}, result.Layout.Pages[0].Chunks)
	for _, r := range result.Records {
		assert.LessOrEqual(t, len([]rune(r.Content)), 10)
	}
	assert.Greater(t, len(result.Records), 1)
}

func TestLayoutService_ProcessPages(t *testing.T) {
	svc, _, _ := newTestLayoutService(t)
	pages := []domain.Page{
		{Height: 1000, Blocks: []domain.Block{
			{BBox: domain.BoundingBox{X0: 10, Y0: 500, X1: 200, Y1: 512}, Spans: []domain.Span{{Text: "Body", FontSize: 12}}},
		}},
		{Height: 1000},
	}

	results, err := svc.ProcessPages(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"Body"}, results[0].Chunks)
	assert.Equal(t, domain.PageResult{PageNumber: 2, Chunks: []string{}}, results[1])
}

func TestLayoutService_InvalidStoredSettings(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("layout.section_gap_ratio", -1.0)
	svc := NewLayoutService(decoders.NewDefaultRegistry(), NewSettingsService(store), nil, nil)

	_, err := svc.ExtractBytes(context.Background(), "manual.json", []byte(manualDump), driving.ExtractOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLayoutService_WithoutStoreOrPipeline(t *testing.T) {
	svc := NewLayoutService(decoders.NewDefaultRegistry(), nil, nil, nil)
	ctx := context.Background()

	result, err := svc.ExtractBytes(ctx, "manual.json", []byte(manualDump), driving.ExtractOptions{})
	require.NoError(t, err)
	assert.Nil(t, result.Records)

	_, err = svc.ExtractBytes(ctx, "manual.json", []byte(manualDump), driving.ExtractOptions{Save: true})
	assert.ErrorIs(t, err, ErrNoStore)

	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = svc.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = svc.Records(ctx, "x")
	assert.ErrorIs(t, err, ErrNoStore)
	assert.ErrorIs(t, svc.Delete(ctx, "x"), ErrNoStore)

	assert.Equal(t, []string{".json", ".pdf"}, svc.SupportedExtensions())
}

func TestLayoutID_Stable(t *testing.T) {
	assert.Equal(t, LayoutID("/a/b.pdf"), LayoutID("/a/b.pdf"))
	assert.NotEqual(t, LayoutID("/a/b.pdf"), LayoutID("/a/c.pdf"))
}
