package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driving"
	"github.com/custodia-labs/pagelayout/internal/layout"
	"github.com/custodia-labs/pagelayout/internal/logger"
)

// Ensure LayoutService implements the interface.
var _ driving.LayoutService = (*LayoutService)(nil)

// ErrNoStore is returned by persistence operations when the service was
// built without a layout store. It wraps domain.ErrNotImplemented.
var ErrNoStore = fmt.Errorf("%w: no layout store configured", domain.ErrNotImplemented)

// PipelineBuilder builds the record pipeline for the given settings.
type PipelineBuilder func(settings domain.RecordSettings) (driven.PostProcessorPipeline, error)

// LayoutService decodes files, runs the layout engine and manages the
// resulting layouts.
type LayoutService struct {
	decoders  driven.DecoderRegistry
	settings  driving.SettingsService
	pipelines PipelineBuilder
	store     driven.LayoutStore
	now       func() time.Time
}

// NewLayoutService creates a new layout service.
// Settings are read on every call so changes apply without a restart.
// A nil settings service means defaults; a nil store disables persistence;
// a nil pipeline builder produces no records.
func NewLayoutService(
	decoders driven.DecoderRegistry,
	settings driving.SettingsService,
	pipelines PipelineBuilder,
	store driven.LayoutStore,
) *LayoutService {
	return &LayoutService{
		decoders:  decoders,
		settings:  settings,
		pipelines: pipelines,
		store:     store,
		now:       time.Now,
	}
}

// ExtractFile reads the file at path and reconstructs its layout.
func (s *LayoutService) ExtractFile(ctx context.Context, path string, opts driving.ExtractOptions) (*driving.ExtractResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return s.ExtractBytes(ctx, abs, data, opts)
}

// ExtractBytes reconstructs the layout of file content.
// Layout IDs are derived from the name, so extracting the same file again
// replaces the stored layout instead of adding a copy.
func (s *LayoutService) ExtractBytes(
	ctx context.Context,
	name string,
	data []byte,
	opts driving.ExtractOptions,
) (*driving.ExtractResult, error) {
	logger.Section("Extract " + filepath.Base(name))

	decoder, err := s.decoderFor(name, opts.Decoder)
	if err != nil {
		return nil, err
	}

	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}

	engine, err := layout.NewEngine(settings.Layout)
	if err != nil {
		return nil, err
	}

	done := logger.Timed("decode with %s", decoder.Name())
	pages, err := decoder.Decode(ctx, data)
	done()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(name), err)
	}
	logger.Debug("decoded %d pages", len(pages))

	done = logger.Timed("layout of %d pages", len(pages))
	results, err := engine.Process(ctx, pages)
	done()
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", filepath.Base(name), err)
	}

	doc := &domain.DocumentLayout{
		ID:        LayoutID(name),
		URI:       name,
		Decoder:   decoder.Name(),
		Pages:     results,
		CreatedAt: s.now(),
	}
	logger.Info("%s: %d pages, %d chunks", filepath.Base(name), len(doc.Pages), doc.ChunkCount())

	records, err := s.records(ctx, doc, settings.Records)
	if err != nil {
		return nil, err
	}

	result := &driving.ExtractResult{Layout: doc, Records: records}
	if !opts.Save {
		return result, nil
	}

	if s.store == nil {
		return nil, ErrNoStore
	}
	if err := s.store.Save(ctx, doc, records); err != nil {
		return nil, fmt.Errorf("save layout: %w", err)
	}
	logger.Debug("saved layout %s with %d records", doc.ID, len(records))
	result.Saved = true
	return result, nil
}

// ProcessPages runs already decoded pages through the layout engine.
func (s *LayoutService) ProcessPages(ctx context.Context, pages []domain.Page) ([]domain.PageResult, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}

	engine, err := layout.NewEngine(settings.Layout)
	if err != nil {
		return nil, err
	}
	return engine.Process(ctx, pages)
}

// Get retrieves a stored layout by ID.
func (s *LayoutService) Get(ctx context.Context, id string) (*domain.DocumentLayout, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.Get(ctx, id)
}

// List returns all stored layouts.
func (s *LayoutService) List(ctx context.Context) ([]domain.DocumentLayout, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.List(ctx)
}

// Records returns the stored records of a layout.
func (s *LayoutService) Records(ctx context.Context, id string) ([]domain.Record, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.Records(ctx, id)
}

// Delete removes a stored layout.
func (s *LayoutService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.store.Delete(ctx, id)
}

// SupportedExtensions returns the file extensions that can be extracted.
func (s *LayoutService) SupportedExtensions() []string {
	return s.decoders.Extensions()
}

// LayoutID returns the stable layout ID for a file name.
func LayoutID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+name)).String()
}

func (s *LayoutService) decoderFor(name, forced string) (driven.PageDecoder, error) {
	if s.decoders == nil {
		return nil, fmt.Errorf("%w: no decoders configured", domain.ErrUnsupportedType)
	}
	if forced != "" {
		return s.decoders.Get(forced)
	}
	return s.decoders.ForPath(name)
}

func (s *LayoutService) loadSettings() (domain.AppSettings, error) {
	if s.settings == nil {
		return domain.DefaultAppSettings(), nil
	}
	settings, err := s.settings.Get()
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return *settings, nil
}

func (s *LayoutService) records(
	ctx context.Context,
	doc *domain.DocumentLayout,
	settings domain.RecordSettings,
) ([]domain.Record, error) {
	if s.pipelines == nil {
		return nil, nil
	}

	pipeline, err := s.pipelines(settings)
	if err != nil {
		return nil, fmt.Errorf("build record pipeline: %w", err)
	}

	records, err := pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("build records: %w", err)
	}
	logger.Debug("built %d records", len(records))
	return records, nil
}
