package layout

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

// Engine runs the layout pipeline over decoded pages.
// It holds no state besides its settings and is safe for concurrent use.
type Engine struct {
	settings domain.LayoutSettings
}

// NewEngine creates an engine after validating the settings.
func NewEngine(settings domain.LayoutSettings) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("layout settings: %w", err)
	}
	return &Engine{settings: settings}, nil
}

// Settings returns the engine's settings.
func (e *Engine) Settings() domain.LayoutSettings {
	return e.settings
}

// ProcessPage reconstructs chunks and title for a single page.
// The page number of the result is taken from page.Number.
func (e *Engine) ProcessPage(page domain.Page) (domain.PageResult, error) {
	result := domain.PageResult{PageNumber: page.Number, Chunks: []string{}}

	if e.settings.ValidateGeometry {
		if err := validateGeometry(page); err != nil {
			return domain.PageResult{}, err
		}
	}

	blocks := FilterBlocks(page.Blocks, page.Height, e.settings)
	if len(blocks) == 0 {
		return result, nil
	}

	chunks := GroupParagraphs(blocks, e.settings)
	title, remaining := DetectTitle(chunks, page.Height, e.settings)
	result.Title = title

	for i := range remaining {
		if text := strings.TrimSpace(remaining[i].Text()); text != "" {
			result.Chunks = append(result.Chunks, text)
		}
	}

	return result, nil
}

// Process runs every page through the pipeline and returns the results in
// page order. Pages are numbered from 1 by position; any Number already set
// on the input is ignored.
//
// Pages are independent, so they are processed concurrently with at most
// Workers goroutines. The first failing page cancels the remaining work.
func (e *Engine) Process(ctx context.Context, pages []domain.Page) ([]domain.PageResult, error) {
	results := make([]domain.PageResult, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for i := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page := pages[i]
			page.Number = i + 1
			result, err := e.ProcessPage(page)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) workers() int {
	if e.settings.Workers > 0 {
		return e.settings.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// validateGeometry rejects the first inverted bounding box on the page.
func validateGeometry(page domain.Page) error {
	for i := range page.Blocks {
		if !page.Blocks[i].BBox.Valid() {
			return &domain.BlockError{Page: page.Number, Block: i, Err: domain.ErrInvalidGeometry}
		}
	}
	return nil
}
