// Package pymupdf decodes JSON dumps of PyMuPDF's page.get_text("dict")
// output into domain pages.
//
// Two document shapes are accepted: a bare array of page objects, or an
// object with a "pages" array. Each page object carries width, height and
// blocks; only text blocks (type 0) are kept.
package pymupdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.PageDecoder = (*Decoder)(nil)

// textBlockType is PyMuPDF's block type for text; images are 1.
const textBlockType = 0

type dumpDocument struct {
	Pages []dumpPage `json:"pages"`
}

type dumpPage struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Blocks []dumpBlock `json:"blocks"`
}

type dumpBlock struct {
	Type  int        `json:"type"`
	BBox  []float64  `json:"bbox"`
	Lines []dumpLine `json:"lines"`
}

type dumpLine struct {
	Spans []dumpSpan `json:"spans"`
}

type dumpSpan struct {
	Text string  `json:"text"`
	Size float64 `json:"size"`
	Font string  `json:"font,omitempty"`
}

// Decoder reads PyMuPDF dict dumps.
type Decoder struct{}

// New creates a new PyMuPDF dump decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string {
	return "pymupdf"
}

// Extensions returns the file extensions this decoder handles.
func (d *Decoder) Extensions() []string {
	return []string{".json"}
}

// Decode parses the dump. Pages are numbered by their position in the dump.
func (d *Decoder) Decode(ctx context.Context, data []byte) ([]domain.Page, error) {
	raw, err := parseDump(data)
	if err != nil {
		return nil, err
	}

	pages := make([]domain.Page, 0, len(raw))
	for i, rp := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := convertPage(i+1, rp)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func parseDump(data []byte) ([]dumpPage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidInput)
	}

	if trimmed[0] == '[' {
		var pages []dumpPage
		if err := json.Unmarshal(trimmed, &pages); err != nil {
			return nil, fmt.Errorf("%w: parse page array: %v", domain.ErrInvalidInput, err)
		}
		return pages, nil
	}

	var doc dumpDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", domain.ErrInvalidInput, err)
	}
	return doc.Pages, nil
}

func convertPage(number int, rp dumpPage) (domain.Page, error) {
	if rp.Height <= 0 {
		return domain.Page{}, &domain.PageError{
			Page: number,
			Err:  fmt.Errorf("%w: page height must be positive, got %g", domain.ErrInvalidInput, rp.Height),
		}
	}

	page := domain.Page{
		Number: number,
		Width:  rp.Width,
		Height: rp.Height,
		Blocks: make([]domain.Block, 0, len(rp.Blocks)),
	}

	for i, rb := range rp.Blocks {
		if rb.Type != textBlockType {
			continue
		}
		if len(rb.BBox) != 4 {
			return domain.Page{}, &domain.BlockError{
				Page:  number,
				Block: i,
				Err:   fmt.Errorf("%w: bbox needs 4 values, got %d", domain.ErrInvalidInput, len(rb.BBox)),
			}
		}

		block := domain.Block{
			BBox: domain.BoundingBox{X0: rb.BBox[0], Y0: rb.BBox[1], X1: rb.BBox[2], Y1: rb.BBox[3]},
		}
		// Lines are flattened: a block's spans are read in line order.
		for _, line := range rb.Lines {
			for _, s := range line.Spans {
				block.Spans = append(block.Spans, domain.Span{Text: s.Text, FontSize: s.Size})
			}
		}
		page.Blocks = append(page.Blocks, block)
	}

	// Dumps written without sort=True keep content-stream order; reading
	// order is bottom edge then left edge, as PyMuPDF sorts.
	sort.SliceStable(page.Blocks, func(i, j int) bool {
		a, b := page.Blocks[i].BBox, page.Blocks[j].BBox
		if a.Y1 != b.Y1 {
			return a.Y1 < b.Y1
		}
		return a.X0 < b.X0
	})

	return page, nil
}
