// Package pdf decodes PDF files natively using github.com/ledongthuc/pdf.
//
// The PDF text layer is a list of positioned glyphs. Glyphs sharing a
// baseline are assembled into one block per line, with a new span whenever
// the font size changes. Coordinates are flipped to a top-left origin using
// the page MediaBox, whose lower-left corner need not be the user space
// origin, so blocks match the layout engine's page space.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
	"github.com/custodia-labs/pagelayout/internal/logger"
)

// Ensure Decoder implements the interface.
var _ driven.PageDecoder = (*Decoder)(nil)

// US Letter, used when a page has no readable MediaBox.
var defaultMediaBox = pageBox{urx: 612, ury: 792}

// maxParentDepth bounds the walk up the page tree for inherited attributes.
const maxParentDepth = 8

// Decoder reads PDF files.
type Decoder struct{}

// New creates a new PDF decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string {
	return "pdf"
}

// Extensions returns the file extensions this decoder handles.
func (d *Decoder) Extensions() []string {
	return []string{".pdf"}
}

// Decode reads every page of the PDF. Pages without a page object are
// returned with no blocks so numbering stays contiguous.
func (d *Decoder) Decode(ctx context.Context, data []byte) ([]domain.Page, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty PDF content", domain.ErrInvalidInput)
	}

	r, err := openReader(data)
	if err != nil {
		return nil, err
	}

	n, err := pageCount(r)
	if err != nil {
		return nil, err
	}

	pages := make([]domain.Page, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := decodePage(r, i)
		if err != nil {
			return nil, err
		}
		logger.Debug("pdf: page %d has %d line blocks", i, len(page.Blocks))
		pages = append(pages, page)
	}
	return pages, nil
}

// openReader opens the PDF, converting library panics into errors.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("%w: open pdf: %v", domain.ErrInvalidInput, rec)
		}
	}()

	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", domain.ErrInvalidInput, err)
	}
	return r, nil
}

func pageCount(r *pdf.Reader) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: read page tree: %v", domain.ErrInvalidInput, rec)
		}
	}()
	return r.NumPage(), nil
}

// decodePage reads one page, converting library panics into a PageError.
func decodePage(r *pdf.Reader, number int) (page domain.Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			page = domain.Page{}
			err = &domain.PageError{
				Page: number,
				Err:  fmt.Errorf("%w: read content stream: %v", domain.ErrInvalidInput, rec),
			}
		}
	}()

	p := r.Page(number)
	box := defaultMediaBox
	page = domain.Page{
		Number: number,
		Width:  box.width(),
		Height: box.height(),
		Blocks: []domain.Block{},
	}
	if p.V.IsNull() {
		return page, nil
	}

	if mb, ok := mediaBox(p.V); ok {
		box = mb
		page.Width, page.Height = box.width(), box.height()
	}

	page.Blocks = assembleLines(p.Content().Text, box)
	return page, nil
}

// pageBox is a rectangle in PDF user space, y growing upward.
type pageBox struct {
	llx, lly, urx, ury float64
}

func (b pageBox) width() float64  { return b.urx - b.llx }
func (b pageBox) height() float64 { return b.ury - b.lly }

// mediaBox returns the page MediaBox, which may be inherited from an
// ancestor in the page tree. Corners may be given in either order.
func mediaBox(v pdf.Value) (pageBox, bool) {
	for depth := 0; depth < maxParentDepth && !v.IsNull(); depth++ {
		arr := v.Key("MediaBox")
		if arr.Len() == 4 {
			x0, y0 := arr.Index(0).Float64(), arr.Index(1).Float64()
			x1, y1 := arr.Index(2).Float64(), arr.Index(3).Float64()
			box := pageBox{
				llx: math.Min(x0, x1),
				lly: math.Min(y0, y1),
				urx: math.Max(x0, x1),
				ury: math.Max(y0, y1),
			}
			if box.width() > 0 && box.height() > 0 {
				return box, true
			}
		}
		v = v.Key("Parent")
	}
	return pageBox{}, false
}
