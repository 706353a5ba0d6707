package pdf

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

// testBox is a page whose user space origin is its lower-left corner.
var testBox = pageBox{urx: 600, ury: 800}

// buildPDF writes a single page PDF drawing content with an unmeasured
// Helvetica, so every glyph reports zero width. pagesExtra and pageExtra
// are spliced into the page tree node and the page dictionary.
func buildPDF(pagesExtra, pageExtra, content string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 " + pagesExtra + " >>",
		"<< /Type /Page /Parent 2 0 R " + pageExtra +
			" /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

const helloContent = "BT /F1 12 Tf 72 800 Td (Hello world) Tj ET"

// word lays out s as one glyph per rune with a fixed advance.
func word(s string, x, y, size float64) []pdf.Text {
	const advance = 5.0
	glyphs := make([]pdf.Text, 0, len(s))
	for i, r := range s {
		glyphs = append(glyphs, pdf.Text{
			Font:     "Helvetica",
			FontSize: size,
			X:        x + float64(i)*advance,
			Y:        y,
			W:        advance,
			S:        string(r),
		})
	}
	return glyphs
}

func concat(parts ...[]pdf.Text) []pdf.Text {
	var out []pdf.Text
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestDecoder_Metadata(t *testing.T) {
	d := New()
	assert.Equal(t, "pdf", d.Name())
	assert.Equal(t, []string{".pdf"}, d.Extensions())
}

func TestDecode_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("hello, this is plain text and not a PDF file")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := New().Decode(context.Background(), tt.data)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, pages)
		})
	}
}

func TestDecode_MediaBoxOrigin(t *testing.T) {
	tests := []struct {
		name       string
		pagesExtra string
		pageExtra  string
		width      float64
		height     float64
		x0         float64
	}{
		{"zero origin", "", "/MediaBox [0 0 612 892]", 612, 892, 72},
		{"raised origin", "", "/MediaBox [0 100 612 892]", 612, 792, 72},
		{"shifted origin", "", "/MediaBox [50 100 662 892]", 612, 792, 22},
		{"inherited from page tree", "/MediaBox [0 100 612 892]", "", 612, 792, 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildPDF(tt.pagesExtra, tt.pageExtra, helloContent)

			pages, err := New().Decode(context.Background(), data)
			require.NoError(t, err)
			require.Len(t, pages, 1)

			page := pages[0]
			assert.Equal(t, 1, page.Number)
			assert.InDelta(t, tt.width, page.Width, 1e-9)
			assert.InDelta(t, tt.height, page.Height, 1e-9)
			require.Len(t, page.Blocks, 1)

			block := page.Blocks[0]
			assert.Equal(t, []domain.Span{{Text: "Hello world", FontSize: 12}}, block.Spans)
			assert.InDelta(t, 80, block.BBox.Y0, 1e-9)
			assert.InDelta(t, 92, block.BBox.Y1, 1e-9)
			assert.InDelta(t, tt.x0, block.BBox.X0, 1e-9)
			assert.Greater(t, block.BBox.X1, block.BBox.X0, "unmeasured glyphs still have width")
		})
	}
}

func TestDecode_DefaultMediaBox(t *testing.T) {
	data := buildPDF("", "", helloContent)

	pages, err := New().Decode(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.InDelta(t, 612, pages[0].Width, 1e-9)
	assert.InDelta(t, 792, pages[0].Height, 1e-9)
	require.Len(t, pages[0].Blocks, 1)
	assert.InDelta(t, -20, pages[0].Blocks[0].BBox.Y0, 1e-9)
}

func TestAssembleLines_Empty(t *testing.T) {
	assert.Empty(t, assembleLines(nil, testBox))
	assert.Empty(t, assembleLines([]pdf.Text{{S: ""}}, testBox))
}

func TestAssembleLines_WordsAndOrder(t *testing.T) {
	// Glyphs arrive out of order: body line first, title line second.
	glyphs := concat(
		word("body", 72, 600, 10),
		word("Title", 72, 700, 20),
		word("text", 72+4*5+6, 600, 10),
	)

	blocks := assembleLines(glyphs, testBox)
	require.Len(t, blocks, 2)

	title := blocks[0]
	assert.Equal(t, []domain.Span{{Text: "Title", FontSize: 20}}, title.Spans)
	assert.InDelta(t, 80, title.BBox.Y0, 1e-9)
	assert.InDelta(t, 100, title.BBox.Y1, 1e-9)
	assert.InDelta(t, 72, title.BBox.X0, 1e-9)
	assert.InDelta(t, 97, title.BBox.X1, 1e-9)

	body := blocks[1]
	assert.Equal(t, []domain.Span{{Text: "body text", FontSize: 10}}, body.Spans)
	assert.InDelta(t, 190, body.BBox.Y0, 1e-9)
	assert.InDelta(t, 200, body.BBox.Y1, 1e-9)
}

func TestAssembleLines_SpansSplitOnFontSize(t *testing.T) {
	glyphs := concat(
		word("Big", 0, 500, 18),
		word("small", 15+10, 500, 9),
	)

	blocks := assembleLines(glyphs, testBox)
	require.Len(t, blocks, 1)
	assert.Equal(t, []domain.Span{
		{Text: "Big ", FontSize: 18},
		{Text: "small", FontSize: 9},
	}, blocks[0].Spans)
}

func TestAssembleLines_ExplicitSpaceGlyph(t *testing.T) {
	glyphs := concat(
		word("a", 0, 500, 10),
		[]pdf.Text{{FontSize: 10, X: 5, Y: 500, W: 2, S: " "}},
		word("b", 7, 500, 10),
	)

	blocks := assembleLines(glyphs, testBox)
	require.Len(t, blocks, 1)
	assert.Equal(t, "a b", blocks[0].Spans[0].Text)
}

func TestAssembleLines_BaselineJitterSharesLine(t *testing.T) {
	glyphs := concat(
		word("ab", 0, 500, 10),
		word("cd", 10, 501.5, 10),
	)

	blocks := assembleLines(glyphs, testBox)
	require.Len(t, blocks, 1)
	assert.Equal(t, "abcd", blocks[0].Spans[0].Text)
}

func TestAssembleLines_OffsetBox(t *testing.T) {
	box := pageBox{llx: 50, lly: 100, urx: 662, ury: 892}

	blocks := assembleLines(word("ab", 72, 800, 12), box)
	require.Len(t, blocks, 1)
	assert.InDelta(t, 22, blocks[0].BBox.X0, 1e-9)
	assert.InDelta(t, 32, blocks[0].BBox.X1, 1e-9)
	assert.InDelta(t, 80, blocks[0].BBox.Y0, 1e-9)
	assert.InDelta(t, 92, blocks[0].BBox.Y1, 1e-9)
}

func TestAssembleLines_ZeroWidthGlyphs(t *testing.T) {
	// A font without Widths reports W == 0 for every glyph.
	glyphs := []pdf.Text{
		{FontSize: 10, X: 100, Y: 500, S: "a"},
		{FontSize: 10, X: 106, Y: 500, S: "b"},
		{FontSize: 10, X: 130, Y: 500, S: "c"},
	}

	blocks := assembleLines(glyphs, testBox)
	require.Len(t, blocks, 1)
	assert.Equal(t, "ab c", blocks[0].Spans[0].Text)
	assert.InDelta(t, 100, blocks[0].BBox.X0, 1e-9)
	assert.InDelta(t, 135, blocks[0].BBox.X1, 1e-9)
}

func TestAssembleLines_WhitespaceOnlyLineDropped(t *testing.T) {
	glyphs := []pdf.Text{
		{FontSize: 10, X: 0, Y: 300, W: 3, S: " "},
		{FontSize: 10, X: 3, Y: 300, W: 3, S: "\t"},
	}
	assert.Empty(t, assembleLines(glyphs, testBox))
}
