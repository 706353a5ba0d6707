package pdf

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

const (
	// baselineTolerance is the fraction of the font size two glyph
	// baselines may differ by and still share a line.
	baselineTolerance = 0.3

	// wordGapRatio is the horizontal gap, as a fraction of the font size,
	// above which a space is inserted between glyphs.
	wordGapRatio = 0.25

	// fontSizeEpsilon separates spans whose sizes differ only by rounding.
	fontSizeEpsilon = 0.01

	// fallbackAdvance is the per-rune advance, as a fraction of the font
	// size, assumed for glyphs whose font carries no widths.
	fallbackAdvance = 0.5
)

// line is a run of glyphs on one baseline.
type line struct {
	baseline float64
	glyphs   []pdf.Text
}

// assembleLines groups glyphs into one block per line and orders the blocks
// top-to-bottom then left-to-right in top-left page space, measured from
// the upper-left corner of box.
func assembleLines(glyphs []pdf.Text, box pageBox) []domain.Block {
	sorted := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		sorted = append(sorted, g)
	}
	if len(sorted) == 0 {
		return []domain.Block{}
	}

	// PDF y grows upward, so the top line has the largest baseline.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []*line
	var cur *line
	for _, g := range sorted {
		tol := math.Max(1, g.FontSize*baselineTolerance)
		if cur == nil || math.Abs(g.Y-cur.baseline) > tol {
			cur = &line{baseline: g.Y}
			lines = append(lines, cur)
		}
		cur.glyphs = append(cur.glyphs, g)
	}

	blocks := make([]domain.Block, 0, len(lines))
	for _, l := range lines {
		if b, ok := l.block(box); ok {
			blocks = append(blocks, b)
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].BBox.Y0 != blocks[j].BBox.Y0 {
			return blocks[i].BBox.Y0 < blocks[j].BBox.Y0
		}
		return blocks[i].BBox.X0 < blocks[j].BBox.X0
	})
	return blocks
}

// block converts the line to a domain block. Lines made only of
// whitespace glyphs produce no block.
func (l *line) block(box pageBox) (domain.Block, bool) {
	sort.SliceStable(l.glyphs, func(i, j int) bool {
		return l.glyphs[i].X < l.glyphs[j].X
	})

	var (
		spans        []domain.Span
		text         strings.Builder
		spanSize     float64
		maxSize      float64
		x0           = math.Inf(1)
		x1           = math.Inf(-1)
		prevEnd      float64
		started      bool
		pendingSpace bool
	)

	flush := func() {
		if text.Len() > 0 {
			spans = append(spans, domain.Span{Text: text.String(), FontSize: spanSize})
			text.Reset()
		}
	}

	for _, g := range l.glyphs {
		if strings.TrimSpace(g.S) == "" {
			if started {
				pendingSpace = true
			}
			continue
		}

		if started {
			gap := g.X - prevEnd
			if gap > g.FontSize*wordGapRatio {
				pendingSpace = true
			}
			if math.Abs(g.FontSize-spanSize) > fontSizeEpsilon {
				if pendingSpace {
					text.WriteByte(' ')
					pendingSpace = false
				}
				flush()
			}
		}
		if text.Len() == 0 {
			spanSize = g.FontSize
		}
		if pendingSpace {
			text.WriteByte(' ')
			pendingSpace = false
		}
		text.WriteString(g.S)

		started = true
		prevEnd = g.X + advance(g)
		x0 = math.Min(x0, g.X)
		x1 = math.Max(x1, prevEnd)
		maxSize = math.Max(maxSize, g.FontSize)
	}
	flush()

	if len(spans) == 0 {
		return domain.Block{}, false
	}

	return domain.Block{
		BBox: domain.BoundingBox{
			X0: x0 - box.llx,
			Y0: box.ury - (l.baseline + maxSize),
			X1: x1 - box.llx,
			Y1: box.ury - l.baseline,
		},
		Spans: spans,
	}, true
}

// advance is the glyph's horizontal extent. Fonts without a Widths array
// report zero, so the extent is estimated from the font size.
func advance(g pdf.Text) float64 {
	if g.W > 0 {
		return g.W
	}
	return g.FontSize * fallbackAdvance * float64(utf8.RuneCountInString(g.S))
}
