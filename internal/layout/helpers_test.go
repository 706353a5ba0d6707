package layout

import "github.com/custodia-labs/pagelayout/internal/core/domain"

const testPageHeight = 1000.0

// textBlock builds a decoder block with a single span.
func textBlock(x0, y0, x1, y1 float64, text string, size float64) domain.Block {
	return domain.Block{
		BBox:  domain.BoundingBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		Spans: []domain.Span{{Text: text, FontSize: size}},
	}
}

// filtered builds a filtered block directly.
func filtered(x0, y0, y1 float64, text string, size float64) domain.FilteredBlock {
	return domain.FilteredBlock{
		BBox:        domain.BoundingBox{X0: x0, Y0: y0, X1: x0 + 400, Y1: y1},
		Text:        text,
		AvgFontSize: size,
	}
}

func chunkOf(blocks ...domain.FilteredBlock) domain.Chunk {
	return domain.Chunk{Blocks: blocks}
}

func defaults() domain.LayoutSettings {
	return domain.DefaultLayoutSettings()
}
