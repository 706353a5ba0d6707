package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

// FilterBlocks drops header/footer and noise blocks, keeping input order.
func FilterBlocks(blocks []domain.Block, pageHeight float64, settings domain.LayoutSettings) []domain.FilteredBlock {
	filtered := make([]domain.FilteredBlock, 0, len(blocks))

	for i := range blocks {
		if fb, ok := filterBlock(&blocks[i], pageHeight, settings); ok {
			filtered = append(filtered, fb)
		}
	}

	return filtered
}

func filterBlock(block *domain.Block, pageHeight float64, settings domain.LayoutSettings) (domain.FilteredBlock, bool) {
	if IsHeaderFooter(block.BBox, pageHeight, settings.HeaderFraction, settings.FooterFraction) {
		return domain.FilteredBlock{}, false
	}

	var sb strings.Builder
	for _, span := range block.Spans {
		sb.WriteString(span.Text)
	}

	text := strings.TrimSpace(sb.String())
	if isNoise(text, settings) {
		return domain.FilteredBlock{}, false
	}

	return domain.FilteredBlock{
		BBox:        block.BBox,
		Text:        text,
		AvgFontSize: meanFontSize(block.Spans),
	}, true
}

// meanFontSize returns the arithmetic mean of span font sizes, 0 for no spans.
func meanFontSize(spans []domain.Span) float64 {
	if len(spans) == 0 {
		return 0
	}
	var total float64
	for _, span := range spans {
		total += span.FontSize
	}
	return total / float64(len(spans))
}

// isNoise reports whether trimmed block text should be discarded.
// Blocks without spans always have empty text and are dropped here.
func isNoise(text string, settings domain.LayoutSettings) bool {
	if text == "" {
		return true
	}
	for _, marker := range settings.BoilerplateMarkers {
		if marker != "" && strings.Contains(text, marker) {
			return true
		}
	}
	return utf8.RuneCountInString(text) < settings.MinTextLength
}
