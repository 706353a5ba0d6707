package layout

import (
	"math"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
)

// GroupParagraphs merges ordered filtered blocks into paragraph chunks.
//
// The scan is greedy and never looks back: each block is compared only with
// the last block of the chunk being built. Concatenating the returned chunks
// reproduces the input exactly.
func GroupParagraphs(blocks []domain.FilteredBlock, settings domain.LayoutSettings) []domain.Chunk {
	if len(blocks) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	current := []domain.FilteredBlock{blocks[0]}

	for i := 1; i < len(blocks); i++ {
		prev := current[len(current)-1]
		cur := blocks[i]

		if continuesParagraph(prev, cur, settings) {
			current = append(current, cur)
			continue
		}

		chunks = append(chunks, domain.Chunk{Blocks: current})
		current = []domain.FilteredBlock{cur}
	}

	return append(chunks, domain.Chunk{Blocks: current})
}

// continuesParagraph reports whether cur belongs to the same paragraph as prev.
func continuesParagraph(prev, cur domain.FilteredBlock, settings domain.LayoutSettings) bool {
	gap := cur.BBox.Y0 - prev.BBox.Y1

	closeBelow := gap >= 0 && gap < prev.AvgFontSize*settings.VerticalGapRatio
	sameFont := math.Abs(cur.AvgFontSize-prev.AvgFontSize) < settings.FontSizeTolerance
	aligned := math.Abs(cur.BBox.X0-prev.BBox.X0) < settings.AlignmentTolerance

	// A large jump or a markedly bigger font starts a new section even
	// when the three conditions above hold.
	newSection := gap > prev.AvgFontSize*settings.SectionGapRatio ||
		cur.AvgFontSize > prev.AvgFontSize*settings.SectionFontRatio

	return closeBelow && sameFont && aligned && !newSection
}
