package layout

import "github.com/custodia-labs/pagelayout/internal/core/domain"

// DetectTitle selects the page title among chunks starting in the top
// region of the page and removes it from the chunk list.
//
// The candidate with the largest first-block font wins; ties go to the
// earliest chunk. With TitleMatchFirstText the first chunk whose text equals
// the title is removed, so an identical chunk further down the page stays.
// With TitleMatchPosition the selected chunk itself is removed.
//
// The input slice is never modified.
func DetectTitle(chunks []domain.Chunk, pageHeight float64, settings domain.LayoutSettings) (*string, []domain.Chunk) {
	limit := pageHeight * settings.TitleRegionFraction

	selected := -1
	for i := range chunks {
		first := chunks[i].First()
		if first.BBox.Y0 >= limit {
			continue
		}
		if selected < 0 || first.AvgFontSize > chunks[selected].First().AvgFontSize {
			selected = i
		}
	}

	if selected < 0 {
		return nil, chunks
	}

	title := chunks[selected].Text()

	remove := selected
	if settings.TitleMatch != domain.TitleMatchPosition {
		for i := range chunks {
			if chunks[i].Text() == title {
				remove = i
				break
			}
		}
	}

	remaining := make([]domain.Chunk, 0, len(chunks)-1)
	remaining = append(remaining, chunks[:remove]...)
	remaining = append(remaining, chunks[remove+1:]...)

	return &title, remaining
}
