package domain

import (
	"strings"
	"time"
)

// FilteredBlock is a block that survived noise filtering.
type FilteredBlock struct {
	// BBox is the bounding box of the source block.
	BBox BoundingBox

	// Text is the trimmed concatenation of the block's span texts.
	Text string

	// AvgFontSize is the mean span font size, or 0 for a block without spans.
	AvgFontSize float64
}

// Chunk is a reconstructed paragraph: an order-contiguous, non-empty run
// of filtered blocks.
type Chunk struct {
	Blocks []FilteredBlock
}

// Text renders the chunk as its block texts joined by newlines.
func (c Chunk) Text() string {
	texts := make([]string, len(c.Blocks))
	for i := range c.Blocks {
		texts[i] = c.Blocks[i].Text
	}
	return strings.Join(texts, "\n")
}

// First returns the first block of the chunk.
// It panics on an empty chunk, which grouping never produces.
func (c Chunk) First() FilteredBlock {
	return c.Blocks[0]
}

// PageResult is the reconstructed structure of one page.
type PageResult struct {
	// PageNumber is the 1-based page number.
	PageNumber int `json:"page"`

	// Title is the detected page title, nil when none was found.
	Title *string `json:"title"`

	// Chunks are the paragraph texts in page order, trimmed and non-empty.
	Chunks []string `json:"chunks"`
}

// HasTitle returns true if a title was detected.
func (r PageResult) HasTitle() bool {
	return r.Title != nil
}

// TitleText returns the title or an empty string.
func (r PageResult) TitleText() string {
	if r.Title == nil {
		return ""
	}
	return *r.Title
}

// DocumentLayout is the layout of every page of a processed file.
type DocumentLayout struct {
	// ID is the unique identifier for the layout.
	ID string `json:"id"`

	// URI is the original location of the file.
	URI string `json:"uri"`

	// Decoder names the decoder that produced the pages.
	Decoder string `json:"decoder"`

	// Pages holds one result per page in page order.
	Pages []PageResult `json:"pages"`

	// CreatedAt is when the layout was produced.
	CreatedAt time.Time `json:"created_at"`
}

// ChunkCount returns the total number of chunks across pages.
func (d *DocumentLayout) ChunkCount() int {
	n := 0
	for i := range d.Pages {
		n += len(d.Pages[i].Chunks)
	}
	return n
}

// Record is a retrieval-ready unit of text derived from a page chunk.
type Record struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`

	// DocumentID links to the parent DocumentLayout.
	DocumentID string `json:"document_id"`

	// PageNumber is the page the content came from.
	PageNumber int `json:"page"`

	// Title is the title of that page, empty when it has none.
	Title string `json:"title,omitempty"`

	// Content is the text of this record.
	Content string `json:"content"`

	// Position is the ordinal position within the document.
	Position int `json:"position"`

	// Metadata contains record-specific key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`
}
