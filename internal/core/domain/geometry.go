package domain

// BoundingBox is a rectangle in page space.
// The origin is the top-left corner and y grows downward.
type BoundingBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Valid reports whether the box is not inverted on either axis.
func (b BoundingBox) Valid() bool {
	return b.X0 <= b.X1 && b.Y0 <= b.Y1
}

// Span is an atomic run of text sharing one font size.
type Span struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
}

// Block is a decoder-level text region.
// Blocks are consumed by the layout engine and never mutated.
type Block struct {
	BBox  BoundingBox `json:"bbox"`
	Spans []Span      `json:"spans"`
}

// Page is the decoded content of one page.
// Blocks must already be in top-to-bottom reading order.
type Page struct {
	// Number is the 1-based page number.
	Number int `json:"number"`

	// Width is the page width in bounding box units.
	Width float64 `json:"width"`

	// Height is the page height in bounding box units.
	Height float64 `json:"height"`

	// Blocks are the text blocks in reading order.
	Blocks []Block `json:"blocks"`
}
