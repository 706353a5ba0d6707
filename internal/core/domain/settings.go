package domain

import (
	"fmt"
	"math"
)

const unknownDescription = "Unknown"

// TitleMatch selects how the detected title is removed from the body chunks.
type TitleMatch string

// Available title match modes.
const (
	// TitleMatchFirstText removes the first chunk whose text equals the title.
	// A second chunk with identical text stays among the body chunks.
	TitleMatchFirstText TitleMatch = "first_text"

	// TitleMatchPosition removes exactly the chunk selected as the title.
	TitleMatchPosition TitleMatch = "position"
)

// IsValid returns true if the match mode is recognised.
func (m TitleMatch) IsValid() bool {
	switch m {
	case TitleMatchFirstText, TitleMatchPosition:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m TitleMatch) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m TitleMatch) Description() string {
	switch m {
	case TitleMatchFirstText:
		return "First text match (compatible)"
	case TitleMatchPosition:
		return "Selected chunk only"
	default:
		return unknownDescription
	}
}

// LayoutSettings holds the tunable thresholds of the layout engine.
// Documents with different typesetting conventions need different values.
type LayoutSettings struct {
	// HeaderFraction is the top band of the page treated as header.
	HeaderFraction float64

	// FooterFraction is the bottom band of the page treated as footer.
	FooterFraction float64

	// BoilerplateMarkers are substrings that mark a block as noise.
	BoilerplateMarkers []string

	// MinTextLength is the minimum trimmed length, in characters, of a kept block.
	MinTextLength int

	// VerticalGapRatio bounds the gap between lines of one paragraph,
	// as a multiple of the previous block's font size.
	VerticalGapRatio float64

	// FontSizeTolerance is the largest font size difference, in points,
	// between lines of one paragraph.
	FontSizeTolerance float64

	// AlignmentTolerance is the largest left edge offset between lines
	// of one paragraph, in bounding box units.
	AlignmentTolerance float64

	// SectionGapRatio forces a paragraph break on a vertical gap above
	// this multiple of the previous block's font size.
	SectionGapRatio float64

	// SectionFontRatio forces a paragraph break when the font grows
	// beyond this multiple of the previous block's font size.
	SectionFontRatio float64

	// TitleRegionFraction is the top band of the page where titles start.
	TitleRegionFraction float64

	// TitleMatch selects how the title chunk is removed.
	TitleMatch TitleMatch

	// ValidateGeometry rejects inverted bounding boxes instead of trusting them.
	ValidateGeometry bool

	// Workers bounds concurrent page processing. Zero uses GOMAXPROCS.
	Workers int
}

// DefaultLayoutSettings returns the thresholds tuned for typical
// single-column manuals and reports.
func DefaultLayoutSettings() LayoutSettings {
	return LayoutSettings{
		HeaderFraction:      0.05,
		FooterFraction:      0.08,
		BoilerplateMarkers:  []string{},
		MinTextLength:       2,
		VerticalGapRatio:    0.75,
		FontSizeTolerance:   1.0,
		AlignmentTolerance:  20,
		SectionGapRatio:     1.5,
		SectionFontRatio:    1.15,
		TitleRegionFraction: 0.20,
		TitleMatch:          TitleMatchFirstText,
		ValidateGeometry:    false,
		Workers:             0,
	}
}

// Validate checks that every threshold is usable.
func (s LayoutSettings) Validate() error {
	fractions := []struct {
		name  string
		value float64
	}{
		{"header_fraction", s.HeaderFraction},
		{"footer_fraction", s.FooterFraction},
		{"title_region_fraction", s.TitleRegionFraction},
	}
	for _, f := range fractions {
		if !finite(f.value) || f.value < 0 || f.value >= 1 {
			return fmt.Errorf("%w: %s must be in [0, 1), got %v", ErrInvalidInput, f.name, f.value)
		}
	}

	positives := []struct {
		name  string
		value float64
	}{
		{"vertical_gap_ratio", s.VerticalGapRatio},
		{"font_size_tolerance", s.FontSizeTolerance},
		{"alignment_tolerance", s.AlignmentTolerance},
		{"section_gap_ratio", s.SectionGapRatio},
		{"section_font_ratio", s.SectionFontRatio},
	}
	for _, p := range positives {
		if !finite(p.value) || p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidInput, p.name, p.value)
		}
	}

	if s.MinTextLength < 0 {
		return fmt.Errorf("%w: min_text_length must not be negative", ErrInvalidInput)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidInput)
	}
	if !s.TitleMatch.IsValid() {
		return fmt.Errorf("%w: unknown title_match %q", ErrInvalidInput, s.TitleMatch)
	}
	return nil
}

// RecordSettings controls how page chunks become retrieval records.
type RecordSettings struct {
	// MaxChars splits chunks longer than this many characters. Zero disables splitting.
	MaxChars int

	// Overlap is the number of characters repeated between split pieces.
	Overlap int
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks the record settings.
func (s RecordSettings) Validate() error {
	if s.MaxChars < 0 {
		return fmt.Errorf("%w: max_chars must not be negative", ErrInvalidInput)
	}
	if s.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative", ErrInvalidInput)
	}
	return nil
}

// StorageSettings controls where processed layouts are persisted.
type StorageSettings struct {
	// DataDir holds the layout database. Empty means ~/.pagelayout/data.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Layout holds the engine thresholds.
	Layout LayoutSettings

	// Records holds record generation settings.
	Records RecordSettings

	// Storage holds persistence settings.
	Storage StorageSettings
}

// Validate checks every section.
func (s AppSettings) Validate() error {
	if err := s.Layout.Validate(); err != nil {
		return err
	}
	return s.Records.Validate()
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Layout:  DefaultLayoutSettings(),
		Records: RecordSettings{MaxChars: 0, Overlap: 0},
		Storage: StorageSettings{},
	}
}
