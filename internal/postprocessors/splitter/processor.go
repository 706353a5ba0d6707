// Package splitter provides a fixed-size splitting processor for records
// whose content is too long for a downstream index.
package splitter

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultMaxChars is the default number of characters per record.
const DefaultMaxChars = 1000

// MetaPart is the metadata key holding a piece's 0-based index within its
// source record. Records that were not split do not carry it.
const MetaPart = "part"

// Processor splits record content into fixed-size pieces.
type Processor struct {
	maxChars int
	overlap  int
}

// Option configures the splitter processor.
type Option func(*Processor)

// WithMaxChars sets the maximum piece size in characters.
func WithMaxChars(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.maxChars = size
		}
	}
}

// WithOverlap sets the overlap between pieces in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new splitter processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxChars: DefaultMaxChars,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed piece size
	if p.overlap >= p.maxChars {
		p.overlap = p.maxChars / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "splitter"
}

// Process splits records longer than maxChars characters. Lengths are
// counted in runes so multi-byte text is never cut mid-character.
// Positions are renumbered across the output.
func (p *Processor) Process(_ context.Context, _ *domain.DocumentLayout, records []domain.Record) ([]domain.Record, error) {
	if len(records) == 0 {
		return records, nil
	}

	out := make([]domain.Record, 0, len(records))
	step := p.maxChars - p.overlap

	for _, rec := range records {
		content := []rune(rec.Content)
		if len(content) <= p.maxChars {
			rec.Position = len(out)
			out = append(out, rec)
			continue
		}

		part := 0
		for start := 0; start < len(content); start += step {
			end := start + p.maxChars
			if end > len(content) {
				end = len(content)
			}

			piece := rec
			piece.ID = uuid.New().String()
			piece.Content = string(content[start:end])
			piece.Position = len(out)
			piece.Metadata = copyMetadata(rec.Metadata)
			piece.Metadata[MetaPart] = part
			out = append(out, piece)
			part++

			if end == len(content) {
				break
			}
		}
	}

	return out, nil
}

func copyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
