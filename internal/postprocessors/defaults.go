package postprocessors

import (
	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
	"github.com/custodia-labs/pagelayout/internal/postprocessors/chunker"
	"github.com/custodia-labs/pagelayout/internal/postprocessors/splitter"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("splitter", buildSplitter)
}

// NewDefaultPipeline builds the record pipeline for the given settings:
// the chunker always runs, the splitter only when MaxChars is positive.
func NewDefaultPipeline(settings domain.RecordSettings) (*Pipeline, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	r := NewRegistry()
	RegisterDefaults(r)

	first, err := r.Build("chunker", nil)
	if err != nil {
		return nil, err
	}
	p := NewPipeline(first)

	if settings.MaxChars > 0 {
		split, err := r.Build("splitter", map[string]any{
			"max_chars": settings.MaxChars,
			"overlap":   settings.Overlap,
		})
		if err != nil {
			return nil, err
		}
		p.Add(split)
	}
	return p, nil
}

func buildChunker(_ map[string]any) (driven.PostProcessor, error) {
	return chunker.New(), nil
}

// buildSplitter creates a splitter processor from generic config.
// Supported config keys:
//   - max_chars (int): Characters per record (default: 1000)
//   - overlap (int): Overlapping characters between records (default: 0)
func buildSplitter(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []splitter.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "max_chars"); size > 0 {
			opts = append(opts, splitter.WithMaxChars(size))
		}
		if overlap := getIntFromConfig(cfg, "overlap"); overlap >= 0 {
			opts = append(opts, splitter.WithOverlap(overlap))
		}
	}

	return splitter.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
