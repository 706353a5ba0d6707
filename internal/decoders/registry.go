package decoders

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
	"github.com/custodia-labs/pagelayout/internal/decoders/pdf"
	"github.com/custodia-labs/pagelayout/internal/decoders/pymupdf"
)

// Ensure Registry implements the interface.
var _ driven.DecoderRegistry = (*Registry)(nil)

// Registry maps file extensions and names to decoders.
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]driven.PageDecoder
	extensions map[string]driven.PageDecoder
}

// NewRegistry creates an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:     make(map[string]driven.PageDecoder),
		extensions: make(map[string]driven.PageDecoder),
	}
}

// NewDefaultRegistry creates a registry with the built-in decoders.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pymupdf.New())
	r.Register(pdf.New())
	return r
}

// Register adds a decoder. A later decoder claiming the same extension
// replaces the earlier one for that extension.
func (r *Registry) Register(d driven.PageDecoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[d.Name()] = d
	for _, ext := range d.Extensions() {
		r.extensions[strings.ToLower(ext)] = d
	}
}

// ForPath returns the decoder for the file's extension.
func (r *Registry) ForPath(path string) (driven.PageDecoder, error) {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.extensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %q", domain.ErrUnsupportedType, filepath.Base(path))
	}
	return d, nil
}

// Get returns the decoder with the given name.
func (r *Registry) Get(name string) (driven.PageDecoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown decoder %q", domain.ErrUnsupportedType, name)
	}
	return d, nil
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.extensions))
	for ext := range r.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether a decoder is registered for the file's extension.
func (r *Registry) Supports(path string) bool {
	_, err := r.ForPath(path)
	return err == nil
}
