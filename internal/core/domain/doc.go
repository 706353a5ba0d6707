// Package domain defines the core entities of the page layout engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page, Block, Span: decoder output, positioned text primitives
//   - FilteredBlock, Chunk: intermediate layout structures
//   - PageResult: reconstructed chunks and title for one page
//   - DocumentLayout: every PageResult of a processed file
//   - Record: a retrieval-ready unit derived from a PageResult
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
