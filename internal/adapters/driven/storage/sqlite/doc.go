// Package sqlite provides a SQLite-based implementation of driven.LayoutStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Three tables hold the data:
//
//   - documents: one row per processed file
//   - pages: title and chunk list of each page, keyed by (document, page)
//   - records: retrieval records derived from the chunks
//
// # Data Location
//
// By default, the database is stored at ~/.pagelayout/data/layouts.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
