package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/pagelayout/internal/core/domain"
	"github.com/custodia-labs/pagelayout/internal/core/ports/driven"
)

// layoutStore implements driven.LayoutStore.
type layoutStore struct {
	store *Store
}

var _ driven.LayoutStore = (*layoutStore)(nil)

// Save stores or replaces a layout together with its records.
// Pages and records of a previous save are replaced in the same transaction.
func (s *layoutStore) Save(ctx context.Context, layout *domain.DocumentLayout, records []domain.Record) error {
	if layout == nil || layout.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, uri, decoder, page_count, chunk_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			decoder = excluded.decoder,
			page_count = excluded.page_count,
			chunk_count = excluded.chunk_count,
			created_at = excluded.created_at
	`, layout.ID, layout.URI, layout.Decoder, len(layout.Pages), layout.ChunkCount(), layout.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	for _, table := range []string{"pages", "records"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE document_id = ?", layout.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := insertPages(ctx, tx, layout); err != nil {
		return err
	}
	if err := insertRecords(ctx, tx, layout.ID, records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertPages(ctx context.Context, tx *sql.Tx, layout *domain.DocumentLayout) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (document_id, page_number, title, chunks)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, page := range layout.Pages {
		chunks := page.Chunks
		if chunks == nil {
			chunks = []string{}
		}
		chunksJSON, err := json.Marshal(chunks)
		if err != nil {
			return fmt.Errorf("marshalling chunks: %w", err)
		}

		var title sql.NullString
		if page.Title != nil {
			title = sql.NullString{String: *page.Title, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, layout.ID, page.PageNumber, title, string(chunksJSON)); err != nil {
			return fmt.Errorf("saving page %d: %w", page.PageNumber, err)
		}
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, documentID string, records []domain.Record) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, document_id, page_number, title, content, position, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			page_number = excluded.page_number,
			title = excluded.title,
			content = excluded.content,
			position = excluded.position,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		metadataJSON, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling record metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, rec.ID, documentID, rec.PageNumber, rec.Title,
			rec.Content, rec.Position, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving record: %w", err)
		}
	}
	return nil
}

// Get retrieves a layout by ID, including its pages.
func (s *layoutStore) Get(ctx context.Context, id string) (*domain.DocumentLayout, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, uri, decoder, created_at FROM documents WHERE id = ?
	`, id)

	var layout domain.DocumentLayout
	if err := row.Scan(&layout.ID, &layout.URI, &layout.Decoder, &layout.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	pages, err := s.pages(ctx, id)
	if err != nil {
		return nil, err
	}
	layout.Pages = pages
	return &layout, nil
}

func (s *layoutStore) pages(ctx context.Context, documentID string) ([]domain.PageResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT page_number, title, chunks FROM pages
		WHERE document_id = ? ORDER BY page_number
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	pages := []domain.PageResult{}
	for rows.Next() {
		var (
			page       domain.PageResult
			title      sql.NullString
			chunksJSON string
		)
		if err := rows.Scan(&page.PageNumber, &title, &chunksJSON); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		if title.Valid {
			t := title.String
			page.Title = &t
		}
		if err := json.Unmarshal([]byte(chunksJSON), &page.Chunks); err != nil {
			return nil, fmt.Errorf("unmarshaling chunks: %w", err)
		}
		if page.Chunks == nil {
			page.Chunks = []string{}
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}
	return pages, nil
}

// List returns all stored layouts, newest first. Pages are not loaded;
// use Get for the full layout.
func (s *layoutStore) List(ctx context.Context) ([]domain.DocumentLayout, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, uri, decoder, created_at FROM documents
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var layouts []domain.DocumentLayout //nolint:prealloc // size unknown from query
	for rows.Next() {
		var l domain.DocumentLayout
		if err := rows.Scan(&l.ID, &l.URI, &l.Decoder, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		layouts = append(layouts, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return layouts, nil
}

// Records returns the records of a layout in position order.
func (s *layoutStore) Records(ctx context.Context, id string) ([]domain.Record, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, page_number, title, content, position, metadata
		FROM records WHERE document_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// Delete removes a layout. Pages and records go with it through the
// ON DELETE CASCADE foreign keys.
func (s *layoutStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *layoutStore) exists(ctx context.Context, id string) error {
	var one int
	err := s.store.db.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking document: %w", err)
	}
	return nil
}

// scanRecord scans a record from *sql.Rows.
func scanRecord(rows *sql.Rows) (*domain.Record, error) {
	var rec domain.Record
	var metadataJSON string

	if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.PageNumber, &rec.Title,
		&rec.Content, &rec.Position, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling record metadata: %w", err)
		}
	}

	return &rec, nil
}
