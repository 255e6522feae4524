package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pagemarkhq/pagemark/internal/document"
)

// HighlightStore persists highlight records scoped to a document.
type HighlightStore struct {
	store *Store
}

// Insert validates and stores a highlight, returning the record with its
// assigned id and timestamp. The owning document must exist.
func (s *HighlightStore) Insert(ctx context.Context, h document.Highlight) (*document.Highlight, error) {
	if h.Text == "" {
		return nil, fmt.Errorf("text is required: %w", document.ErrInvalidInput)
	}
	if h.SectionIndex < 0 {
		return nil, fmt.Errorf("section_index %d must not be negative: %w", h.SectionIndex, document.ErrInvalidInput)
	}
	if h.RangeStart < 0 || h.RangeEnd <= h.RangeStart {
		return nil, fmt.Errorf("range [%d, %d) is not a valid span: %w", h.RangeStart, h.RangeEnd, document.ErrInvalidInput)
	}
	if h.RangeEnd-h.RangeStart != len([]rune(h.Text)) {
		return nil, fmt.Errorf("range length %d does not match text length %d: %w",
			h.RangeEnd-h.RangeStart, len([]rune(h.Text)), document.ErrInvalidInput)
	}

	if err := s.documentExists(ctx, h.DocumentID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO highlights (document_id, section_index, text, range_start, range_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, h.DocumentID, h.SectionIndex, h.Text, h.RangeStart, h.RangeEnd, now)
	if err != nil {
		return nil, fmt.Errorf("inserting highlight: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("inserted highlight id: %w", err)
	}

	h.ID = id
	h.CreatedAt = now
	return &h, nil
}

// ListByDocument returns a document's highlights in reading order:
// section index ascending, then range start ascending. This gives batch
// restoration a deterministic order of application.
func (s *HighlightStore) ListByDocument(ctx context.Context, documentID int64) ([]document.Highlight, error) {
	if err := s.documentExists(ctx, documentID); err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, section_index, text, range_start, range_end, created_at
		FROM highlights
		WHERE document_id = ?
		ORDER BY section_index, range_start
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying highlights: %w", err)
	}
	defer rows.Close()

	var highlights []document.Highlight
	for rows.Next() {
		var h document.Highlight
		if err := rows.Scan(&h.ID, &h.DocumentID, &h.SectionIndex, &h.Text, &h.RangeStart, &h.RangeEnd, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning highlight: %w", err)
		}
		highlights = append(highlights, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating highlights: %w", err)
	}
	return highlights, nil
}

// Delete removes a highlight. A second delete of the same id fails with
// document.ErrNotFound so callers can detect double submission.
func (s *HighlightStore) Delete(ctx context.Context, id int64) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM highlights WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting highlight: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting highlight: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("highlight %d: %w", id, document.ErrNotFound)
	}
	return nil
}

func (s *HighlightStore) documentExists(ctx context.Context, documentID int64) error {
	var one int
	err := s.store.db.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE id = ?", documentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("document %d: %w", documentID, document.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking document %d: %w", documentID, err)
	}
	return nil
}
