package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pagemarkhq/pagemark/internal/document"
)

// DefaultRecentLimit bounds Recent when the caller passes no limit.
const DefaultRecentLimit = 10

// DocumentStore caches OCR'd documents keyed by canonical URL. At most one
// row exists per URL.
type DocumentStore struct {
	store *Store
}

// GetByURL returns the cached document for a canonical URL, or
// document.ErrNotFound.
func (s *DocumentStore) GetByURL(ctx context.Context, url string) (*document.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, url, title, content, created_at, updated_at
		FROM documents WHERE url = ?
	`, url)
	return scanDocument(row)
}

// GetByID returns a document by id, or document.ErrNotFound.
func (s *DocumentStore) GetByID(ctx context.Context, id int64) (*document.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, url, title, content, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

// Upsert stores content under a canonical URL. An existing row keeps its id
// and created_at and has title, content and updated_at replaced; otherwise
// a new row is inserted and isNew is true. The check-then-write is not
// atomic: a UNIQUE rejection on the insert path means another request just
// inserted the same URL, and the operation is retried once as an update.
func (s *DocumentStore) Upsert(ctx context.Context, url, title string, content document.Content) (*document.Document, bool, error) {
	if url == "" {
		return nil, false, fmt.Errorf("url is required: %w", document.ErrInvalidInput)
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, false, fmt.Errorf("marshalling content: %w", err)
	}
	now := time.Now().UTC()

	if _, err := s.GetByURL(ctx, url); err == nil {
		doc, err := s.update(ctx, url, title, contentJSON, now)
		return doc, false, err
	} else if !errors.Is(err, document.ErrNotFound) {
		return nil, false, err
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (url, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, url, title, string(contentJSON), now, now)
	if isUniqueViolation(err) {
		// Lost the insert race; someone else owns the row now.
		doc, err := s.update(ctx, url, title, contentJSON, now)
		return doc, false, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("inserting document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("inserted document id: %w", err)
	}
	return &document.Document{
		ID:        id,
		URL:       url,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

func (s *DocumentStore) update(ctx context.Context, url, title string, contentJSON []byte, now time.Time) (*document.Document, error) {
	_, err := s.store.db.ExecContext(ctx, `
		UPDATE documents SET content = ?, title = ?, updated_at = ?
		WHERE url = ?
	`, string(contentJSON), title, now, url)
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}
	return s.GetByURL(ctx, url)
}

// Recent returns document summaries ordered by updated_at descending. The
// content payload is never included in listings.
func (s *DocumentStore) Recent(ctx context.Context, limit int) ([]document.Summary, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, url, title, created_at, updated_at
		FROM documents
		ORDER BY updated_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent documents: %w", err)
	}
	defer rows.Close()

	var summaries []document.Summary
	for rows.Next() {
		var sum document.Summary
		var title sql.NullString
		if err := rows.Scan(&sum.ID, &sum.URL, &title, &sum.CreatedAt, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document summary: %w", err)
		}
		sum.Title = title.String
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recent documents: %w", err)
	}
	return summaries, nil
}

// Delete removes a document. Its highlights go with it via the foreign-key
// cascade.
func (s *DocumentStore) Delete(ctx context.Context, id int64) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document %d: %w", id, document.ErrNotFound)
	}
	return nil
}

func scanDocument(row *sql.Row) (*document.Document, error) {
	var doc document.Document
	var title sql.NullString
	var contentJSON string
	if err := row.Scan(&doc.ID, &doc.URL, &title, &contentJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.Title = title.String
	if err := json.Unmarshal([]byte(contentJSON), &doc.Content); err != nil {
		return nil, fmt.Errorf("unmarshaling content: %w", err)
	}
	return &doc, nil
}
