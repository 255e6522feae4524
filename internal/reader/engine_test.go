package reader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagemarkhq/pagemark/internal/document"
	"github.com/pagemarkhq/pagemark/internal/section"
	"github.com/pagemarkhq/pagemark/internal/store"
)

func setupEngine(t *testing.T) (*Engine, *store.Store, *document.Document) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	markdown := "# Intro\n\nHello world paragraph.\n"
	doc, _, err := s.Documents().Upsert(context.Background(), "https://a.test/doc", "Doc", document.Content{
		CombinedMarkdown: markdown,
	})
	require.NoError(t, err)

	return NewEngine(s.Highlights(), testLogger()), s, doc
}

func TestEngine_CreateAndList(t *testing.T) {
	e, _, doc := setupEngine(t)
	ctx := context.Background()

	created, err := e.Create(ctx, doc.ID, 0, "world", 6, 11)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	listed, err := e.List(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestEngine_CreateUnknownDocument(t *testing.T) {
	e, _, _ := setupEngine(t)
	_, err := e.Create(context.Background(), 98765, 0, "x", 0, 1)
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestEngine_RemoveIsNotIdempotent(t *testing.T) {
	e, _, doc := setupEngine(t)
	ctx := context.Background()

	created, err := e.Create(ctx, doc.ID, 0, "Hello", 0, 5)
	require.NoError(t, err)

	require.NoError(t, e.Remove(ctx, created.ID))
	assert.ErrorIs(t, e.Remove(ctx, created.ID), document.ErrNotFound)
}

func TestEngine_RestoreAll(t *testing.T) {
	e, _, doc := setupEngine(t)
	ctx := context.Background()

	// The section's rendered text is "Hello world paragraph."
	sections := section.Split("# Intro\n\nHello world paragraph.\n")
	require.Len(t, sections, 1)

	good, err := e.Create(ctx, doc.ID, 0, "world", 6, 11)
	require.NoError(t, err)
	stale, err := e.Create(ctx, doc.ID, 0, "gone text!", 100, 110)
	require.NoError(t, err)
	orphan, err := e.Create(ctx, doc.ID, 5, "other", 0, 5)
	require.NoError(t, err)

	results, err := e.RestoreAll(ctx, doc.ID, sections)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := map[int64]Restoration{}
	for _, r := range results {
		byID[r.Highlight.ID] = r
	}

	applied := byID[good.ID]
	assert.True(t, applied.Applied)
	assert.Equal(t, "world", applied.Span.Text)
	assert.Empty(t, applied.Reason)

	assert.False(t, byID[stale.ID].Applied)
	assert.NotEmpty(t, byID[stale.ID].Reason)

	assert.False(t, byID[orphan.ID].Applied)
	assert.Contains(t, byID[orphan.ID].Reason, "section 5 does not exist")
}

func TestEngine_RestoreAll_ReadingOrder(t *testing.T) {
	e, _, doc := setupEngine(t)
	ctx := context.Background()

	sections := section.Split("# Intro\n\nHello world paragraph.\n")

	// Insert out of order; restoration must come back in reading order.
	_, err := e.Create(ctx, doc.ID, 0, "paragraph", 12, 21)
	require.NoError(t, err)
	_, err = e.Create(ctx, doc.ID, 0, "Hello", 0, 5)
	require.NoError(t, err)

	results, err := e.RestoreAll(ctx, doc.ID, sections)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Highlight.RangeStart)
	assert.Equal(t, 12, results[1].Highlight.RangeStart)
}

func TestEngine_RestoreAll_ReportsDrift(t *testing.T) {
	e, _, doc := setupEngine(t)
	ctx := context.Background()

	sections := section.Split("# Intro\n\nHello world paragraph.\n")

	// Offsets still resolve, but the document's wording changed since
	// capture: same range, different anchor text.
	_, err := e.Create(ctx, doc.ID, 0, "wxrld", 6, 11)
	require.NoError(t, err)

	results, err := e.RestoreAll(ctx, doc.ID, sections)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, results[0].Applied)
	assert.Equal(t, "world", results[0].Span.Text)
	assert.Contains(t, results[0].Reason, "differs from anchor")
}

func TestEngine_RestoreAll_UnknownDocument(t *testing.T) {
	e, _, _ := setupEngine(t)
	_, err := e.RestoreAll(context.Background(), 31337, nil)
	assert.ErrorIs(t, err, document.ErrNotFound)
}
