package reader

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagemarkhq/pagemark/internal/document"
	"github.com/pagemarkhq/pagemark/internal/ocr"
	"github.com/pagemarkhq/pagemark/internal/store"
)

type fakeProvider struct {
	calls int
	pages []document.Page
	err   error
}

func (f *fakeProvider) Recognize(ctx context.Context, url string) ([]document.Page, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupService(t *testing.T, provider OCRProvider) (*Service, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewService(s.Documents(), provider, testLogger()), s
}

func TestService_ProcessNewDocument(t *testing.T) {
	provider := &fakeProvider{pages: []document.Page{
		{Index: 0, Markdown: "# Paper\n\nAbstract text."},
	}}
	svc, _ := setupService(t, provider)

	res, err := svc.Process(context.Background(), "https://arxiv.org/abs/1.1", false)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.False(t, res.Metadata.FromCache)
	assert.NotZero(t, res.Metadata.ID)
	assert.Equal(t, "https://arxiv.org/pdf/1.1.pdf", res.Metadata.URL, "stored under the canonical URL")
	assert.Equal(t, "Paper", res.Metadata.Title)
	assert.Equal(t, "# Paper\n\nAbstract text.", res.Content.CombinedMarkdown)
}

func TestService_ProcessCacheHit(t *testing.T) {
	provider := &fakeProvider{pages: []document.Page{{Index: 0, Markdown: "# Paper"}}}
	svc, _ := setupService(t, provider)
	ctx := context.Background()

	first, err := svc.Process(ctx, "https://arxiv.org/abs/1.1", false)
	require.NoError(t, err)

	// The abstract and PDF forms canonicalize identically, so this hits
	// the cache without a second OCR call.
	second, err := svc.Process(ctx, "https://arxiv.org/pdf/1.1.pdf", false)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.True(t, second.Metadata.FromCache)
	assert.Equal(t, first.Metadata.ID, second.Metadata.ID)
}

func TestService_ProcessForceRefresh(t *testing.T) {
	provider := &fakeProvider{pages: []document.Page{{Index: 0, Markdown: "# Paper"}}}
	svc, _ := setupService(t, provider)
	ctx := context.Background()

	first, err := svc.Process(ctx, "https://example.com/doc.pdf", false)
	require.NoError(t, err)

	provider.pages = []document.Page{{Index: 0, Markdown: "# Paper v2"}}
	refreshed, err := svc.Process(ctx, "https://example.com/doc.pdf", true)
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
	assert.False(t, refreshed.Metadata.FromCache)
	assert.Equal(t, first.Metadata.ID, refreshed.Metadata.ID, "re-OCR updates, never duplicates")
	assert.Equal(t, "# Paper v2", refreshed.Content.CombinedMarkdown)
}

func TestService_ProcessEmptyURL(t *testing.T) {
	svc, _ := setupService(t, &fakeProvider{})
	_, err := svc.Process(context.Background(), "", false)
	assert.ErrorIs(t, err, document.ErrInvalidInput)
}

func TestService_ProcessUpstreamFailure(t *testing.T) {
	provider := &fakeProvider{err: &ocr.UpstreamError{StatusCode: 502, Body: "bad gateway"}}
	svc, s := setupService(t, provider)

	_, err := svc.Process(context.Background(), "https://example.com/doc.pdf", false)

	var upstream *ocr.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 502, upstream.StatusCode)

	// Nothing was committed.
	_, err = s.Documents().GetByURL(context.Background(), "https://example.com/doc.pdf")
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestService_Sections(t *testing.T) {
	provider := &fakeProvider{pages: []document.Page{
		{Index: 0, Markdown: "# Intro\n\nFirst body.\n\n## Methods\n\nSecond body."},
	}}
	svc, _ := setupService(t, provider)
	ctx := context.Background()

	res, err := svc.Process(ctx, "https://example.com/doc.pdf", false)
	require.NoError(t, err)

	sections, err := svc.Sections(ctx, res.Metadata.ID)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, 0, sections[0].Index)
	assert.Equal(t, "Intro", sections[0].Title)
	assert.Contains(t, sections[0].HTML, "<p>First body.</p>")

	assert.Equal(t, "Methods", sections[1].Title)
	assert.Contains(t, sections[1].HTML, "<p>Second body.</p>")
}

func TestService_SectionsUnknownDocument(t *testing.T) {
	svc, _ := setupService(t, &fakeProvider{})
	_, err := svc.Sections(context.Background(), 12345)
	assert.ErrorIs(t, err, document.ErrNotFound)
}
