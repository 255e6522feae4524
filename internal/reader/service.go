// Package reader orchestrates document processing and highlight
// capture/restoration.
package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pagemarkhq/pagemark/internal/document"
	"github.com/pagemarkhq/pagemark/internal/docurl"
	"github.com/pagemarkhq/pagemark/internal/ocr"
	"github.com/pagemarkhq/pagemark/internal/render"
	"github.com/pagemarkhq/pagemark/internal/section"
	"github.com/pagemarkhq/pagemark/internal/store"
)

// OCRProvider is the remote recognition capability.
type OCRProvider interface {
	Recognize(ctx context.Context, url string) ([]document.Page, error)
}

// Service processes document URLs: canonicalize, consult the cache, OCR on
// a miss, combine the pages and upsert the result.
type Service struct {
	docs     *store.DocumentStore
	ocr      OCRProvider
	renderer *render.Renderer
	log      *slog.Logger
}

func NewService(docs *store.DocumentStore, provider OCRProvider, log *slog.Logger) *Service {
	return &Service{
		docs:     docs,
		ocr:      provider,
		renderer: render.New(),
		log:      log,
	}
}

// Metadata describes the processed document alongside its content.
type Metadata struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FromCache bool      `json:"fromCache"`
}

// Result is the outcome of processing a document URL.
type Result struct {
	Content  document.Content `json:"content"`
	Metadata Metadata         `json:"metadata"`
}

// Process handles one document URL. Unless forceRefresh is set, a cached
// document for the canonical URL is returned without touching the OCR
// provider.
func (s *Service) Process(ctx context.Context, rawURL string, forceRefresh bool) (*Result, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("document url is required: %w", document.ErrInvalidInput)
	}

	url := docurl.Normalize(rawURL)
	s.log.Info("processing document", "url", url, "force_refresh", forceRefresh)

	if !forceRefresh {
		cached, err := s.docs.GetByURL(ctx, url)
		if err == nil {
			s.log.Info("cache hit", "url", url, "document_id", cached.ID)
			return &Result{
				Content:  cached.Content,
				Metadata: metadataFor(cached, true),
			}, nil
		}
		if !errors.Is(err, document.ErrNotFound) {
			return nil, err
		}
	}

	pages, err := s.ocr.Recognize(ctx, url)
	if err != nil {
		return nil, err
	}

	content := document.Content{
		Pages:            pages,
		CombinedMarkdown: ocr.Combine(pages),
	}
	title := ocr.ExtractTitle(pages)

	doc, isNew, err := s.docs.Upsert(ctx, url, title, content)
	if err != nil {
		return nil, err
	}
	s.log.Info("document stored", "url", url, "document_id", doc.ID, "is_new", isNew)

	return &Result{
		Content:  doc.Content,
		Metadata: metadataFor(doc, false),
	}, nil
}

// Recent lists document summaries, most recently updated first.
func (s *Service) Recent(ctx context.Context, limit int) ([]document.Summary, error) {
	return s.docs.Recent(ctx, limit)
}

// DeleteDocument removes a document and, via the store's cascade, its
// highlights.
func (s *Service) DeleteDocument(ctx context.Context, id int64) error {
	return s.docs.Delete(ctx, id)
}

// RenderedSection pairs a derived section with its rendered HTML.
type RenderedSection struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// Sections derives a document's sections fresh from its stored combined
// markdown and renders each. Sections are never cached: the address space
// must be recomputable identically from the same markdown.
func (s *Service) Sections(ctx context.Context, documentID int64) ([]RenderedSection, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	sections := section.Split(doc.Content.CombinedMarkdown)
	rendered := make([]RenderedSection, 0, len(sections))
	for i, sec := range sections {
		html, err := s.renderer.HTML(sec.Content)
		if err != nil {
			return nil, fmt.Errorf("rendering section %d: %w", i, err)
		}
		rendered = append(rendered, RenderedSection{
			Index:   i,
			Title:   sec.Title,
			Content: sec.Content,
			HTML:    html,
		})
	}
	return rendered, nil
}

func metadataFor(doc *document.Document, fromCache bool) Metadata {
	return Metadata{
		ID:        doc.ID,
		URL:       doc.URL,
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		FromCache: fromCache,
	}
}
