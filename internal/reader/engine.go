package reader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pagemarkhq/pagemark/internal/anchor"
	"github.com/pagemarkhq/pagemark/internal/document"
	"github.com/pagemarkhq/pagemark/internal/render"
	"github.com/pagemarkhq/pagemark/internal/section"
	"github.com/pagemarkhq/pagemark/internal/store"
)

// Engine captures and restores highlights. Capture ends at successful
// persistence; wrapping the span visually is the caller's concern.
type Engine struct {
	highlights *store.HighlightStore
	renderer   *render.Renderer
	log        *slog.Logger
}

func NewEngine(highlights *store.HighlightStore, log *slog.Logger) *Engine {
	return &Engine{
		highlights: highlights,
		renderer:   render.New(),
		log:        log,
	}
}

// Create persists a highlight against a currently-rendered section. The
// owning document must exist and the range must cover exactly the anchor
// text.
func (e *Engine) Create(ctx context.Context, documentID int64, sectionIndex int, text string, start, end int) (*document.Highlight, error) {
	h, err := e.highlights.Insert(ctx, document.Highlight{
		DocumentID:   documentID,
		SectionIndex: sectionIndex,
		Text:         text,
		RangeStart:   start,
		RangeEnd:     end,
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("highlight created", "highlight_id", h.ID, "document_id", documentID, "section", sectionIndex)
	return h, nil
}

// Remove deletes a highlight. Deleting an unknown id fails with
// document.ErrNotFound so double submission is detectable.
func (e *Engine) Remove(ctx context.Context, id int64) error {
	if err := e.highlights.Delete(ctx, id); err != nil {
		return err
	}
	e.log.Info("highlight removed", "highlight_id", id)
	return nil
}

// List returns a document's highlights in reading order.
func (e *Engine) List(ctx context.Context, documentID int64) ([]document.Highlight, error) {
	return e.highlights.ListByDocument(ctx, documentID)
}

// Restoration is the per-highlight outcome of a RestoreAll pass.
type Restoration struct {
	Highlight document.Highlight
	Span      anchor.Span
	Applied   bool
	Reason    string
}

// RestoreAll fetches a document's highlights and resolves each against the
// freshly derived sections. A highlight whose section no longer exists or
// whose offsets no longer map — the document may have been re-OCR'd since
// capture — is reported as failed without aborting the rest of the batch.
// The call itself errors only when listing the highlights fails.
func (e *Engine) RestoreAll(ctx context.Context, documentID int64, sections []section.Section) ([]Restoration, error) {
	highlights, err := e.highlights.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	// Highlights arrive ordered by (section, start); each section is
	// rendered once and reused for all of its highlights.
	sources := make(map[int]anchor.LeafSource, len(sections))
	results := make([]Restoration, 0, len(highlights))

	for _, h := range highlights {
		res := Restoration{Highlight: h}

		if h.SectionIndex < 0 || h.SectionIndex >= len(sections) {
			res.Reason = fmt.Sprintf("section %d does not exist (document has %d)", h.SectionIndex, len(sections))
			e.log.Warn("highlight restoration failed", "highlight_id", h.ID, "reason", res.Reason)
			results = append(results, res)
			continue
		}

		src, ok := sources[h.SectionIndex]
		if !ok {
			src, err = e.sectionSource(sections[h.SectionIndex])
			if err != nil {
				res.Reason = fmt.Sprintf("rendering section %d: %v", h.SectionIndex, err)
				e.log.Warn("highlight restoration failed", "highlight_id", h.ID, "reason", res.Reason)
				results = append(results, res)
				continue
			}
			sources[h.SectionIndex] = src
		}

		span, err := anchor.Resolve(src, h.RangeStart, h.RangeEnd)
		if err != nil {
			res.Reason = err.Error()
			e.log.Warn("highlight restoration failed", "highlight_id", h.ID, "reason", res.Reason)
			results = append(results, res)
			continue
		}

		res.Span = span
		res.Applied = true
		if span.Text != h.Text {
			// Stored anchor text is the verification fallback; drift is
			// reported, not repaired.
			res.Reason = fmt.Sprintf("resolved text %q differs from anchor %q", span.Text, h.Text)
		}
		results = append(results, res)
	}
	return results, nil
}

func (e *Engine) sectionSource(sec section.Section) (anchor.LeafSource, error) {
	html, err := e.renderer.HTML(sec.Content)
	if err != nil {
		return nil, err
	}
	return anchor.NewHTMLSource(html)
}
