// Package document holds the domain types shared across the service.
package document

import "time"

// Document is a cached OCR result keyed by its canonical source URL.
type Document struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the listing shape for a document: identity and timestamps,
// never the content payload.
type Summary struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Content is the stored OCR payload: the raw per-page output plus the
// derived document-level markdown with inline images resolved.
type Content struct {
	Pages            []Page `json:"pages,omitempty"`
	CombinedMarkdown string `json:"combined_markdown"`
}

// Page is a single page of OCR output.
type Page struct {
	Index    int     `json:"index"`
	Markdown string  `json:"markdown"`
	Images   []Image `json:"images,omitempty"`
}

// Image is an inline image extracted by OCR, identified by the placeholder
// name the page markdown references it with.
type Image struct {
	ID     string `json:"id"`
	Base64 string `json:"image_base64,omitempty"`
}

// Highlight is an annotation anchored to a character range within the
// flattened text of one section of a document.
type Highlight struct {
	ID           int64     `json:"id"`
	DocumentID   int64     `json:"document_id"`
	SectionIndex int       `json:"section_index"`
	Text         string    `json:"text"`
	RangeStart   int       `json:"range_start"`
	RangeEnd     int       `json:"range_end"`
	CreatedAt    time.Time `json:"created_at"`
}
