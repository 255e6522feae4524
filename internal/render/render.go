// Package render converts section markdown to HTML. The rendered HTML is
// the structure highlight offsets are addressed against, so rendering must
// be deterministic for a fixed input.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// Renderer renders markdown to HTML using goldmark.
type Renderer struct {
	md goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{md: goldmark.New()}
}

// HTML renders one section's markdown content.
func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
