package ocr

import (
	"strings"

	"github.com/pagemarkhq/pagemark/internal/document"
)

const maxTitleLen = 100

// Combine joins the per-page markdown into one document-level text, with
// each page's image placeholders replaced by the base64 data the OCR
// provider extracted. Pages are separated by a blank line.
func Combine(pages []document.Page) string {
	markdowns := make([]string, 0, len(pages))
	for _, p := range pages {
		md := p.Markdown
		for _, img := range p.Images {
			if img.ID == "" || img.Base64 == "" {
				continue
			}
			placeholder := "![" + img.ID + "](" + img.ID + ")"
			replacement := "![" + img.ID + "](" + img.Base64 + ")"
			md = strings.ReplaceAll(md, placeholder, replacement)
		}
		markdowns = append(markdowns, md)
	}
	return strings.Join(markdowns, "\n\n")
}

// ExtractTitle derives a document title from the first page: the first
// level-1 heading if there is one, otherwise the first line, truncated.
func ExtractTitle(pages []document.Page) string {
	if len(pages) == 0 {
		return ""
	}
	for _, line := range strings.Split(pages[0].Markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	first := strings.TrimSpace(strings.SplitN(pages[0].Markdown, "\n", 2)[0])
	if runes := []rune(first); len(runes) > maxTitleLen {
		return string(runes[:maxTitleLen])
	}
	return first
}
