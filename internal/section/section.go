// Package section partitions a document's combined markdown into an
// ordered sequence of titled sections along heading boundaries.
package section

import (
	"regexp"
	"strings"
)

// Section is a titled, contiguous slice of a document's markdown. Sections
// are derived fresh on every render and never persisted: highlight offsets
// only round-trip if Split is a pure function of its input.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Only level-1 and level-2 headings open a new section; deeper headings
// are ordinary content.
var heading = regexp.MustCompile(`^(#{1,2})\s+(.+)$`)

// Split partitions markdown into sections. A matched heading line becomes
// the new section's title and is not part of its body. Content before the
// first heading stays in the first emitted section together with that
// heading's title. Input with no level-1/2 headings yields a single
// synthetic section titled "Document" holding the entire input.
func Split(markdown string) []Section {
	var sections []Section
	var current Section
	var content strings.Builder
	firstHeading := true

	for _, line := range strings.Split(markdown, "\n") {
		m := heading.FindStringSubmatch(line)
		if m != nil {
			if !firstHeading {
				current.Content = content.String()
				sections = append(sections, current)
				current = Section{}
				content.Reset()
			}
			current.Title = m[2]
			firstHeading = false
			continue
		}
		content.WriteString(line)
		content.WriteByte('\n')
	}

	if firstHeading {
		// No level-1/2 heading anywhere: the whole input is one section.
		return []Section{{Title: "Document", Content: markdown}}
	}

	current.Content = content.String()
	if current.Title != "" || current.Content != "" {
		sections = append(sections, current)
	}
	return sections
}
