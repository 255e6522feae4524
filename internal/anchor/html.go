package anchor

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLSource derives filtered text leaves from rendered section HTML: text
// nodes in document order, excluding anything inside script or style
// elements and excluding whitespace-only nodes. This mirrors the filter the
// capturing side applies, which is what keeps offsets stable across
// independent renders of the same markdown.
type HTMLSource struct {
	leaves []Leaf
}

// NewHTMLSource parses an HTML fragment and collects its text leaves.
func NewHTMLSource(fragment string) (*HTMLSource, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	src := &HTMLSource{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Data) != "" {
				src.leaves = append(src.leaves, Leaf{Text: n.Data})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return src, nil
}

func (s *HTMLSource) Leaves() []Leaf {
	return s.leaves
}

// StringSource exposes a plain string as a single synthetic leaf. It lets
// the address space work over unrendered text, where the whole section
// content is one leaf.
type StringSource string

func (s StringSource) Leaves() []Leaf {
	if s == "" {
		return nil
	}
	return []Leaf{{Text: string(s)}}
}
