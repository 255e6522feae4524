// Package docurl canonicalizes document URLs so that logically identical
// sources share one cache entry.
package docurl

import "regexp"

// arXiv abstract and PDF pages both resolve to the same paper; the OCR
// provider needs the PDF. Matches an identifier like 2201.04234 after
// /abs/ or /pdf/, or directly after the host.
var arxivID = regexp.MustCompile(`arxiv\.org(?:/abs|/pdf)?/(\d+\.\d+)`)

// Normalize rewrites an arXiv URL to its canonical PDF form
// https://arxiv.org/pdf/<id>.pdf. Any other URL, including a malformed
// arXiv-looking one, is returned unchanged.
func Normalize(url string) string {
	if m := arxivID.FindStringSubmatch(url); m != nil {
		return "https://arxiv.org/pdf/" + m[1] + ".pdf"
	}
	return url
}
