// Package anchor maps selections within a rendered section to offsets in a
// flattened character stream, and offsets back to concrete text spans. The
// stream is the ordered concatenation of the section's filtered text
// leaves; the same filter must run identically at capture time and at
// restore time or offsets will not round-trip.
package anchor

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates stored offsets no longer map onto the current
// rendered text. Callers treat this as a per-item failure, not a fatal one:
// the underlying document may legitimately have changed since capture.
var ErrOutOfRange = errors.New("offset out of range")

// Leaf is one text-bearing node of a rendered section.
type Leaf struct {
	Text string
}

// LeafSource yields the ordered, filtered text leaves of a rendered
// section. Implementations must exclude script/style content and
// whitespace-only leaves, and must be deterministic for a fixed input.
type LeafSource interface {
	Leaves() []Leaf
}

// Address locates a contiguous substring in the flattened stream.
// Offsets are rune counts, half-open [Start, End).
type Address struct {
	Start int
	End   int
}

// Span is a resolved address: a position within one concrete leaf. The end
// offset is clamped to the leaf's own length, since a highlight captured
// against an earlier render is not guaranteed to fit a single current leaf.
type Span struct {
	Leaf        int
	StartOffset int
	EndOffset   int
	Text        string
}

// Flatten returns the full flattened text stream of a source.
func Flatten(src LeafSource) string {
	var out []rune
	for _, l := range src.Leaves() {
		out = append(out, []rune(l.Text)...)
	}
	return string(out)
}

// AddressOf computes the flattened-stream address of a selection anchored
// at rune offset startOffset within leaf leafIndex and covering text.
func AddressOf(src LeafSource, leafIndex, startOffset int, text string) (Address, error) {
	leaves := src.Leaves()
	if leafIndex < 0 || leafIndex >= len(leaves) {
		return Address{}, fmt.Errorf("leaf %d of %d: %w", leafIndex, len(leaves), ErrOutOfRange)
	}
	if startOffset < 0 || startOffset > len([]rune(leaves[leafIndex].Text)) {
		return Address{}, fmt.Errorf("offset %d within leaf %d: %w", startOffset, leafIndex, ErrOutOfRange)
	}

	start := startOffset
	for i := 0; i < leafIndex; i++ {
		start += len([]rune(leaves[i].Text))
	}
	return Address{Start: start, End: start + len([]rune(text))}, nil
}

// Resolve walks the filtered leaves until it finds the one containing the
// address start, then computes the intra-leaf end offset, clamped to that
// leaf's length.
func Resolve(src LeafSource, start, end int) (Span, error) {
	if start < 0 || end <= start {
		return Span{}, fmt.Errorf("range [%d, %d): %w", start, end, ErrOutOfRange)
	}

	pos := 0
	for i, l := range src.Leaves() {
		runes := []rune(l.Text)
		if pos+len(runes) > start {
			off := start - pos
			endOff := off + (end - start)
			if endOff > len(runes) {
				endOff = len(runes)
			}
			return Span{
				Leaf:        i,
				StartOffset: off,
				EndOffset:   endOff,
				Text:        string(runes[off:endOff]),
			}, nil
		}
		pos += len(runes)
	}
	return Span{}, fmt.Errorf("start %d beyond stream length %d: %w", start, pos, ErrOutOfRange)
}
