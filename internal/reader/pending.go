package reader

import "github.com/pagemarkhq/pagemark/internal/anchor"

// PendingKind identifies which interaction, if any, is awaiting commit.
type PendingKind int

const (
	// PendingNone: no selection or highlight is active.
	PendingNone PendingKind = iota
	// PendingSelection: a non-empty text selection is held, awaiting
	// Create or dismissal.
	PendingSelection
	// PendingHighlight: an existing highlight is active, awaiting Remove
	// or dismissal.
	PendingHighlight
)

// Pending is the in-progress interaction state for one document view. At
// most one of the two states is held at a time; entering one discards the
// other. The value is owned by whatever manages the active view and passed
// into engine calls, never read from ambient global state.
type Pending struct {
	kind PendingKind

	sectionIndex int
	address      anchor.Address
	text         string

	highlightID int64
}

// Kind reports the active interaction.
func (p *Pending) Kind() PendingKind {
	return p.kind
}

// BeginSelection enters the selection-active state, discarding any pending
// highlight.
func (p *Pending) BeginSelection(sectionIndex int, addr anchor.Address, text string) {
	*p = Pending{
		kind:         PendingSelection,
		sectionIndex: sectionIndex,
		address:      addr,
		text:         text,
	}
}

// BeginHighlight enters the highlight-active state for an existing
// highlight, discarding any pending selection.
func (p *Pending) BeginHighlight(id int64) {
	*p = Pending{
		kind:        PendingHighlight,
		highlightID: id,
	}
}

// Dismiss returns to idle, dropping whichever state was held.
func (p *Pending) Dismiss() {
	*p = Pending{}
}

// Selection returns the held selection. ok is false unless a selection is
// active.
func (p *Pending) Selection() (sectionIndex int, addr anchor.Address, text string, ok bool) {
	if p.kind != PendingSelection {
		return 0, anchor.Address{}, "", false
	}
	return p.sectionIndex, p.address, p.text, true
}

// ActiveHighlight returns the held highlight id. ok is false unless a
// highlight is active.
func (p *Pending) ActiveHighlight() (int64, bool) {
	if p.kind != PendingHighlight {
		return 0, false
	}
	return p.highlightID, true
}
