package api

import (
	"encoding/json"
	"net/http"

	"github.com/pagemarkhq/pagemark/internal/document"
)

type createHighlightRequest struct {
	DocumentID   int64  `json:"documentId"`
	SectionIndex int    `json:"sectionIndex"`
	Text         string `json:"text"`
	RangeStart   int    `json:"rangeStart"`
	RangeEnd     int    `json:"rangeEnd"`
}

// handleCreateHighlight persists a highlight against a rendered section.
func (s *Server) handleCreateHighlight(w http.ResponseWriter, r *http.Request) {
	var req createHighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h, err := s.engine.Create(r.Context(), req.DocumentID, req.SectionIndex, req.Text, req.RangeStart, req.RangeEnd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

// handleListHighlights returns a document's highlights in reading order.
func (s *Server) handleListHighlights(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "documentID")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	highlights, err := s.engine.List(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if highlights == nil {
		highlights = []document.Highlight{}
	}
	writeJSON(w, http.StatusOK, highlights)
}

// handleDeleteHighlight deletes one highlight. Repeating the delete for
// the same id yields 404, which lets clients detect double submission.
func (s *Server) handleDeleteHighlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "highlightID")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.engine.Remove(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
