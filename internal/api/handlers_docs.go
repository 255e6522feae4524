package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pagemarkhq/pagemark/internal/document"
)

type processRequest struct {
	DocumentURL  string `json:"document_url"`
	ForceRefresh bool   `json:"force_refresh"`
}

// handleProcessDocument runs OCR for a document URL, serving from the
// cache unless a refresh is forced.
func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.DocumentURL == "" {
		jsonError(w, "document_url is required", http.StatusBadRequest)
		return
	}

	result, err := s.service.Process(r.Context(), req.DocumentURL, req.ForceRefresh)
	if err != nil {
		s.log.Error("document processing failed", "url", req.DocumentURL, "error", err)
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pages":             result.Content.Pages,
		"combined_markdown": result.Content.CombinedMarkdown,
		"metadata":          result.Metadata,
	})
}

// handleRecentDocuments lists document summaries, most recently updated
// first.
func (s *Server) handleRecentDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	summaries, err := s.service.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []document.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// handleDocumentSections derives sections fresh from the stored combined
// markdown and returns them with rendered HTML.
func (s *Server) handleDocumentSections(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "documentID")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sections, err := s.service.Sections(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

// handleDeleteDocument removes a document and, by cascade, its highlights.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "documentID")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.service.DeleteDocument(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", param, raw)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
