// Package api exposes the document and highlight operations over HTTP.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pagemarkhq/pagemark/internal/document"
	"github.com/pagemarkhq/pagemark/internal/ocr"
	"github.com/pagemarkhq/pagemark/internal/reader"
)

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	service *reader.Service
	engine  *reader.Engine
	log     *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(service *reader.Service, engine *reader.Engine, log *slog.Logger) *Server {
	s := &Server{
		service: service,
		engine:  engine,
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/ocr/url", s.handleProcessDocument)

		r.Get("/documents/recent", s.handleRecentDocuments)
		r.Get("/documents/{documentID}/sections", s.handleDocumentSections)
		r.Delete("/documents/{documentID}", s.handleDeleteDocument)

		r.Post("/highlights", s.handleCreateHighlight)
		r.Get("/highlights/{documentID}", s.handleListHighlights)
		r.Delete("/highlights/{highlightID}", s.handleDeleteHighlight)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// writeError maps domain errors to status codes and renders them as
// {"error": "..."} JSON. Upstream OCR failures pass the provider's message
// through with a gateway status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var upstream *ocr.UpstreamError
	switch {
	case errors.Is(err, document.ErrInvalidInput):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, document.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &upstream):
		jsonError(w, err.Error(), http.StatusBadGateway)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}
