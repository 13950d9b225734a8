// Package http wires the API routes and request middleware.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docbrain/internal/handlers"
	"docbrain/internal/ingest"
	"docbrain/internal/rag"
	"docbrain/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine      rag.Engine
	Coordinator *ingest.Coordinator
	Store       vectorstore.VectorStore
	Collection  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	queryHandler := handlers.NewQueryHandler(deps.Engine)
	uploadHandler := handlers.NewUploadHandler(deps.Coordinator)
	statusHandler := handlers.NewStatusHandler(deps.Coordinator)
	clearHandler := handlers.NewClearHandler(deps.Coordinator)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Coordinator, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodPost, "/upload", uploadHandler)
		r.Method(http.MethodGet, "/processing-status", statusHandler)
		r.Method(http.MethodDelete, "/clear", clearHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
