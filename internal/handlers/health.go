package handlers

import (
	"context"
	"net/http"
	"time"

	"docbrain/internal/contextutil"
	"docbrain/internal/ingest"
	"docbrain/internal/vectorstore"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	store              vectorstore.VectorStore
	coordinator        *ingest.Coordinator
	collection         string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store vectorstore.VectorStore, coordinator *ingest.Coordinator, collection string) *HealthHandler {
	return &HealthHandler{
		store:              store,
		coordinator:        coordinator,
		collection:         collection,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status          string `json:"status"`
	CollectionCount int    `json:"collection_count"`
	IsProcessing    bool   `json:"is_processing"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 when the vector store is reachable, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	processing := h.coordinator.Status().IsProcessing

	count, err := h.store.Count(checkCtx, h.collection)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:       "unhealthy",
			IsProcessing: processing,
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "healthy",
		CollectionCount: count,
		IsProcessing:    processing,
	})
}
