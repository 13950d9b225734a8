package handlers

import (
	"net/http"

	"docbrain/internal/contextutil"
	"docbrain/internal/ingest"
)

// StatusHandler reports the current ingestion progress snapshot.
type StatusHandler struct {
	coordinator *ingest.Coordinator
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(coordinator *ingest.Coordinator) *StatusHandler {
	return &StatusHandler{coordinator: coordinator}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, h.coordinator.Status())
}
