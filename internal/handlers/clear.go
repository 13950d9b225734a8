package handlers

import (
	"net/http"

	"docbrain/internal/contextutil"
	"docbrain/internal/ingest"
)

// ClearHandler wipes the entire knowledge base: the vector collection and
// the processed-file ledger.
type ClearHandler struct {
	coordinator *ingest.Coordinator
}

// NewClearHandler creates a new ClearHandler.
func NewClearHandler(coordinator *ingest.Coordinator) *ClearHandler {
	return &ClearHandler{coordinator: coordinator}
}

// ClearResponse confirms the wipe.
type ClearResponse struct {
	Message string `json:"message"`
}

func (h *ClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodDelete {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := h.coordinator.ClearAll(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to clear knowledge base", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear database")
		return
	}

	logger.InfoContext(ctx, "knowledge base cleared")
	writeJSON(w, http.StatusOK, ClearResponse{Message: "Database cleared successfully"})
}
