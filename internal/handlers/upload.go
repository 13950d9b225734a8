package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"docbrain/internal/contextutil"
	"docbrain/internal/ingest"
)

// maxUploadMemory bounds how much of a multipart upload is buffered in
// memory before spilling to disk.
const maxUploadMemory = 32 << 20

// UploadHandler handles HTTP requests for uploading PDF documents.
type UploadHandler struct {
	coordinator *ingest.Coordinator
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(coordinator *ingest.Coordinator) *UploadHandler {
	return &UploadHandler{coordinator: coordinator}
}

// UploadResponse represents the upload result.
type UploadResponse struct {
	Message     string `json:"message"`
	TotalChunks int    `json:"total_chunks"`
}

// ServeHTTP handles HTTP requests for uploading PDF documents.
// Non-PDF files in the form are skipped, not rejected.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var uploads []ingest.Upload
	for _, header := range r.MultipartForm.File["files"] {
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			logger.WarnContext(ctx, "skipping non-PDF upload", "file", header.Filename)
			continue
		}

		file, err := header.Open()
		if err != nil {
			logger.WarnContext(ctx, "failed to open uploaded file", "file", header.Filename, "error", err)
			continue
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			logger.WarnContext(ctx, "failed to read uploaded file", "file", header.Filename, "error", err)
			continue
		}

		uploads = append(uploads, ingest.Upload{Filename: header.Filename, Data: data})
	}

	if len(uploads) == 0 {
		writeError(w, http.StatusBadRequest, "No PDF files provided")
		return
	}

	result, err := h.coordinator.IngestUploads(ctx, uploads)
	if err != nil {
		logger.ErrorContext(ctx, "upload processing failed", "error", err)
		writeError(w, http.StatusBadRequest, "No PDFs were successfully processed")
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:     fmt.Sprintf("Successfully processed %d PDF(s)", result.ProcessedCount),
		TotalChunks: result.ChunkCount,
	})
}
