package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"docbrain/internal/contextutil"
	"docbrain/internal/rag"
)

// QueryHandler handles HTTP requests for knowledge-base queries.
type QueryHandler struct {
	engine rag.Engine
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine rag.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// Message is one conversation turn in the request payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QueryRequest represents the HTTP request payload for queries.
// This mirrors rag.Request but is defined here for HTTP layer separation.
type QueryRequest struct {
	Question    string    `json:"question"`
	ChatHistory []Message `json:"chat_history,omitempty"`
	TopK        int       `json:"top_k,omitempty"`
}

// QueryResponse represents the HTTP response payload for queries.
type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// ServeHTTP handles HTTP requests for knowledge-base queries.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	// Zero means "use the configured default".
	if req.TopK < 0 {
		req.TopK = 0
	}
	if req.TopK > 20 {
		req.TopK = 20
	}

	history := make([]rag.Turn, len(req.ChatHistory))
	for i, msg := range req.ChatHistory {
		history[i] = rag.Turn{Role: msg.Role, Content: msg.Content}
	}

	resp, err := h.engine.Query(ctx, rag.Request{
		Question: req.Question,
		History:  history,
		TopK:     req.TopK,
	})
	if err != nil {
		h.handleEngineError(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:  resp.Answer,
		Sources: resp.Sources,
	})
}

// handleEngineError maps engine errors to appropriate HTTP status codes.
func (h *QueryHandler) handleEngineError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "query engine error", "error", err)

	errMsg := strings.ToLower(err.Error())

	// Vector store errors -> 503
	if strings.Contains(errMsg, "knowledge base") || strings.Contains(errMsg, "qdrant") {
		writeError(w, http.StatusServiceUnavailable, "Knowledge base unavailable")
		return
	}

	// Model errors -> 502
	if strings.Contains(errMsg, "embed") || strings.Contains(errMsg, "generate") {
		writeError(w, http.StatusBadGateway, "Language model error")
		return
	}

	writeError(w, http.StatusInternalServerError, "Failed to process query")
}
