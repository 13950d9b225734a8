package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newEmbeddingServer answers embedding requests with a fixed vector, failing
// any request whose input contains failOn.
func newEmbeddingServer(t *testing.T, vector []float64, failOn string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req struct {
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if failOn != "" {
			for _, in := range req.Input {
				if strings.Contains(in, failOn) {
					w.WriteHeader(http.StatusBadRequest)
					_, _ = w.Write([]byte(`{"error": {"message": "bad input"}}`))
					return
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"object": "embedding", "index": 0, "embedding": vector}},
			"model":  "embed-model",
		})
	}))
}

func TestEmbed(t *testing.T) {
	server := newEmbeddingServer(t, []float64{0.1, 0.2, 0.3}, "")
	defer server.Close()

	vector, err := newTestClient(server.URL).Embed(context.Background(), "printer offline")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("Embed() returned %d dimensions, want 3", len(vector))
	}
	if vector[0] != float32(0.1) {
		t.Errorf("vector[0] = %v, want 0.1", vector[0])
	}
}

func TestEmbed_BlankInput(t *testing.T) {
	// No server: blank input must fail before any request is made.
	c := newTestClient("http://127.0.0.1:1")

	tests := []string{"", "   ", "\n\t"}
	for _, input := range tests {
		if _, err := c.Embed(context.Background(), input); err == nil {
			t.Errorf("Embed(%q) expected error for blank input", input)
		}
	}
}

func TestEmbed_EmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no data", body: `{"object": "list", "data": [], "model": "m"}`},
		{name: "empty vector", body: `{"object": "list", "data": [{"object": "embedding", "index": 0, "embedding": []}], "model": "m"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			if _, err := newTestClient(server.URL).Embed(context.Background(), "text"); err == nil {
				t.Fatal("Embed() expected error, got nil")
			}
		})
	}
}

func TestEmbedBatch_SkipsFailures(t *testing.T) {
	server := newEmbeddingServer(t, []float64{0.5, 0.5}, "poison")
	defer server.Close()

	texts := []string{"first chunk", "poison chunk", "third chunk"}
	embedded := newTestClient(server.URL).EmbedBatch(context.Background(), texts)

	if len(embedded) != 2 {
		t.Fatalf("EmbedBatch() returned %d vectors, want 2", len(embedded))
	}
	if embedded[0].Index != 0 || embedded[1].Index != 2 {
		t.Errorf("surviving indexes = %d, %d, want 0, 2", embedded[0].Index, embedded[1].Index)
	}
	for _, em := range embedded {
		if len(em.Vector) != 2 {
			t.Errorf("vector at index %d has %d dimensions, want 2", em.Index, len(em.Vector))
		}
	}
}

func TestEmbedBatch_AllFail(t *testing.T) {
	server := newEmbeddingServer(t, nil, "chunk")
	defer server.Close()

	embedded := newTestClient(server.URL).EmbedBatch(context.Background(), []string{"chunk a", "chunk b"})
	if len(embedded) != 0 {
		t.Fatalf("EmbedBatch() returned %d vectors, want 0", len(embedded))
	}
}
