package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBraveProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Subscription-Token"); got != "brave-key" {
			t.Errorf("X-Subscription-Token = %q, want brave-key", got)
		}
		if got := r.URL.Query().Get("q"); got != "printer error 0x01" {
			t.Errorf("q = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"web": {"results": [
				{"title": "Fixing error 0x01", "description": "Steps to resolve", "url": "https://example.com/fix"},
				{"title": "Printer troubleshooting", "description": "General guide", "url": "https://example.com/guide"}
			]}
		}`))
	}))
	defer server.Close()

	p := NewBraveProvider("brave-key")
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "printer error 0x01", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Title != "Fixing error 0x01" || results[0].URL != "https://example.com/fix" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestBraveProvider_CapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"web": {"results": [
				{"title": "a", "description": "a", "url": "https://a"},
				{"title": "b", "description": "b", "url": "https://b"},
				{"title": "c", "description": "c", "url": "https://c"}
			]}
		}`))
	}))
	defer server.Close()

	p := NewBraveProvider("key")
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestBraveProvider_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p := NewBraveProvider("bad-key")
	p.baseURL = server.URL

	if _, err := p.Search(context.Background(), "query", 3); err == nil {
		t.Fatal("Search() expected error for 401 response")
	}
}

func TestTavilyProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tavily-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{"title": "Router reset guide", "content": "Hold the button for 10s", "url": "https://example.com/reset"}
			]
		}`))
	}))
	defer server.Close()

	p := NewTavilyProvider("tavily-key")
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "how to reset router", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Snippet != "Hold the button for 10s" {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}

func TestNoopProvider(t *testing.T) {
	results, err := NoopProvider{}.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}
