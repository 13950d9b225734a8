// Package websearch provides the web-search fallback used when local
// retrieval comes back too dissimilar to the question.
package websearch

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_provider.go -package=mocks docbrain/internal/websearch Provider

import (
	"context"
	"net/http"
	"time"
)

// searchTimeout bounds every provider call; a slow search engine must never
// hold up query completion.
const searchTimeout = 10 * time.Second

// Result is one web search hit.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Provider defines the interface for a web search backend.
type Provider interface {
	// Search returns up to count results for the query.
	Search(ctx context.Context, query string, count int) ([]Result, error)
}

// NoopProvider is used when no search API key is configured. It returns
// empty results so the web-search branch degrades to a no-op instead of an
// error.
type NoopProvider struct{}

// Search always returns no results.
func (NoopProvider) Search(ctx context.Context, query string, count int) ([]Result, error) {
	return nil, nil
}

// newHTTPClient returns the http.Client shared by the concrete providers.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: searchTimeout}
}
