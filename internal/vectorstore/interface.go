package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docbrain/internal/vectorstore VectorStore

import "context"

// Point represents one indexable chunk: a deterministic document id, its
// embedding, the chunk text, and display metadata.
type Point struct {
	DocID string // "{filehash}_{ordinal}", stable across re-ingestion
	Vec   []float32
	Text  string
	Meta  map[string]any // filename, page, kind
}

// SearchResult represents one nearest neighbor from a similarity query.
// Distance is a cosine distance: 0 = identical, larger = less similar.
type SearchResult struct {
	DocID    string
	Text     string
	Distance float64
	Meta     map[string]any
}

// VectorStore defines the interface for the persistent vector collection.
type VectorStore interface {
	// EnsureCollection ensures the collection exists with the given vector
	// size and cosine distance, validating the size if it already exists.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// Upsert performs an idempotent batch write: re-inserting a point with
	// the same DocID replaces it rather than duplicating it.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Query returns the k nearest neighbors of the vector in ascending
	// distance order (closest first).
	Query(ctx context.Context, collection string, vector []float32, k int) ([]SearchResult, error)

	// Count returns the total number of stored entries.
	Count(ctx context.Context, collection string) (int, error)

	// Clear destroys the collection and recreates it empty with the same
	// configuration.
	Clear(ctx context.Context, collection string, vectorSize int) error
}
