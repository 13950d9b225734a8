package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"docbrain/internal/contextutil"
)

// Embedded pairs an input index with its embedding vector, so batch callers
// can align surviving vectors with their source chunks after failures are
// skipped.
type Embedded struct {
	Index  int
	Vector []float32
}

// Embed generates an embedding for a single text.
// Blank input, an empty response, and an empty vector are all errors;
// they must never be coerced to a zero vector. Rate-limited calls are
// retried with exponential backoff.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	var vector []float32
	err := withRateLimitRetry(ctx, func() error {
		resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: []string{text},
			},
			Model: openai.EmbeddingModel(c.embeddingModel),
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("embedding response contained no data")
		}
		if len(resp.Data[0].Embedding) == 0 {
			return fmt.Errorf("embedding response contained an empty vector")
		}
		vector = toFloat32(resp.Data[0].Embedding)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return vector, nil
}

// EmbedBatch embeds a sequence of texts one at a time, skipping any
// individual failure so one bad chunk does not abort a whole document's
// indexing. Failures are logged, not raised; the returned pairs carry the
// original indexes of the texts that survived.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) []Embedded {
	logger := contextutil.LoggerFromContext(ctx)

	embedded := make([]Embedded, 0, len(texts))
	for i, text := range texts {
		vector, err := c.Embed(ctx, text)
		if err != nil {
			preview := text
			if len(preview) > 80 {
				preview = preview[:80] + "..."
			}
			logger.WarnContext(ctx, "skipping chunk that failed to embed", "index", i, "text", preview, "error", err)
			continue
		}
		embedded = append(embedded, Embedded{Index: i, Vector: vector})
	}
	return embedded
}

// toFloat32 converts []float64 to []float32.
// The API returns float64, but the vector store uses float32.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
