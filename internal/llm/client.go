// Package llm wraps an OpenAI-compatible API for the three model calls the
// pipeline needs: text embedding, answer generation, and image description.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client is a client for an OpenAI-compatible chat/embeddings server
// (OpenAI itself, or a local server such as Ollama's /v1 endpoint).
type Client struct {
	client         openai.Client
	embeddingModel string
	generateModel  string
	visionModel    string
}

// NewClient creates a new LLM client against the given base URL.
func NewClient(baseURL, apiKey, embeddingModel, generateModel, visionModel string) *Client {
	return &Client{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(apiKey),
		),
		embeddingModel: embeddingModel,
		generateModel:  generateModel,
		visionModel:    visionModel,
	}
}

// Generate sends a single-prompt chat completion request and returns the
// generated text. Errors are surfaced to the caller; a query without an
// answer has nothing useful to return.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(c.generateModel),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// withRateLimitRetry wraps an operation with exponential backoff on rate limit
// errors (HTTP 429). Other errors fail immediately.
func withRateLimitRetry(ctx context.Context, operation func() error) error {
	wrapped := func() error {
		err := operation()
		if err != nil && !isRateLimitError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(wrapped, backoff.WithContext(b, ctx))
}

// isRateLimitError checks if the error is a rate limit error (HTTP 429).
func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
