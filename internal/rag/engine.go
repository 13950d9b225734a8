// Package rag orchestrates query answering: retrieve local chunks, fall back
// to web search when they look too dissimilar, and synthesize an answer from
// whatever context survives.
package rag

import (
	"context"
	"fmt"
	"strings"

	"docbrain/internal/contextutil"
	"docbrain/internal/vectorstore"
	"docbrain/internal/websearch"
)

// insufficientAnswer is returned when neither local retrieval nor web search
// produced any context. It is fixed so the no-context path stays
// deterministic.
const insufficientAnswer = "I don't have enough information to answer this question."

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Params carries the tuning knobs for the engine.
type Params struct {
	// Collection is the vector store collection to query.
	Collection string
	// TopK is the default number of chunks to retrieve.
	TopK int
	// SimilarityThreshold is the mean-distance cutoff above which local
	// results are considered too dissimilar and web search kicks in.
	SimilarityThreshold float64
	// WebResultCount bounds how many web results are requested.
	WebResultCount int
	// MaxHistory caps how many conversation turns go into the prompt.
	MaxHistory int
}

// Engine answers questions over the indexed knowledge base.
type Engine interface {
	// Query retrieves context for the question and generates an answer.
	Query(ctx context.Context, req Request) (Response, error)
}

type engine struct {
	embedder Embedder
	genner   Generator
	store    vectorstore.VectorStore
	search   websearch.Provider
	params   Params
}

// NewEngine creates a new query engine.
func NewEngine(embedder Embedder, genner Generator, store vectorstore.VectorStore, search websearch.Provider, params Params) Engine {
	return &engine{
		embedder: embedder,
		genner:   genner,
		store:    store,
		search:   search,
		params:   params,
	}
}

// Query answers a question by blending local retrieval with an optional web
// search fallback.
func (e *engine) Query(ctx context.Context, req Request) (Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	vector, err := e.embedder.Embed(ctx, req.Question)
	if err != nil {
		return Response{}, fmt.Errorf("failed to embed question: %w", err)
	}

	k := req.TopK
	if k <= 0 {
		k = e.params.TopK
	}

	results, err := e.store.Query(ctx, e.params.Collection, vector, k)
	if err != nil {
		return Response{}, fmt.Errorf("failed to search knowledge base: %w", err)
	}

	localTexts := make([]string, 0, len(results))
	localSources := make([]string, 0, len(results))
	for _, r := range results {
		localTexts = append(localTexts, r.Text)
		localSources = append(localSources, formatSource(r))
	}
	localContext := strings.Join(localTexts, "\n\n")

	webContext, webSources := e.maybeSearchWeb(ctx, req.Question, results)

	var combined string
	switch {
	case localContext != "" && webContext != "":
		combined = fmt.Sprintf("Information from uploaded documents:\n%s\n\nAdditional information from web search:\n%s", localContext, webContext)
	case webContext != "":
		combined = fmt.Sprintf("Information from web search:\n%s", webContext)
	default:
		combined = localContext
	}

	if combined == "" {
		logger.InfoContext(ctx, "no context found for question", "question", req.Question)
		return Response{
			Answer:  insufficientAnswer,
			Sources: []string{},
		}, nil
	}

	prompt := buildPrompt(req.Question, combined, req.History, e.params.MaxHistory)

	answer, err := e.genner.Generate(ctx, prompt)
	if err != nil {
		return Response{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	logger.InfoContext(ctx, "query answered",
		"local_chunks", len(results),
		"web_results", len(webSources),
		"answer_length", len(answer),
	)

	return Response{
		Answer:  answer,
		Sources: append(localSources, webSources...),
	}, nil
}

// maybeSearchWeb runs the web-search fallback when local retrieval came back
// empty or too far from the question, and returns the formatted web context
// plus its source URLs. A failed search degrades to no web context; it never
// fails the query.
func (e *engine) maybeSearchWeb(ctx context.Context, question string, results []vectorstore.SearchResult) (string, []string) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(results) > 0 {
		var sum float64
		for _, r := range results {
			sum += r.Distance
		}
		avg := sum / float64(len(results))
		if avg <= e.params.SimilarityThreshold {
			return "", nil
		}
		logger.InfoContext(ctx, "local results too dissimilar, trying web search", "avg_distance", avg)
	} else {
		logger.InfoContext(ctx, "no local results, trying web search")
	}

	webResults, err := e.search.Search(ctx, question, e.params.WebResultCount)
	if err != nil {
		logger.ErrorContext(ctx, "web search failed", "error", err)
		return "", nil
	}

	texts := make([]string, 0, len(webResults))
	sources := make([]string, 0, len(webResults))
	for _, r := range webResults {
		texts = append(texts, fmt.Sprintf("Title: %s\nDescription: %s\nURL: %s", r.Title, r.Snippet, r.URL))
		sources = append(sources, r.URL)
	}
	return strings.Join(texts, "\n\n"), sources
}

// formatSource renders one local hit as "file.pdf (Page 3, text)".
func formatSource(r vectorstore.SearchResult) string {
	filename, _ := r.Meta["filename"].(string)
	kind, _ := r.Meta["kind"].(string)
	return fmt.Sprintf("%s (Page %d, %s)", filename, metaInt(r.Meta["page"]), kind)
}

// metaInt coerces a payload number to int. The payload round-trip can hand
// back int64 or float64 depending on how the value was stored.
func metaInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
