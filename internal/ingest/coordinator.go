// Package ingest coordinates document ingestion: change detection, chunk
// extraction, embedding, and indexing, with a published progress snapshot.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"docbrain/internal/contextutil"
	"docbrain/internal/extractor"
	"docbrain/internal/llm"
	"docbrain/internal/tracker"
	"docbrain/internal/vectorstore"
)

// ChunkExtractor turns raw document bytes into indexable chunks.
type ChunkExtractor interface {
	Extract(ctx context.Context, doc []byte) ([]extractor.Chunk, error)
}

// BatchEmbedder embeds a batch of texts, skipping individual failures.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) []llm.Embedded
}

// Upload is one uploaded document.
type Upload struct {
	Filename string
	Data     []byte
}

// Result summarizes an ingestion run.
type Result struct {
	ProcessedCount int
	ChunkCount     int
}

// Coordinator drives ingestion end to end and publishes progress.
type Coordinator struct {
	tracker    *tracker.Tracker
	extractor  ChunkExtractor
	embedder   BatchEmbedder
	store      vectorstore.VectorStore
	collection string
	vectorSize int
	docsDir    string
	status     *statusCell
}

// NewCoordinator creates a new ingestion coordinator.
func NewCoordinator(
	tr *tracker.Tracker,
	ext ChunkExtractor,
	embedder BatchEmbedder,
	store vectorstore.VectorStore,
	collection string,
	vectorSize int,
	docsDir string,
) *Coordinator {
	return &Coordinator{
		tracker:    tr,
		extractor:  ext,
		embedder:   embedder,
		store:      store,
		collection: collection,
		vectorSize: vectorSize,
		docsDir:    docsDir,
		status:     newStatusCell(),
	}
}

// Status returns the current ingestion progress snapshot.
func (c *Coordinator) Status() Status {
	return c.status.Load()
}

// SweepDirectory indexes every new or modified document in the watched
// directory. A file that fails is logged and skipped; the sweep finishes the
// rest. The progress snapshot always returns to idle, even on early exit.
func (c *Coordinator) SweepDirectory(ctx context.Context) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	defer c.status.Store(Status{})

	c.status.Store(Status{IsProcessing: true})

	paths, err := c.tracker.Unprocessed(ctx, c.docsDir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to enumerate documents: %w", err)
	}
	if len(paths) == 0 {
		logger.InfoContext(ctx, "all documents already processed")
		return Result{}, nil
	}

	logger.InfoContext(ctx, "found documents to process", "count", len(paths))

	var result Result
	for i, path := range paths {
		filename := filepath.Base(path)
		c.status.Store(Status{
			IsProcessing: true,
			Current:      i + 1,
			Total:        len(paths),
			CurrentFile:  filename,
		})

		data, err := os.ReadFile(path)
		if err != nil {
			logger.ErrorContext(ctx, "failed to read document", "file", filename, "error", err)
			continue
		}

		chunks, err := c.ingestOne(ctx, filename, data)
		if err != nil {
			logger.ErrorContext(ctx, "failed to process document", "file", filename, "error", err)
			continue
		}

		result.ProcessedCount++
		result.ChunkCount += chunks
	}

	logger.InfoContext(ctx, "sweep complete",
		"processed", result.ProcessedCount,
		"chunks", result.ChunkCount,
	)
	return result, nil
}

// IngestUploads indexes ad hoc uploaded documents. Unlike a sweep, an upload
// where nothing could be processed is an error the caller should see.
func (c *Coordinator) IngestUploads(ctx context.Context, uploads []Upload) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	defer c.status.Store(Status{})

	var result Result
	for i, up := range uploads {
		c.status.Store(Status{
			IsProcessing: true,
			Current:      i + 1,
			Total:        len(uploads),
			CurrentFile:  up.Filename,
		})

		chunks, err := c.ingestOne(ctx, up.Filename, up.Data)
		if err != nil {
			logger.ErrorContext(ctx, "failed to process upload", "file", up.Filename, "error", err)
			continue
		}

		result.ProcessedCount++
		result.ChunkCount += chunks
	}

	if result.ProcessedCount == 0 {
		return Result{}, fmt.Errorf("no documents were successfully processed")
	}
	return result, nil
}

// ingestOne runs the shared per-document pipeline:
// hash, extract, embed, upsert, mark processed.
// Chunk ids are "{hash}_{ordinal}" with the ordinal taken from the chunk's
// position in the extracted sequence, so re-ingesting identical content
// replaces its own points instead of duplicating them.
func (c *Coordinator) ingestOne(ctx context.Context, filename string, data []byte) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	hash := tracker.HashBytes(data)

	chunks, err := c.extractor.Extract(ctx, data)
	if err != nil {
		if errors.Is(err, extractor.ErrNoContent) {
			return 0, fmt.Errorf("no content extracted from %s: %w", filename, err)
		}
		return 0, fmt.Errorf("extraction failed for %s: %w", filename, err)
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	embedded := c.embedder.EmbedBatch(ctx, texts)
	if len(embedded) == 0 {
		return 0, fmt.Errorf("no chunks of %s could be embedded", filename)
	}

	points := make([]vectorstore.Point, 0, len(embedded))
	for _, em := range embedded {
		ch := chunks[em.Index]
		points = append(points, vectorstore.Point{
			DocID: fmt.Sprintf("%s_%d", hash, em.Index),
			Vec:   em.Vector,
			Text:  ch.Text,
			Meta: map[string]any{
				"filename": filename,
				"page":     ch.Page,
				"kind":     string(ch.Kind),
			},
		})
	}

	if err := c.store.Upsert(ctx, c.collection, points); err != nil {
		return 0, fmt.Errorf("failed to index %s: %w", filename, err)
	}

	// A ledger write failure must not undo a successful index run. The file
	// will be re-swept next startup, and the idempotent ids make that safe.
	if err := c.tracker.MarkProcessedBytes(ctx, filename, hash); err != nil {
		logger.WarnContext(ctx, "failed to record processed file", "file", filename, "error", err)
	}

	logger.InfoContext(ctx, "document indexed", "file", filename, "chunks", len(points))
	return len(points), nil
}

// ClearAll wipes the vector collection and the processed-file ledger
// together; the ledger must never claim files whose points are gone.
func (c *Coordinator) ClearAll(ctx context.Context) error {
	if err := c.store.Clear(ctx, c.collection, c.vectorSize); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}
	if err := c.tracker.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	return nil
}
