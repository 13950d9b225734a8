package tracker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"docbrain/internal/contextutil"
	"docbrain/internal/storage"
)

// Tracker decides which documents need (re)indexing by comparing content
// hashes against the persisted ledger.
type Tracker struct {
	store storage.ProcessedFileStore
}

// New creates a new Tracker backed by the given ledger store.
func New(store storage.ProcessedFileStore) *Tracker {
	return &Tracker{store: store}
}

// HashFile computes the SHA-256 hex digest of a file's content.
// The file is streamed through the hasher so large documents do not
// load into memory.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes computes the SHA-256 hex digest of in-memory content (uploads).
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IsProcessed reports whether the file's current content hash matches the
// recorded ledger entry. A missing or unreadable ledger entry means
// "not processed" so the file gets (re)indexed rather than skipped.
func (t *Tracker) IsProcessed(ctx context.Context, path string) (bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	recorded, err := t.store.GetHash(ctx, filepath.Base(path))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		logger.WarnContext(ctx, "ledger read failed, treating file as unprocessed", "file", path, "error", err)
		return false, nil
	}

	current, err := HashFile(path)
	if err != nil {
		return false, err
	}
	return recorded == current, nil
}

// MarkProcessed recomputes the file's content hash and persists it
// immediately. Callers log and continue on error; a ledger write failure
// must not abort ingestion of subsequent files.
func (t *Tracker) MarkProcessed(ctx context.Context, path string) error {
	hash, err := HashFile(path)
	if err != nil {
		return err
	}
	return t.store.Upsert(ctx, &storage.ProcessedFile{
		Filename:    filepath.Base(path),
		ContentHash: hash,
	})
}

// MarkProcessedBytes persists the ledger entry for uploaded content that was
// already hashed during ingestion.
func (t *Tracker) MarkProcessedBytes(ctx context.Context, filename, hash string) error {
	return t.store.Upsert(ctx, &storage.ProcessedFile{
		Filename:    filename,
		ContentHash: hash,
	})
}

// Unprocessed enumerates the PDF documents under dir in lexicographic path
// order and returns those whose content has changed since they were last
// indexed. Deterministic order keeps processing-status reporting
// reproducible across sweeps.
func (t *Tracker) Unprocessed(ctx context.Context, dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", dir, err)
	}
	sort.Strings(matches)

	var unprocessed []string
	for _, path := range matches {
		processed, err := t.IsProcessed(ctx, path)
		if err != nil {
			return nil, err
		}
		if !processed {
			unprocessed = append(unprocessed, path)
		}
	}
	return unprocessed, nil
}

// Clear resets the ledger to empty.
func (t *Tracker) Clear(ctx context.Context) error {
	return t.store.DeleteAll(ctx)
}
