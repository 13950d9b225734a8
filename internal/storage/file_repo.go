package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_processed_file_store.go -package=mocks docbrain/internal/storage ProcessedFileStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ProcessedFile records the content hash a file had when it was last indexed.
type ProcessedFile struct {
	Filename    string
	ContentHash string
}

// ProcessedFileStore defines the interface for the processed-file ledger.
type ProcessedFileStore interface {
	// GetHash returns the recorded content hash for a filename.
	// Returns ErrNotFound if the file has never been marked processed.
	GetHash(ctx context.Context, filename string) (string, error)
	// Upsert records the content hash for a filename, replacing any previous record.
	Upsert(ctx context.Context, rec *ProcessedFile) error
	// DeleteAll removes every record from the ledger.
	DeleteAll(ctx context.Context) error
	// Count returns the number of tracked files.
	Count(ctx context.Context) (int, error)
}

// ProcessedFileRepo provides methods for ledger operations.
// It implements the ProcessedFileStore interface.
type ProcessedFileRepo struct {
	db *sql.DB
}

// NewProcessedFileRepo creates a new ProcessedFileRepo.
func NewProcessedFileRepo(db *sql.DB) *ProcessedFileRepo {
	return &ProcessedFileRepo{db: db}
}

// GetHash returns the recorded content hash for a filename.
func (r *ProcessedFileRepo) GetHash(ctx context.Context, filename string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		"SELECT content_hash FROM processed_files WHERE filename = ?", filename,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get processed file: %w", err)
	}
	return hash, nil
}

// Upsert records the content hash for a filename, replacing any previous record.
func (r *ProcessedFileRepo) Upsert(ctx context.Context, rec *ProcessedFile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO processed_files (filename, content_hash) VALUES (?, ?)
		 ON CONFLICT(filename) DO UPDATE SET content_hash = excluded.content_hash, processed_at = CURRENT_TIMESTAMP`,
		rec.Filename, rec.ContentHash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert processed file: %w", err)
	}
	return nil
}

// DeleteAll removes every record from the ledger.
func (r *ProcessedFileRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM processed_files")
	if err != nil {
		return fmt.Errorf("failed to clear processed files: %w", err)
	}
	return nil
}

// Count returns the number of tracked files.
func (r *ProcessedFileRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM processed_files").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count processed files: %w", err)
	}
	return n, nil
}
