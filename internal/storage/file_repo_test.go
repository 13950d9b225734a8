package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// newTestDB opens a throwaway SQLite database with the schema applied.
func newTestDB(t *testing.T) *ProcessedFileRepo {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewProcessedFileRepo(db)
}

func TestProcessedFileRepo_GetHash_NotFound(t *testing.T) {
	repo := newTestDB(t)

	_, err := repo.GetHash(context.Background(), "missing.pdf")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetHash() error = %v, want ErrNotFound", err)
	}
}

func TestProcessedFileRepo_UpsertAndGet(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	rec := &ProcessedFile{Filename: "manual.pdf", ContentHash: "abc123"}
	if err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	hash, err := repo.GetHash(ctx, "manual.pdf")
	if err != nil {
		t.Fatalf("GetHash() error = %v", err)
	}
	if hash != "abc123" {
		t.Errorf("GetHash() = %q, want abc123", hash)
	}
}

func TestProcessedFileRepo_UpsertReplaces(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &ProcessedFile{Filename: "manual.pdf", ContentHash: "old"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Upsert(ctx, &ProcessedFile{Filename: "manual.pdf", ContentHash: "new"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	hash, err := repo.GetHash(ctx, "manual.pdf")
	if err != nil {
		t.Fatalf("GetHash() error = %v", err)
	}
	if hash != "new" {
		t.Errorf("GetHash() = %q, want new", hash)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestProcessedFileRepo_DeleteAll(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if err := repo.Upsert(ctx, &ProcessedFile{Filename: name, ContentHash: "h"}); err != nil {
			t.Fatalf("Upsert(%s) error = %v", name, err)
		}
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() after DeleteAll = %d, want 0", count)
	}
}
