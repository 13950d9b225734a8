package tracker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"docbrain/internal/storage"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}
	return New(storage.NewProcessedFileRepo(db))
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestHashBytes_MatchesHashFile(t *testing.T) {
	content := []byte("troubleshooting guide content")
	path := writeFile(t, t.TempDir(), "guide.pdf", content)

	fromFile, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	if fromFile != HashBytes(content) {
		t.Errorf("HashFile() = %q, HashBytes() = %q, want equal", fromFile, HashBytes(content))
	}
}

func TestIsProcessed_Lifecycle(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	dir := t.TempDir()

	path := writeFile(t, dir, "manual.pdf", []byte("version one"))

	processed, err := tr.IsProcessed(ctx, path)
	if err != nil {
		t.Fatalf("IsProcessed() error = %v", err)
	}
	if processed {
		t.Fatal("IsProcessed() = true for never-seen file, want false")
	}

	if err := tr.MarkProcessed(ctx, path); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}

	processed, err = tr.IsProcessed(ctx, path)
	if err != nil {
		t.Fatalf("IsProcessed() error = %v", err)
	}
	if !processed {
		t.Fatal("IsProcessed() = false after MarkProcessed, want true")
	}

	// A single changed byte must flip the file back to unprocessed.
	writeFile(t, dir, "manual.pdf", []byte("version two"))

	processed, err = tr.IsProcessed(ctx, path)
	if err != nil {
		t.Fatalf("IsProcessed() error = %v", err)
	}
	if processed {
		t.Fatal("IsProcessed() = true after content change, want false")
	}
}

func TestUnprocessed(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	dir := t.TempDir()

	bPath := writeFile(t, dir, "b.pdf", []byte("bravo"))
	aPath := writeFile(t, dir, "a.pdf", []byte("alpha"))
	writeFile(t, dir, "notes.txt", []byte("not a pdf"))

	got, err := tr.Unprocessed(ctx, dir)
	if err != nil {
		t.Fatalf("Unprocessed() error = %v", err)
	}
	if len(got) != 2 || got[0] != aPath || got[1] != bPath {
		t.Fatalf("Unprocessed() = %v, want [%s %s]", got, aPath, bPath)
	}

	if err := tr.MarkProcessed(ctx, aPath); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}

	got, err = tr.Unprocessed(ctx, dir)
	if err != nil {
		t.Fatalf("Unprocessed() error = %v", err)
	}
	if len(got) != 1 || got[0] != bPath {
		t.Fatalf("Unprocessed() after marking a.pdf = %v, want [%s]", got, bPath)
	}
}

func TestClear(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	dir := t.TempDir()

	path := writeFile(t, dir, "manual.pdf", []byte("content"))
	if err := tr.MarkProcessed(ctx, path); err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}

	if err := tr.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	processed, err := tr.IsProcessed(ctx, path)
	if err != nil {
		t.Fatalf("IsProcessed() error = %v", err)
	}
	if processed {
		t.Fatal("IsProcessed() = true after Clear, want false")
	}
}
