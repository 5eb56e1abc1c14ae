package blob

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return store
}

func TestSaveOpenDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	staged, err := store.Save(ctx, strings.NewReader("hello blob"), "report.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if staged.Size != int64(len("hello blob")) {
		t.Errorf("size = %d, want %d", staged.Size, len("hello blob"))
	}
	if !strings.HasSuffix(staged.Name, ".pdf") {
		t.Errorf("generated name %q should keep the original extension", staged.Name)
	}
	if !store.Exists(staged.Path) {
		t.Fatal("saved blob does not exist")
	}

	r, err := store.Open(staged.Path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello blob" {
		t.Errorf("content = %q", data)
	}

	if err := store.Delete(staged.Path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Exists(staged.Path) {
		t.Error("blob still exists after delete")
	}

	// Deleting again is not an error
	if err := store.Delete(staged.Path); err != nil {
		t.Errorf("Delete of absent blob: %v", err)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, strings.NewReader("one"), "same.txt")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := store.Save(ctx, strings.NewReader("two"), "same.txt")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.Path == second.Path {
		t.Errorf("two saves of %q share the path %q", "same.txt", first.Path)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	if _, err := store.Save(context.Background(), strings.NewReader("data"), "a.txt"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".upload-") {
			t.Errorf("temp file %q left behind", entry.Name())
		}
	}
}

func TestOrphans(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	known, err := store.Save(ctx, strings.NewReader("known"), "known.txt")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	orphan, err := store.Save(ctx, strings.NewReader("orphan"), "orphan.txt")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// In-flight temp files must not show up as orphans
	if err := os.WriteFile(filepath.Join(dir, ".upload-123"), []byte("partial"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	orphans, err := store.Orphans(map[string]struct{}{known.Path: {}})
	if err != nil {
		t.Fatalf("Orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0] != orphan.Path {
		t.Errorf("orphans = %v, want [%s]", orphans, orphan.Path)
	}
}
