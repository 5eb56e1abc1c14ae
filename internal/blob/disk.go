package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiskStore stores blobs as flat files under a root directory
type DiskStore struct {
	root   string
	logger *slog.Logger
}

// NewDiskStore creates the root directory if needed and returns a store
func NewDiskStore(root string, logger *slog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &DiskStore{root: root, logger: logger}, nil
}

// Save streams r into a new blob. The content goes to a temp file first
// and is renamed into place, so a crash mid-write leaves no partial blob
// under a visible name.
func (s *DiskStore) Save(ctx context.Context, r io.Reader, originalName string) (*StagedBlob, error) {
	name := generateName(originalName)
	path := filepath.Join(s.root, name)

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp blob: %w", err)
	}

	size, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write blob: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("finalize blob: %w", err)
	}

	s.logger.Debug("blob stored", "name", name, "size", size)

	return &StagedBlob{Path: path, Name: name, Size: size}, nil
}

// Open returns a reader over a stored blob
func (s *DiskStore) Open(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

// Exists reports whether the blob is present
func (s *DiskStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Delete removes a blob. Deleting an absent blob is not an error.
func (s *DiskStore) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Orphans returns the paths of stored blobs not present in known.
// In-flight temp files are skipped.
func (s *DiskStore) Orphans(known map[string]struct{}) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("scan blob root: %w", err)
	}

	var orphans []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".upload-") {
			continue
		}
		path := filepath.Join(s.root, entry.Name())
		if _, ok := known[path]; !ok {
			orphans = append(orphans, path)
		}
	}

	return orphans, nil
}

// generateName builds a timestamp/random-id composite keeping the
// original extension. Names are never reused.
func generateName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
}
