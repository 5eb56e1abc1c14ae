// Package blob owns the raw bytes of uploaded files. Blobs are written
// once under a generated collision-resistant name and never mutated in
// place, only deleted.
package blob

import (
	"context"
	"io"
)

// StagedBlob describes a blob that has been written to the store
type StagedBlob struct {
	Path string // store handle, pass back to Open/Exists/Delete
	Name string // generated filename
	Size int64
}

// Store persists and serves blob content
type Store interface {
	// Save streams r into a new blob named after the original file's
	// extension. The blob is complete when Save returns; a failed Save
	// leaves nothing behind.
	Save(ctx context.Context, r io.Reader, originalName string) (*StagedBlob, error)

	// Open returns a reader over a stored blob
	Open(path string) (io.ReadSeekCloser, error)

	// Exists reports whether the blob is present
	Exists(path string) bool

	// Delete removes a blob. Deleting an absent blob is not an error.
	Delete(path string) error

	// Orphans returns the paths of blobs not present in known.
	// Used by the reconciliation sweep only.
	Orphans(known map[string]struct{}) ([]string, error)
}
