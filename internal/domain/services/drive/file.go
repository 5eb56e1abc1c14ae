package drive

import (
	"context"
	"io"
	"time"

	"filenest/internal/domain/models/drive"
)

// FileService handles file upload, download and reconciliation logic
type FileService interface {
	// Upload processes a batch of already-staged blobs. Per-file failures
	// do not abort the batch; a batch-level rejection discards every
	// staged blob and returns an error.
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)

	// Download returns the blob content and headers for an owned file.
	// The caller must close the content.
	Download(ctx context.Context, ownerID, fileID string) (*DownloadResult, error)

	// Reconcile scans for blobs without a file record and file records
	// without a blob. Operator safety net, not part of any request path.
	Reconcile(ctx context.Context, removeOrphans bool) (*ReconcileReport, error)
}

// SharedMetadata applies to every file in an upload batch
type SharedMetadata struct {
	Title        string `json:"title"`
	Subject      string `json:"subject"`
	Description  string `json:"description"`
	MaterialType string `json:"material_type"`
}

// StagedFile is one upload whose bytes already sit in the blob store
type StagedFile struct {
	Name        string // original upload name
	ContentType string
	Size        int64
	StoragePath string
	StorageName string
}

// UploadRequest represents an upload batch
type UploadRequest struct {
	OwnerID  string
	FolderID *string // target folder, nil for root
	Shared   SharedMetadata
	Files    []StagedFile
}

// FileError records why one file of a batch was rejected
type FileError struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// UploadResult carries the created records and the per-file errors
type UploadResult struct {
	Files  []drive.File `json:"files"`
	Errors []FileError  `json:"errors,omitempty"`
}

// Partial reports whether a strict subset of the batch succeeded
func (r *UploadResult) Partial() bool {
	return len(r.Files) > 0 && len(r.Errors) > 0
}

// AllFailed reports whether no file of the batch was accepted
func (r *UploadResult) AllFailed() bool {
	return len(r.Files) == 0 && len(r.Errors) > 0
}

// DownloadResult is a readable blob plus the headers describing it
type DownloadResult struct {
	Content     io.ReadSeekCloser
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time
}

// ReconcileReport summarizes a reconciliation sweep
type ReconcileReport struct {
	OrphanBlobs  []string `json:"orphan_blobs"`  // blobs with no file record
	MissingBlobs []string `json:"missing_blobs"` // storage paths referenced but absent
	Removed      int      `json:"removed"`
}
