package drive

import (
	"context"

	"filenest/internal/domain/models/drive"
)

// FileRepository defines data access operations for file records.
// Blob content lives in the blob store; these rows only reference it.
type FileRepository interface {
	// Create inserts a new file record
	Create(ctx context.Context, file *drive.File) error

	// GetByID retrieves an owned file by ID
	GetByID(ctx context.Context, id, ownerID string) (*drive.File, error)

	// GetByNameAndFolder finds a sibling file by exact name, nil if absent
	GetByNameAndFolder(ctx context.Context, ownerID, name string, folderID *string) (*drive.File, error)

	// Update persists name and folder changes
	Update(ctx context.Context, file *drive.File) error

	// SetFolder moves the given files into folderID in one statement
	SetFolder(ctx context.Context, ownerID string, ids []string, folderID *string) error

	// DeleteMany removes the given file records permanently
	DeleteMany(ctx context.Context, ownerID string, ids []string) error

	// ListByFolder lists files directly inside a folder sorted by name
	ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]drive.File, error)

	// IncrementDownloads bumps the download counter by one
	IncrementDownloads(ctx context.Context, id, ownerID string) error

	// AllStoragePaths returns the storage path of every file record,
	// across all owners. Used by the reconciliation sweep only.
	AllStoragePaths(ctx context.Context) ([]string, error)
}
