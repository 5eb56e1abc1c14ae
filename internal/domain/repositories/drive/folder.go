package drive

import (
	"context"

	"filenest/internal/domain/models/drive"
)

// FolderRepository defines data access operations for folders.
// Every operation is scoped to an owner id; a folder belonging to
// another user is indistinguishable from one that does not exist.
type FolderRepository interface {
	// Create inserts a new folder
	Create(ctx context.Context, folder *drive.Folder) error

	// GetByID retrieves an owned folder by ID
	GetByID(ctx context.Context, id, ownerID string) (*drive.Folder, error)

	// GetByNameAndParent finds a sibling folder by exact name, nil if absent
	GetByNameAndParent(ctx context.Context, ownerID, name string, parentID *string) (*drive.Folder, error)

	// Update persists name and parent changes
	Update(ctx context.Context, folder *drive.Folder) error

	// SetParent reparents the given folders in one statement
	SetParent(ctx context.Context, ownerID string, ids []string, parentID *string) error

	// DeleteMany removes the given folders permanently
	DeleteMany(ctx context.Context, ownerID string, ids []string) error

	// ListChildren lists immediate child folders sorted by name
	ListChildren(ctx context.Context, parentID *string, ownerID string) ([]drive.Folder, error)
}
