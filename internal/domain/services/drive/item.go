package drive

import "context"

// ItemKind selects folder or file semantics for operations that treat
// both uniformly.
type ItemKind string

const (
	KindFolder ItemKind = "folder"
	KindFile   ItemKind = "file"
)

// ItemService handles operations spanning folders and files
type ItemService interface {
	// Rename changes an item's name in place. Folder and file renames
	// share one algorithm; Kind picks the collection.
	Rename(ctx context.Context, req *RenameRequest) (*RenameResult, error)

	// Move reparents a batch of folders and files atomically. Any
	// validation failure leaves the tree untouched.
	Move(ctx context.Context, req *MoveRequest) error

	// Delete permanently removes the given files and folder subtrees.
	// Metadata removal is atomic; blob removal happens after commit.
	Delete(ctx context.Context, req *DeleteRequest) error
}

// RenameRequest represents a rename of a single folder or file
type RenameRequest struct {
	OwnerID string   `json:"-"`
	ID      string   `json:"-"`
	Name    string   `json:"name"`
	Kind    ItemKind `json:"kind"`
}

// RenameResult echoes the renamed item
type RenameResult struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind ItemKind `json:"kind"`
}

// MoveRequest represents an atomic batch move
type MoveRequest struct {
	OwnerID   string   `json:"-"`
	FileIDs   []string `json:"file_ids"`
	FolderIDs []string `json:"folder_ids"`
	FolderID  *string  `json:"folder_id"` // destination, null for root
}

// DeleteRequest represents a permanent batch delete
type DeleteRequest struct {
	OwnerID   string   `json:"-"`
	FileIDs   []string `json:"file_ids"`
	FolderIDs []string `json:"folder_ids"`
}
