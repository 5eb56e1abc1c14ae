package drive

import (
	"context"

	"filenest/internal/domain/models/drive"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*drive.Folder, error)

	// ListContents lists the direct children of a folder (nil = root)
	// together with the breadcrumb trail from the virtual root.
	ListContents(ctx context.Context, ownerID string, folderID *string) (*FolderContents, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	OwnerID  string  `json:"-"`
	Name     string  `json:"name"`
	FolderID *string `json:"folder_id,omitempty"` // parent folder ID (null for root)
}

// FolderContents represents a folder with its children and breadcrumbs
type FolderContents struct {
	Folder      *drive.Folder      `json:"folder,omitempty"` // null for root
	Breadcrumbs []drive.Breadcrumb `json:"breadcrumbs"`
	Folders     []drive.Folder     `json:"folders"`
	Files       []drive.File       `json:"files"`
}
