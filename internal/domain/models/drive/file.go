package drive

import (
	"time"
)

type File struct {
	ID           string    `json:"id" db:"id"`
	OwnerID      string    `json:"-" db:"owner_id"`
	FolderID     *string   `json:"folder_id" db:"folder_id"` // NULL = root level
	Name         string    `json:"name" db:"name"`           // original upload name
	Title        string    `json:"title,omitempty" db:"title"`
	Subject      string    `json:"subject,omitempty" db:"subject"`
	Description  string    `json:"description,omitempty" db:"description"`
	MaterialType string    `json:"material_type" db:"material_type"`
	ContentType  string    `json:"content_type" db:"content_type"`
	Size         int64     `json:"size" db:"size"`
	StoragePath  string    `json:"-" db:"storage_path"` // blob store handle, never exposed
	StorageName  string    `json:"-" db:"storage_name"` // generated blob filename
	Downloads    int64     `json:"downloads" db:"downloads"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
