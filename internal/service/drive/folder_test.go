package drive

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"filenest/internal/config"
	"filenest/internal/domain"
	models "filenest/internal/domain/models/drive"
	driveSvc "filenest/internal/domain/services/drive"
)

func TestCreateFolderValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		request driveSvc.CreateFolderRequest
	}{
		{
			name:    "empty name",
			request: driveSvc.CreateFolderRequest{OwnerID: "user-1", Name: "   "},
		},
		{
			name:    "slash in name",
			request: driveSvc.CreateFolderRequest{OwnerID: "user-1", Name: "a/b"},
		},
		{
			name:    "malformed parent id",
			request: driveSvc.CreateFolderRequest{OwnerID: "user-1", Name: "notes", FolderID: ptr("not-a-uuid")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.folderSvc.CreateFolder(ctx, &tt.request)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateFolderTrimsName(t *testing.T) {
	env := newTestEnv(t)

	folder := env.mustCreateFolder(t, "user-1", "  Notes  ", nil)
	if folder.Name != "Notes" {
		t.Errorf("expected trimmed name %q, got %q", "Notes", folder.Name)
	}
	if folder.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestCreateFolderDuplicateSibling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	existing := env.mustCreateFolder(t, "user-1", "Notes", nil)

	_, err := env.folderSvc.CreateFolder(ctx, &driveSvc.CreateFolderRequest{
		OwnerID: "user-1",
		Name:    "Notes",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *domain.ConflictError, got %T", err)
	}
	if conflict.ResourceID != existing.ID {
		t.Errorf("conflict points at %q, want %q", conflict.ResourceID, existing.ID)
	}
	if conflict.ResourceType != "folder" {
		t.Errorf("conflict resource type = %q, want folder", conflict.ResourceType)
	}
}

func TestCreateFolderSameNameDifferentParents(t *testing.T) {
	env := newTestEnv(t)

	parent := env.mustCreateFolder(t, "user-1", "Parent", nil)

	// Same name is fine at root and inside the parent simultaneously
	env.mustCreateFolder(t, "user-1", "Notes", nil)
	env.mustCreateFolder(t, "user-1", "Notes", &parent.ID)
}

func TestCreateFolderSameNameDifferentOwners(t *testing.T) {
	env := newTestEnv(t)

	env.mustCreateFolder(t, "user-1", "Notes", nil)
	env.mustCreateFolder(t, "user-2", "Notes", nil)
}

func TestCreateFolderForeignParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := env.mustCreateFolder(t, "user-2", "Private", nil)

	_, err := env.folderSvc.CreateFolder(ctx, &driveSvc.CreateFolderRequest{
		OwnerID:  "user-1",
		Name:     "Sneaky",
		FolderID: &other.ID,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign parent, got %v", err)
	}
}

func TestListContentsRoot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustCreateFolder(t, "user-1", "Beta", nil)
	env.mustCreateFolder(t, "user-1", "Alpha", nil)
	env.mustCreateFolder(t, "user-2", "Elsewhere", nil)
	env.mustUpload(t, "user-1", nil, "readme.txt")

	contents, err := env.folderSvc.ListContents(ctx, "user-1", nil)
	if err != nil {
		t.Fatalf("ListContents: %v", err)
	}

	if contents.Folder != nil {
		t.Errorf("root listing should have no target folder, got %+v", contents.Folder)
	}
	if len(contents.Breadcrumbs) != 1 || contents.Breadcrumbs[0].Name != "Home" || contents.Breadcrumbs[0].ID != "" {
		t.Errorf("root breadcrumbs = %+v, want only the Home entry", contents.Breadcrumbs)
	}
	if len(contents.Folders) != 2 || contents.Folders[0].Name != "Alpha" || contents.Folders[1].Name != "Beta" {
		t.Errorf("folders = %+v, want [Alpha Beta]", contents.Folders)
	}
	if len(contents.Files) != 1 || contents.Files[0].Name != "readme.txt" {
		t.Errorf("files = %+v, want [readme.txt]", contents.Files)
	}
}

func TestListContentsBreadcrumbChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mustCreateFolder(t, "user-1", "a", nil)
	b := env.mustCreateFolder(t, "user-1", "b", &a.ID)
	c := env.mustCreateFolder(t, "user-1", "c", &b.ID)

	contents, err := env.folderSvc.ListContents(ctx, "user-1", &c.ID)
	if err != nil {
		t.Fatalf("ListContents: %v", err)
	}

	if contents.Folder == nil || contents.Folder.ID != c.ID {
		t.Fatalf("target folder = %+v, want %s", contents.Folder, c.ID)
	}

	want := []models.Breadcrumb{
		{ID: "", Name: "Home"},
		{ID: a.ID, Name: "a"},
		{ID: b.ID, Name: "b"},
		{ID: c.ID, Name: "c"},
	}
	if len(contents.Breadcrumbs) != len(want) {
		t.Fatalf("breadcrumbs = %+v, want %+v", contents.Breadcrumbs, want)
	}
	for i, crumb := range want {
		if contents.Breadcrumbs[i] != crumb {
			t.Errorf("breadcrumb[%d] = %+v, want %+v", i, contents.Breadcrumbs[i], crumb)
		}
	}
}

func TestListContentsUnknownFolder(t *testing.T) {
	env := newTestEnv(t)

	id := uuid.NewString()
	_, err := env.folderSvc.ListContents(context.Background(), "user-1", &id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListContentsDepthCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Build a chain deeper than the walk allows, bypassing the service
	var parent *string
	var leaf string
	for i := 0; i < config.MaxTreeDepth+1; i++ {
		folder := &models.Folder{
			OwnerID:  "user-1",
			ParentID: parent,
			Name:     fmt.Sprintf("level-%d", i),
		}
		if err := env.folders.Create(ctx, folder); err != nil {
			t.Fatalf("Create level %d: %v", i, err)
		}
		parent = &folder.ID
		leaf = folder.ID
	}

	if _, err := env.folderSvc.ListContents(ctx, "user-1", &leaf); err == nil {
		t.Error("expected depth cap error, got nil")
	}
}
