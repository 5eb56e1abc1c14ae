package drive

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"filenest/internal/domain"
	models "filenest/internal/domain/models/drive"
	"filenest/internal/domain/repositories"
)

// In-memory repositories mirroring the postgres semantics: owner
// scoping, ErrNotFound on misses, ErrConflict on sibling collisions.

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if f.OwnerID == folder.OwnerID && f.Name == folder.Name && samePtr(f.ParentID, folder.ParentID) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
	}
	folder.ID = uuid.NewString()
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) GetByNameAndParent(ctx context.Context, ownerID, name string, parentID *string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if f.OwnerID == ownerID && f.Name == name && samePtr(f.ParentID, parentID) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[folder.ID]
	if !ok || f.OwnerID != folder.OwnerID {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) SetParent(ctx context.Context, ownerID string, ids []string, parentID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	affected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		f, ok := r.folders[id]
		if !ok || f.OwnerID != ownerID {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		f.ParentID = parentID
		affected[id] = struct{}{}
	}
	// Mirrors the row-count check of the bulk UPDATE: repeated ids
	// touch one row, so the counts disagree.
	if len(affected) != len(ids) {
		return fmt.Errorf("move folders: %d of %d found: %w", len(affected), len(ids), domain.ErrNotFound)
	}
	return nil
}

func (r *fakeFolderRepo) DeleteMany(ctx context.Context, ownerID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		f, ok := r.folders[id]
		if !ok || f.OwnerID != ownerID {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		delete(r.folders, f.ID)
	}
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID *string, ownerID string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID && samePtr(f.ParentID, parentID) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeFileRepo struct {
	mu        sync.Mutex
	files     map[string]*models.File
	createErr error // when set, Create fails with this error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*models.File)}
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, f := range r.files {
		if f.OwnerID == file.OwnerID && f.Name == file.Name && samePtr(f.FolderID, file.FolderID) {
			return fmt.Errorf("file '%s': %w", file.Name, domain.ErrConflict)
		}
	}
	file.ID = uuid.NewString()
	cp := *file
	r.files[file.ID] = &cp
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id, ownerID string) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFileRepo) GetByNameAndFolder(ctx context.Context, ownerID, name string, folderID *string) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.OwnerID == ownerID && f.Name == name && samePtr(f.FolderID, folderID) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFileRepo) Update(ctx context.Context, file *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[file.ID]
	if !ok || f.OwnerID != file.OwnerID {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	cp := *file
	r.files[file.ID] = &cp
	return nil
}

func (r *fakeFileRepo) SetFolder(ctx context.Context, ownerID string, ids []string, folderID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	affected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		f, ok := r.files[id]
		if !ok || f.OwnerID != ownerID {
			return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		f.FolderID = folderID
		affected[id] = struct{}{}
	}
	if len(affected) != len(ids) {
		return fmt.Errorf("move files: %d of %d found: %w", len(affected), len(ids), domain.ErrNotFound)
	}
	return nil
}

func (r *fakeFileRepo) DeleteMany(ctx context.Context, ownerID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		f, ok := r.files[id]
		if !ok || f.OwnerID != ownerID {
			return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		delete(r.files, f.ID)
	}
	return nil
}

func (r *fakeFileRepo) ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.File
	for _, f := range r.files {
		if f.OwnerID == ownerID && samePtr(f.FolderID, folderID) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFileRepo) IncrementDownloads(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || f.OwnerID != ownerID {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	f.Downloads++
	return nil
}

func (r *fakeFileRepo) AllStoragePaths(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var paths []string
	for _, f := range r.files {
		paths = append(paths, f.StoragePath)
	}
	return paths, nil
}

// fakeTxManager runs the function directly; the fakes have no
// transactional visibility to emulate.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
