package drive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"filenest/internal/blob"
	"filenest/internal/config"
	"filenest/internal/domain"
	models "filenest/internal/domain/models/drive"
	"filenest/internal/domain/repositories"
	driveRepo "filenest/internal/domain/repositories/drive"
	driveSvc "filenest/internal/domain/services/drive"
)

type itemService struct {
	folderRepo driveRepo.FolderRepository
	fileRepo   driveRepo.FileRepository
	blobs      blob.Store
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewItemService creates a new item service
func NewItemService(
	folderRepo driveRepo.FolderRepository,
	fileRepo driveRepo.FileRepository,
	blobs blob.Store,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) driveSvc.ItemService {
	return &itemService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobs:      blobs,
		txManager:  txManager,
		logger:     logger,
	}
}

// treeItem is the generic view renaming operates on. Folders and files
// share the algorithm; only loading and persisting differ per kind.
type treeItem struct {
	id       string
	parent   *string
	sibling  func(ctx context.Context, name string) (string, error) // conflicting id or ""
	saveName func(ctx context.Context, name string) error
}

// Rename changes a folder's or file's name in place
func (s *itemService) Rename(ctx context.Context, req *driveSvc.RenameRequest) (*driveSvc.RenameResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if len(req.Name) > config.MaxFileNameLength {
		return nil, fmt.Errorf("%w: name too long", domain.ErrValidation)
	}
	if strings.Contains(req.Name, "/") {
		return nil, fmt.Errorf("%w: name cannot contain slashes", domain.ErrValidation)
	}
	if err := uuid.Validate(req.ID); err != nil {
		return nil, fmt.Errorf("%w: invalid item id %q", domain.ErrValidation, req.ID)
	}

	item, err := s.loadItem(ctx, req.OwnerID, req.ID, req.Kind)
	if err != nil {
		return nil, err
	}

	conflictID, err := item.sibling(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if conflictID != "" && conflictID != item.id {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("an item named %q already exists in this location", req.Name),
			ResourceType: string(req.Kind),
			ResourceID:   conflictID,
		}
	}

	if err := item.saveName(ctx, req.Name); err != nil {
		return nil, err
	}

	s.logger.Info("item renamed",
		"id", req.ID,
		"kind", req.Kind,
		"name", req.Name,
		"owner_id", req.OwnerID,
	)

	return &driveSvc.RenameResult{ID: req.ID, Name: req.Name, Kind: req.Kind}, nil
}

// loadItem builds the generic view for one entity kind
func (s *itemService) loadItem(ctx context.Context, ownerID, id string, kind driveSvc.ItemKind) (*treeItem, error) {
	switch kind {
	case driveSvc.KindFolder:
		folder, err := s.folderRepo.GetByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		return &treeItem{
			id:     folder.ID,
			parent: folder.ParentID,
			sibling: func(ctx context.Context, name string) (string, error) {
				existing, err := s.folderRepo.GetByNameAndParent(ctx, ownerID, name, folder.ParentID)
				if err != nil || existing == nil {
					return "", err
				}
				return existing.ID, nil
			},
			saveName: func(ctx context.Context, name string) error {
				folder.Name = name
				folder.UpdatedAt = time.Now()
				return s.folderRepo.Update(ctx, folder)
			},
		}, nil
	case driveSvc.KindFile:
		file, err := s.fileRepo.GetByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		return &treeItem{
			id:     file.ID,
			parent: file.FolderID,
			sibling: func(ctx context.Context, name string) (string, error) {
				existing, err := s.fileRepo.GetByNameAndFolder(ctx, ownerID, name, file.FolderID)
				if err != nil || existing == nil {
					return "", err
				}
				return existing.ID, nil
			},
			saveName: func(ctx context.Context, name string) error {
				file.Name = name
				file.UpdatedAt = time.Now()
				return s.fileRepo.Update(ctx, file)
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown item kind %q", domain.ErrValidation, kind)
	}
}

// Move reparents a batch of folders and files. The whole batch is
// validated and applied inside one transaction: any failure leaves the
// tree untouched.
func (s *itemService) Move(ctx context.Context, req *driveSvc.MoveRequest) error {
	if len(req.FileIDs) == 0 && len(req.FolderIDs) == 0 {
		return fmt.Errorf("%w: nothing to move", domain.ErrValidation)
	}
	if err := validateIDs(req.FolderIDs); err != nil {
		return err
	}
	if err := validateIDs(req.FileIDs); err != nil {
		return err
	}

	// Repeated ids would make the bulk statements' row counts disagree
	// with the id count, so collapse them up front.
	folderIDs := dedupeIDs(req.FolderIDs)
	fileIDs := dedupeIDs(req.FileIDs)

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		destID, err := resolveParent(ctx, s.folderRepo, req.OwnerID, req.FolderID)
		if err != nil {
			return err
		}

		for _, folderID := range folderIDs {
			folder, err := s.folderRepo.GetByID(ctx, folderID, req.OwnerID)
			if err != nil {
				return err
			}

			// A folder cannot become its own child, nor move into its
			// own subtree: either would create a cycle.
			if destID != nil {
				inside, err := isDescendant(ctx, s.folderRepo, req.OwnerID, folder.ID, *destID)
				if err != nil {
					return err
				}
				if inside {
					return fmt.Errorf("%w: cannot move folder %q into one of its descendants", domain.ErrValidation, folder.Name)
				}
			}

			existing, err := s.folderRepo.GetByNameAndParent(ctx, req.OwnerID, folder.Name, destID)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != folder.ID {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("a folder named %q already exists in the destination", folder.Name),
					ResourceType: "folder",
					ResourceID:   existing.ID,
				}
			}
		}

		for _, fileID := range fileIDs {
			file, err := s.fileRepo.GetByID(ctx, fileID, req.OwnerID)
			if err != nil {
				return err
			}

			existing, err := s.fileRepo.GetByNameAndFolder(ctx, req.OwnerID, file.Name, destID)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != file.ID {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("a file named %q already exists in the destination", file.Name),
					ResourceType: "file",
					ResourceID:   existing.ID,
				}
			}
		}

		if err := s.folderRepo.SetParent(ctx, req.OwnerID, folderIDs, destID); err != nil {
			return err
		}
		return s.fileRepo.SetFolder(ctx, req.OwnerID, fileIDs, destID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("items moved",
		"owner_id", req.OwnerID,
		"folders", len(req.FolderIDs),
		"files", len(req.FileIDs),
		"destination", req.FolderID,
	)

	return nil
}

// Delete permanently removes the given files and folder subtrees.
// Metadata removal is one transaction; blob removal runs after commit,
// so a crash in between leaks blobs rather than corrupting the tree.
// The reconciliation sweep picks such leaks up.
func (s *itemService) Delete(ctx context.Context, req *driveSvc.DeleteRequest) error {
	if len(req.FileIDs) == 0 && len(req.FolderIDs) == 0 {
		return fmt.Errorf("%w: nothing to delete", domain.ErrValidation)
	}
	if err := validateIDs(req.FolderIDs); err != nil {
		return err
	}
	if err := validateIDs(req.FileIDs); err != nil {
		return err
	}

	var blobPaths []string

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		// A selection may overlap itself: a folder alongside its own
		// descendant, a file also living inside a selected subtree, or
		// plain repeated ids. Each item is collected once; the bulk
		// deletes compare row counts against the id count and would
		// abort on duplicates.
		var fileIDs []string
		seenFiles := make(map[string]struct{})
		collectFile := func(file *models.File) {
			if _, seen := seenFiles[file.ID]; seen {
				return
			}
			seenFiles[file.ID] = struct{}{}
			fileIDs = append(fileIDs, file.ID)
			blobPaths = append(blobPaths, file.StoragePath)
		}

		for _, fileID := range req.FileIDs {
			file, err := s.fileRepo.GetByID(ctx, fileID, req.OwnerID)
			if err != nil {
				return err
			}
			collectFile(file)
		}

		var folderIDs []string
		visited := make(map[string]struct{})
		for _, folderID := range req.FolderIDs {
			if _, err := s.folderRepo.GetByID(ctx, folderID, req.OwnerID); err != nil {
				return err
			}

			subFolders, subFiles, err := s.collectSubtree(ctx, req.OwnerID, folderID, visited)
			if err != nil {
				return err
			}
			folderIDs = append(folderIDs, subFolders...)
			for i := range subFiles {
				collectFile(&subFiles[i])
			}
		}

		if err := s.fileRepo.DeleteMany(ctx, req.OwnerID, fileIDs); err != nil {
			return err
		}
		return s.folderRepo.DeleteMany(ctx, req.OwnerID, folderIDs)
	})
	if err != nil {
		return err
	}

	for _, path := range blobPaths {
		if err := s.blobs.Delete(path); err != nil {
			s.logger.Error("blob removal after delete failed", "path", path, "error", err)
		}
	}

	s.logger.Info("items deleted",
		"owner_id", req.OwnerID,
		"folders", len(req.FolderIDs),
		"files", len(req.FileIDs),
		"blobs", len(blobPaths),
	)

	return nil
}

// collectSubtree gathers every folder id and file record reachable from
// rootID, including rootID itself. Iterative walk with an explicit
// stack; folders already in visited are skipped, which both bounds the
// walk on corrupted (cyclic) data and lets one visited set span a whole
// batch of possibly overlapping roots. The deletes run as single
// statements, so child-before-parent ordering is left to the database.
func (s *itemService) collectSubtree(ctx context.Context, ownerID, rootID string, visited map[string]struct{}) ([]string, []models.File, error) {
	var folderIDs []string
	var files []models.File
	stack := []string{rootID}

	for len(stack) > 0 {
		currentID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[currentID]; seen {
			continue
		}
		visited[currentID] = struct{}{}
		folderIDs = append(folderIDs, currentID)

		inFolder, err := s.fileRepo.ListByFolder(ctx, &currentID, ownerID)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, inFolder...)

		children, err := s.folderRepo.ListChildren(ctx, &currentID, ownerID)
		if err != nil {
			return nil, nil, err
		}
		for _, child := range children {
			stack = append(stack, child.ID)
		}
	}

	return folderIDs, files, nil
}

// dedupeIDs drops repeated ids, preserving first-occurrence order
func dedupeIDs(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// validateIDs rejects malformed ids before any state is touched
func validateIDs(ids []string) error {
	for _, id := range ids {
		if err := uuid.Validate(id); err != nil {
			return fmt.Errorf("%w: invalid item id %q", domain.ErrValidation, id)
		}
	}
	return nil
}
