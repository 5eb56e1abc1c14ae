package drive

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"filenest/internal/config"
	"filenest/internal/domain"
	models "filenest/internal/domain/models/drive"
	driveRepo "filenest/internal/domain/repositories/drive"
)

// rootName labels the synthetic breadcrumb entry for the virtual root
const rootName = "Home"

// normalizeFolderID maps the root sentinel (nil or empty string) to nil
// and validates the id format otherwise.
func normalizeFolderID(folderID *string) (*string, error) {
	if folderID == nil || *folderID == "" {
		return nil, nil
	}
	if err := uuid.Validate(*folderID); err != nil {
		return nil, fmt.Errorf("%w: invalid folder id %q", domain.ErrValidation, *folderID)
	}
	return folderID, nil
}

// resolveParent normalizes a target folder reference and confirms the
// folder exists and belongs to the owner. Returns nil for the root.
func resolveParent(ctx context.Context, repo driveRepo.FolderRepository, ownerID string, folderID *string) (*string, error) {
	parentID, err := normalizeFolderID(folderID)
	if err != nil {
		return nil, err
	}
	if parentID == nil {
		return nil, nil
	}
	if _, err := repo.GetByID(ctx, *parentID, ownerID); err != nil {
		return nil, err
	}
	return parentID, nil
}

// collectAncestors walks parent references upward from the given folder
// and returns the chain including the folder itself, bottom-up. The walk
// is iterative with a visited set and a depth cap: acyclicity is an
// invariant of the tree, so hitting either guard means corrupted data.
func collectAncestors(ctx context.Context, repo driveRepo.FolderRepository, ownerID, folderID string) ([]models.Folder, error) {
	var chain []models.Folder
	visited := make(map[string]struct{})
	currentID := folderID

	for depth := 0; ; depth++ {
		if depth >= config.MaxTreeDepth {
			return nil, fmt.Errorf("folder %s: ancestor chain exceeds depth %d", folderID, config.MaxTreeDepth)
		}
		if _, seen := visited[currentID]; seen {
			return nil, fmt.Errorf("folder %s: cycle detected in ancestor chain", folderID)
		}
		visited[currentID] = struct{}{}

		folder, err := repo.GetByID(ctx, currentID, ownerID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *folder)

		if folder.ParentID == nil {
			return chain, nil
		}
		currentID = *folder.ParentID
	}
}

// isDescendant reports whether candidate lies inside the subtree rooted
// at ancestorID (or equals it), by walking candidate's ancestor chain.
func isDescendant(ctx context.Context, repo driveRepo.FolderRepository, ownerID, ancestorID, candidateID string) (bool, error) {
	if ancestorID == candidateID {
		return true, nil
	}
	chain, err := collectAncestors(ctx, repo, ownerID, candidateID)
	if err != nil {
		return false, err
	}
	for _, folder := range chain {
		if folder.ID == ancestorID {
			return true, nil
		}
	}
	return false, nil
}
