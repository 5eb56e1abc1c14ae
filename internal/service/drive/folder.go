package drive

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"filenest/internal/config"
	"filenest/internal/domain"
	models "filenest/internal/domain/models/drive"
	driveRepo "filenest/internal/domain/repositories/drive"
	driveSvc "filenest/internal/domain/services/drive"
)

var nameWithoutSlashes = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo driveRepo.FolderRepository
	fileRepo   driveRepo.FileRepository
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo driveRepo.FolderRepository,
	fileRepo driveRepo.FileRepository,
	logger *slog.Logger,
) driveSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		logger:     logger,
	}
}

// CreateFolder creates a new folder under the requested parent
func (s *folderService) CreateFolder(ctx context.Context, req *driveSvc.CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	parentID, err := resolveParent(ctx, s.folderRepo, req.OwnerID, req.FolderID)
	if err != nil {
		return nil, err
	}

	// Case-sensitive exact match against siblings
	sibling, err := s.folderRepo.GetByNameAndParent(ctx, req.OwnerID, req.Name, parentID)
	if err != nil {
		return nil, err
	}
	if sibling != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists in this location", req.Name),
			ResourceType: "folder",
			ResourceID:   sibling.ID,
		}
	}

	now := time.Now()
	folder := &models.Folder{
		OwnerID:   req.OwnerID,
		ParentID:  parentID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The unique sibling index backstops the check above: a concurrent
	// create with the same name loses the race as ErrConflict.
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// ListContents lists direct children plus the breadcrumb trail
func (s *folderService) ListContents(ctx context.Context, ownerID string, folderID *string) (*driveSvc.FolderContents, error) {
	targetID, err := normalizeFolderID(folderID)
	if err != nil {
		return nil, err
	}

	var target *models.Folder
	breadcrumbs := []models.Breadcrumb{{ID: "", Name: rootName}}

	if targetID != nil {
		chain, err := collectAncestors(ctx, s.folderRepo, ownerID, *targetID)
		if err != nil {
			return nil, err
		}
		target = &chain[0]

		// chain is bottom-up; breadcrumbs read top-down
		for i := len(chain) - 1; i >= 0; i-- {
			breadcrumbs = append(breadcrumbs, models.Breadcrumb{ID: chain[i].ID, Name: chain[i].Name})
		}
	}

	childFolders, err := s.folderRepo.ListChildren(ctx, targetID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}

	files, err := s.fileRepo.ListByFolder(ctx, targetID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return &driveSvc.FolderContents{
		Folder:      target,
		Breadcrumbs: breadcrumbs,
		Folders:     childFolders,
		Files:       files,
	}, nil
}

func (s *folderService) validateCreateRequest(req *driveSvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(nameWithoutSlashes).Error("folder name cannot contain slashes"),
		),
	)
}
