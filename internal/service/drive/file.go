package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"filenest/internal/blob"
	"filenest/internal/domain"
	models "filenest/internal/domain/models/drive"
	driveRepo "filenest/internal/domain/repositories/drive"
	driveSvc "filenest/internal/domain/services/drive"
	"filenest/internal/mediatype"
)

type fileService struct {
	fileRepo   driveRepo.FileRepository
	folderRepo driveRepo.FolderRepository
	blobs      blob.Store
	types      *mediatype.Registry
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo driveRepo.FileRepository,
	folderRepo driveRepo.FolderRepository,
	blobs blob.Store,
	types *mediatype.Registry,
	logger *slog.Logger,
) driveSvc.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		blobs:      blobs,
		types:      types,
		logger:     logger,
	}
}

// Upload processes a batch of staged blobs. Batch-level rejection
// (bad or foreign parent) discards every staged blob; per-file failures
// discard that file's blob and the batch continues.
func (s *fileService) Upload(ctx context.Context, req *driveSvc.UploadRequest) (*driveSvc.UploadResult, error) {
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: no files in upload", domain.ErrValidation)
	}

	folderID, err := resolveParent(ctx, s.folderRepo, req.OwnerID, req.FolderID)
	if err != nil {
		s.discardStaged(req.Files)
		return nil, err
	}

	result := &driveSvc.UploadResult{}
	for _, staged := range req.Files {
		file, err := s.acceptFile(ctx, req, folderID, staged)
		if err != nil {
			s.discardBlob(staged.StoragePath)
			result.Errors = append(result.Errors, driveSvc.FileError{
				Name:   staged.Name,
				Reason: reasonFor(err),
			})
			s.logger.Warn("upload rejected file",
				"name", staged.Name,
				"owner_id", req.OwnerID,
				"error", err,
			)
			continue
		}
		result.Files = append(result.Files, *file)
	}

	s.logger.Info("upload batch processed",
		"owner_id", req.OwnerID,
		"accepted", len(result.Files),
		"rejected", len(result.Errors),
	)

	return result, nil
}

// acceptFile validates one staged upload and persists its record
func (s *fileService) acceptFile(ctx context.Context, req *driveSvc.UploadRequest, folderID *string, staged driveSvc.StagedFile) (*models.File, error) {
	name := strings.TrimSpace(staged.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty file name", domain.ErrValidation)
	}

	sibling, err := s.fileRepo.GetByNameAndFolder(ctx, req.OwnerID, name, folderID)
	if err != nil {
		return nil, err
	}
	if sibling != nil {
		return nil, fmt.Errorf("file '%s': %w", name, domain.ErrConflict)
	}

	materialType := req.Shared.MaterialType
	if !s.types.Valid(materialType) || materialType == "" {
		materialType = s.types.Classify(staged.ContentType, name)
	}

	now := time.Now()
	file := &models.File{
		OwnerID:      req.OwnerID,
		FolderID:     folderID,
		Name:         name,
		Title:        strings.TrimSpace(req.Shared.Title),
		Subject:      strings.TrimSpace(req.Shared.Subject),
		Description:  strings.TrimSpace(req.Shared.Description),
		MaterialType: materialType,
		ContentType:  staged.ContentType,
		Size:         staged.Size,
		StoragePath:  staged.StoragePath,
		StorageName:  staged.StorageName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	return file, nil
}

// Download returns the blob content for an owned file. The download
// counter increment is best-effort: a read is never blocked by a
// failed write, at the cost of an occasional uncounted download.
func (s *fileService) Download(ctx context.Context, ownerID, fileID string) (*driveSvc.DownloadResult, error) {
	if err := uuid.Validate(fileID); err != nil {
		return nil, fmt.Errorf("%w: invalid file id %q", domain.ErrValidation, fileID)
	}

	file, err := s.fileRepo.GetByID(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}

	if !s.blobs.Exists(file.StoragePath) {
		s.logger.Error("file record has no blob",
			"file_id", file.ID,
			"storage_path", file.StoragePath,
		)
		return nil, fmt.Errorf("file %s not found on server: %w", file.Name, domain.ErrNotFound)
	}

	if err := s.fileRepo.IncrementDownloads(ctx, fileID, ownerID); err != nil {
		s.logger.Warn("download counter increment failed", "file_id", fileID, "error", err)
	}

	content, err := s.blobs.Open(file.StoragePath)
	if err != nil {
		return nil, err
	}

	return &driveSvc.DownloadResult{
		Content:     content,
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        file.Size,
		ModTime:     file.UpdatedAt,
	}, nil
}

// Reconcile scans for blob/metadata disagreements: blobs no record
// references, and records whose blob is gone. The mutating operations
// keep the two in agreement except for the documented window between a
// delete commit and its blob removal; this sweep is the safety net.
func (s *fileService) Reconcile(ctx context.Context, removeOrphans bool) (*driveSvc.ReconcileReport, error) {
	paths, err := s.fileRepo.AllStoragePaths(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(paths))
	report := &driveSvc.ReconcileReport{}
	for _, path := range paths {
		known[path] = struct{}{}
		if !s.blobs.Exists(path) {
			report.MissingBlobs = append(report.MissingBlobs, path)
		}
	}

	orphans, err := s.blobs.Orphans(known)
	if err != nil {
		return nil, err
	}
	report.OrphanBlobs = orphans

	if removeOrphans {
		for _, path := range orphans {
			if err := s.blobs.Delete(path); err != nil {
				s.logger.Error("orphan blob removal failed", "path", path, "error", err)
				continue
			}
			report.Removed++
		}
	}

	s.logger.Info("reconciliation sweep finished",
		"orphan_blobs", len(report.OrphanBlobs),
		"missing_blobs", len(report.MissingBlobs),
		"removed", report.Removed,
	)

	return report, nil
}

// discardStaged removes every staged blob of a rejected batch
func (s *fileService) discardStaged(files []driveSvc.StagedFile) {
	for _, staged := range files {
		s.discardBlob(staged.StoragePath)
	}
}

// discardBlob is compensating cleanup for a blob whose metadata write
// failed or was rejected; failure to clean up is logged, not escalated.
func (s *fileService) discardBlob(path string) {
	if err := s.blobs.Delete(path); err != nil {
		s.logger.Error("staged blob cleanup failed", "path", path, "error", err)
	}
}

// reasonFor renders a per-file error for the upload response
func reasonFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "a file with this name already exists in this location"
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	default:
		return "could not save file"
	}
}
