package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"filenest/internal/blob"
	"filenest/internal/config"
	driveSvc "filenest/internal/domain/services/drive"
	"filenest/internal/httputil"
	"filenest/internal/mediatype"
)

// FileHandler handles file HTTP requests. It owns multipart parsing:
// each file part is staged into the blob store as it is read, so the
// engine only ever sees blobs that already exist.
type FileHandler struct {
	fileService driveSvc.FileService
	blobs       blob.Store
	types       *mediatype.Registry
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService driveSvc.FileService, blobs blob.Store, types *mediatype.Registry, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		blobs:       blobs,
		types:       types,
		logger:      logger,
	}
}

// Upload accepts a multipart batch of files with shared metadata
// POST /api/drive/files
// Returns 201 on full success, 207 on partial success, 400 when every
// file was rejected.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)

	reader, err := r.MultipartReader()
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "expected multipart/form-data")
		return
	}

	req := driveSvc.UploadRequest{OwnerID: ownerID}

	// If parsing dies halfway the already-staged blobs must not leak
	discardStaged := func() {
		for _, staged := range req.Files {
			if err := h.blobs.Delete(staged.StoragePath); err != nil {
				h.logger.Error("staged blob cleanup failed", "path", staged.StoragePath, "error", err)
			}
		}
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			discardStaged()
			httputil.RespondError(w, http.StatusBadRequest, "malformed multipart body")
			return
		}

		if part.FileName() == "" {
			value, err := readFormValue(part)
			if err != nil {
				discardStaged()
				httputil.RespondError(w, http.StatusBadRequest, "malformed form field")
				return
			}
			switch part.FormName() {
			case "folder_id":
				folderID := value
				req.FolderID = &folderID
			case "title":
				req.Shared.Title = value
			case "subject":
				req.Shared.Subject = value
			case "description":
				req.Shared.Description = value
			case "material_type":
				req.Shared.MaterialType = value
			}
			continue
		}

		staged, err := h.blobs.Save(r.Context(), part, part.FileName())
		if err != nil {
			discardStaged()
			h.logger.Error("staging upload failed", "name", part.FileName(), "error", err)
			httputil.RespondError(w, http.StatusInternalServerError, "could not store file")
			return
		}
		req.Files = append(req.Files, driveSvc.StagedFile{
			Name:        part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        staged.Size,
			StoragePath: staged.Path,
			StorageName: staged.Name,
		})
	}

	result, err := h.fileService.Upload(r.Context(), &req)
	if err != nil {
		// batch-level rejection: the engine has already discarded blobs
		handleError(w, err)
		return
	}

	switch {
	case result.AllFailed():
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "no files were accepted", map[string]interface{}{
			"errors": result.Errors,
		})
	case result.Partial():
		httputil.RespondJSON(w, http.StatusMultiStatus, result)
	default:
		httputil.RespondJSON(w, http.StatusCreated, result)
	}
}

// Download streams a file's content with its original name and type
// GET /api/drive/files/{id}/download
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file id is required")
		return
	}

	result, err := h.fileService.Download(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}
	defer result.Content.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Name))
	w.Header().Set("Content-Type", result.ContentType)
	http.ServeContent(w, r, result.Name, result.ModTime, result.Content)
}

// MaterialTypes lists the known material categories
// GET /api/drive/material-types
func (h *FileHandler) MaterialTypes(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.types.Categories(),
	})
}

// readFormValue reads one non-file form field with a size cap
func readFormValue(part io.Reader) (string, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, io.LimitReader(part, config.MaxFieldBytes)); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}
