package handler

import (
	"log/slog"
	"net/http"

	driveSvc "filenest/internal/domain/services/drive"
	"filenest/internal/httputil"
)

// ItemHandler handles operations spanning folders and files
type ItemHandler struct {
	itemService driveSvc.ItemService
	fileService driveSvc.FileService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService driveSvc.ItemService, fileService driveSvc.FileService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		fileService: fileService,
		logger:      logger,
	}
}

// Rename changes a folder's or file's name
// PATCH /api/drive/items/{id}/name
func (h *ItemHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item id is required")
		return
	}

	var req driveSvc.RenameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerID = ownerID
	req.ID = id

	result, err := h.itemService.Rename(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Move reparents a batch of folders and files atomically
// POST /api/drive/items/move
func (h *ItemHandler) Move(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req driveSvc.MoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerID = ownerID

	if err := h.itemService.Move(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"moved_folders": len(req.FolderIDs),
		"moved_files":   len(req.FileIDs),
	})
}

// Delete permanently removes files and folder subtrees
// POST /api/drive/items/delete
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req driveSvc.DeleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerID = ownerID

	if err := h.itemService.Delete(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted_folders": len(req.FolderIDs),
		"deleted_files":   len(req.FileIDs),
	})
}

// Reconcile runs the blob/metadata consistency sweep
// POST /api/drive/reconcile?remove=true
func (h *ItemHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	remove := r.URL.Query().Get("remove") == "true"
	report, err := h.fileService.Reconcile(r.Context(), remove)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}
