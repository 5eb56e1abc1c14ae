package drive

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"filenest/internal/blob"
	models "filenest/internal/domain/models/drive"
	driveSvc "filenest/internal/domain/services/drive"
	"filenest/internal/mediatype"
)

// testEnv wires the services against in-memory repositories and a real
// disk blob store under a per-test temp directory.
type testEnv struct {
	folders *fakeFolderRepo
	files   *fakeFileRepo
	blobs   *blob.DiskStore

	folderSvc driveSvc.FolderService
	fileSvc   driveSvc.FileService
	itemSvc   driveSvc.ItemService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	blobs, err := blob.NewDiskStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	types, err := mediatype.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	folders := newFakeFolderRepo()
	files := newFakeFileRepo()

	return &testEnv{
		folders:   folders,
		files:     files,
		blobs:     blobs,
		folderSvc: NewFolderService(folders, files, logger),
		fileSvc:   NewFileService(files, folders, blobs, types, logger),
		itemSvc:   NewItemService(folders, files, blobs, fakeTxManager{}, logger),
	}
}

func (e *testEnv) mustCreateFolder(t *testing.T, ownerID, name string, parentID *string) *models.Folder {
	t.Helper()
	folder, err := e.folderSvc.CreateFolder(context.Background(), &driveSvc.CreateFolderRequest{
		OwnerID:  ownerID,
		Name:     name,
		FolderID: parentID,
	})
	if err != nil {
		t.Fatalf("CreateFolder(%q): %v", name, err)
	}
	return folder
}

// stageBlob writes content into the blob store the way the upload
// handler does before handing the batch to the engine.
func (e *testEnv) stageBlob(t *testing.T, name, contentType, content string) driveSvc.StagedFile {
	t.Helper()
	staged, err := e.blobs.Save(context.Background(), strings.NewReader(content), name)
	if err != nil {
		t.Fatalf("Save(%q): %v", name, err)
	}
	return driveSvc.StagedFile{
		Name:        name,
		ContentType: contentType,
		Size:        staged.Size,
		StoragePath: staged.Path,
		StorageName: staged.Name,
	}
}

func (e *testEnv) mustUpload(t *testing.T, ownerID string, folderID *string, names ...string) []models.File {
	t.Helper()
	req := &driveSvc.UploadRequest{OwnerID: ownerID, FolderID: folderID}
	for _, name := range names {
		req.Files = append(req.Files, e.stageBlob(t, name, "text/plain", "content of "+name))
	}
	result, err := e.fileSvc.Upload(context.Background(), req)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("Upload rejected files: %+v", result.Errors)
	}
	return result.Files
}

func ptr(s string) *string { return &s }
