package drive

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"filenest/internal/domain"
	"filenest/internal/domain/models/drive"
	driveRepo "filenest/internal/domain/repositories/drive"
	"filenest/internal/repository/postgres"
)

// FileRepository implements the FileRepository interface
type FileRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *postgres.RepositoryConfig) driveRepo.FileRepository {
	return &FileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const fileColumns = `id, owner_id, folder_id, name, title, subject, description,
	material_type, content_type, size, storage_path, storage_name, downloads,
	created_at, updated_at`

func scanFile(row interface{ Scan(...any) error }, file *drive.File) error {
	return row.Scan(
		&file.ID,
		&file.OwnerID,
		&file.FolderID,
		&file.Name,
		&file.Title,
		&file.Subject,
		&file.Description,
		&file.MaterialType,
		&file.ContentType,
		&file.Size,
		&file.StoragePath,
		&file.StorageName,
		&file.Downloads,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
}

// Create inserts a new file record
func (r *FileRepository) Create(ctx context.Context, file *drive.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, folder_id, name, title, subject, description,
			material_type, content_type, size, storage_path, storage_name,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	err := postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		file.OwnerID,
		file.FolderID,
		file.Name,
		file.Title,
		file.Subject,
		file.Description,
		file.MaterialType,
		file.ContentType,
		file.Size,
		file.StoragePath,
		file.StorageName,
		file.CreatedAt,
		file.UpdatedAt,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if postgres.IsDuplicateError(err) {
			return fmt.Errorf("file '%s': %w", file.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves an owned file by ID
func (r *FileRepository) GetByID(ctx context.Context, id, ownerID string) (*drive.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, fileColumns, r.tables.Files)

	var file drive.File
	err := scanFile(postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID), &file)
	if err != nil {
		if postgres.IsNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// GetByNameAndFolder finds a sibling file by exact name, nil if absent
func (r *FileRepository) GetByNameAndFolder(ctx context.Context, ownerID, name string, folderID *string) (*drive.File, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND name = $2 AND folder_id IS NULL
		`, fileColumns, r.tables.Files)
		args = append(args, ownerID, name)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND name = $2 AND folder_id = $3
		`, fileColumns, r.tables.Files)
		args = append(args, ownerID, name, *folderID)
	}

	var file drive.File
	err := scanFile(postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...), &file)
	if err != nil {
		if postgres.IsNoRowsError(err) {
			return nil, nil // not found, not an error
		}
		return nil, fmt.Errorf("get file by name and folder: %w", err)
	}

	return &file, nil
}

// Update persists name and folder changes
func (r *FileRepository) Update(ctx context.Context, file *drive.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, name = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`, r.tables.Files)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query,
		file.FolderID,
		file.Name,
		file.UpdatedAt,
		file.ID,
		file.OwnerID,
	)

	if err != nil {
		if postgres.IsDuplicateError(err) {
			return fmt.Errorf("file '%s': %w", file.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}

	return nil
}

// SetFolder moves the given files into folderID in one statement
func (r *FileRepository) SetFolder(ctx context.Context, ownerID string, ids []string, folderID *string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = now()
		WHERE owner_id = $2 AND id = ANY($3::uuid[])
	`, r.tables.Files)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, ownerID, ids)
	if err != nil {
		if postgres.IsDuplicateError(err) {
			return fmt.Errorf("move files: %w", domain.ErrConflict)
		}
		return fmt.Errorf("move files: %w", err)
	}

	if int(result.RowsAffected()) != len(ids) {
		return fmt.Errorf("move files: %d of %d found: %w", result.RowsAffected(), len(ids), domain.ErrNotFound)
	}

	return nil
}

// DeleteMany removes the given file records permanently
func (r *FileRepository) DeleteMany(ctx context.Context, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE owner_id = $1 AND id = ANY($2::uuid[])
	`, r.tables.Files)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, ownerID, ids)
	if err != nil {
		return fmt.Errorf("delete files: %w", err)
	}

	if int(result.RowsAffected()) != len(ids) {
		return fmt.Errorf("delete files: %d of %d found: %w", result.RowsAffected(), len(ids), domain.ErrNotFound)
	}

	return nil
}

// ListByFolder lists files directly inside a folder sorted by name
func (r *FileRepository) ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]drive.File, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND folder_id IS NULL
			ORDER BY name ASC
		`, fileColumns, r.tables.Files)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND folder_id = $2
			ORDER BY name ASC
		`, fileColumns, r.tables.Files)
		args = append(args, ownerID, *folderID)
	}

	rows, err := postgres.GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []drive.File
	for rows.Next() {
		var file drive.File
		if err := scanFile(rows, &file); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

// IncrementDownloads bumps the download counter by one
func (r *FileRepository) IncrementDownloads(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET downloads = downloads + 1
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Files)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("increment downloads: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AllStoragePaths returns the storage path of every file record
func (r *FileRepository) AllStoragePaths(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT storage_path FROM %s`, r.tables.Files)

	rows, err := postgres.GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list storage paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan storage path: %w", err)
		}
		paths = append(paths, path)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate storage paths: %w", err)
	}

	return paths, nil
}
