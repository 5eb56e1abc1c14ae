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

// FolderRepository implements the FolderRepository interface
type FolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) driveRepo.FolderRepository {
	return &FolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = "id, owner_id, parent_id, name, created_at, updated_at"

// Create inserts a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *drive.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, parent_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	err := postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		folder.OwnerID,
		folder.ParentID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if postgres.IsDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves an owned folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, id, ownerID string) (*drive.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, folderColumns, r.tables.Folders)

	var folder drive.Folder
	err := postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID).Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if err != nil {
		if postgres.IsNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// GetByNameAndParent finds a sibling folder by exact name, nil if absent
func (r *FolderRepository) GetByNameAndParent(ctx context.Context, ownerID, name string, parentID *string) (*drive.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND name = $2 AND parent_id IS NULL
		`, folderColumns, r.tables.Folders)
		args = append(args, ownerID, name)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND name = $2 AND parent_id = $3
		`, folderColumns, r.tables.Folders)
		args = append(args, ownerID, name, *parentID)
	}

	var folder drive.Folder
	err := postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if err != nil {
		if postgres.IsNoRowsError(err) {
			return nil, nil // not found, not an error
		}
		return nil, fmt.Errorf("get folder by name and parent: %w", err)
	}

	return &folder, nil
}

// Update persists name and parent changes
func (r *FolderRepository) Update(ctx context.Context, folder *drive.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`, r.tables.Folders)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.UpdatedAt,
		folder.ID,
		folder.OwnerID,
	)

	if err != nil {
		if postgres.IsDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// SetParent reparents the given folders in one statement
func (r *FolderRepository) SetParent(ctx context.Context, ownerID string, ids []string, parentID *string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, updated_at = now()
		WHERE owner_id = $2 AND id = ANY($3::uuid[])
	`, r.tables.Folders)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, parentID, ownerID, ids)
	if err != nil {
		if postgres.IsDuplicateError(err) {
			return fmt.Errorf("move folders: %w", domain.ErrConflict)
		}
		return fmt.Errorf("move folders: %w", err)
	}

	if int(result.RowsAffected()) != len(ids) {
		return fmt.Errorf("move folders: %d of %d found: %w", result.RowsAffected(), len(ids), domain.ErrNotFound)
	}

	return nil
}

// DeleteMany removes the given folders permanently
func (r *FolderRepository) DeleteMany(ctx context.Context, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE owner_id = $1 AND id = ANY($2::uuid[])
	`, r.tables.Folders)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, ownerID, ids)
	if err != nil {
		if postgres.IsForeignKeyError(err) {
			return fmt.Errorf("folder still has children: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete folders: %w", err)
	}

	if int(result.RowsAffected()) != len(ids) {
		return fmt.Errorf("delete folders: %d of %d found: %w", result.RowsAffected(), len(ids), domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate child folders sorted by name
func (r *FolderRepository) ListChildren(ctx context.Context, parentID *string, ownerID string) ([]drive.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id IS NULL
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id = $2
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, ownerID, *parentID)
	}

	rows, err := postgres.GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	var folders []drive.Folder
	for rows.Next() {
		var folder drive.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.OwnerID,
			&folder.ParentID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
