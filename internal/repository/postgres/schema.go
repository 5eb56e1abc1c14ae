package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the folder and file tables plus the indexes the tree
// operations depend on. Idempotent; safe to run at every startup.
//
// Sibling-name uniqueness is enforced by expression indexes over
// (owner, COALESCE(parent, ''), name) because a NULL parent would
// otherwise never collide with itself.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				owner_id   TEXT NOT NULL,
				parent_id  UUID REFERENCES %s(id),
				name       VARCHAR(255) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.Folders, tables.Folders),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_%s_owner_parent
			ON %s (owner_id, parent_id)
		`, tables.Folders, tables.Folders),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS uq_%s_sibling_name
			ON %s (owner_id, COALESCE(parent_id::text, ''), name)
		`, tables.Folders, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				owner_id      TEXT NOT NULL,
				folder_id     UUID REFERENCES %s(id),
				name          VARCHAR(255) NOT NULL,
				title         TEXT NOT NULL DEFAULT '',
				subject       TEXT NOT NULL DEFAULT '',
				description   TEXT NOT NULL DEFAULT '',
				material_type TEXT NOT NULL DEFAULT 'other',
				content_type  TEXT NOT NULL DEFAULT 'application/octet-stream',
				size          BIGINT NOT NULL DEFAULT 0,
				storage_path  TEXT NOT NULL,
				storage_name  TEXT NOT NULL,
				downloads     BIGINT NOT NULL DEFAULT 0,
				created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.Files, tables.Folders),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_%s_owner_folder
			ON %s (owner_id, folder_id)
		`, tables.Files, tables.Files),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS uq_%s_sibling_name
			ON %s (owner_id, COALESCE(folder_id::text, ''), name)
		`, tables.Files, tables.Files),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	return nil
}
