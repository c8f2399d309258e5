package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so
// the full list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is not idempotent in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// tree_nodes.parent_id deliberately carries no foreign key: a dangling
// parent is a tolerated orphan, and subtree deletion is done explicitly.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tree_nodes (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK(status IN ('pending','in_progress','completed')),
		parent_id   TEXT,
		color       TEXT NOT NULL DEFAULT '#3B82F6',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		due_date    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tree_nodes_parent ON tree_nodes(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tree_nodes_created ON tree_nodes(created_at)`,

	`ALTER TABLE tree_nodes ADD COLUMN pos_x REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE tree_nodes ADD COLUMN pos_y REAL NOT NULL DEFAULT 0`,
}
