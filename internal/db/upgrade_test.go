package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A database created before mind-map positions were persisted has no
// pos_x/pos_y columns. Migrating must add them without touching rows.
func TestMigrate_UpgradeAddsPositionColumns(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE tree_nodes (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'pending',
		parent_id   TEXT,
		color       TEXT NOT NULL DEFAULT '#3B82F6',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		due_date    TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tree_nodes (id, name, created_at, updated_at)
		VALUES ('legacy', 'Old goal', '2025-05-01T10:00:00Z', '2025-05-01T10:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var name string
	var x, y float64
	err = db.QueryRow(`SELECT name, pos_x, pos_y FROM tree_nodes WHERE id = 'legacy'`).Scan(&name, &x, &y)
	require.NoError(t, err)
	assert.Equal(t, "Old goal", name)
	assert.Zero(t, x)
	assert.Zero(t, y)
}
