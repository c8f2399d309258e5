package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/goaltree/internal/db"
	"github.com/alexanderramin/goaltree/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// Readers listing the whole collection while a single writer inserts
// children must always see complete rows.
func TestConcurrentAccess_ListAllDuringWrites(t *testing.T) {
	repo := NewSQLiteNodeRepo(newConcurrentTestDB(t))
	ctx := context.Background()

	root := testutil.NewTestNode("Root")
	require.NoError(t, repo.Upsert(ctx, root))

	const writes = 30
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			n := testutil.NewTestNode(fmt.Sprintf("child-%d", i), testutil.WithParent(root.ID))
			if err := repo.Upsert(ctx, n); err != nil {
				t.Errorf("writer: upsert %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				nodes, err := repo.ListAll(ctx)
				if err != nil {
					t.Errorf("reader %d: list: %v", reader, err)
					return
				}
				for _, n := range nodes {
					if n.ID == "" || n.Name == "" {
						t.Errorf("reader %d: got half-written node %+v", reader, n)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	nodes, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, nodes, writes+1)
	assert.Equal(t, root.ID, nodes[0].ID, "root was created first")
}
