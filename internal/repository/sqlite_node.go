package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/goaltree/internal/db"
	"github.com/alexanderramin/goaltree/internal/domain"
)

// nodeColumns is the canonical SELECT column list for tree_nodes.
const nodeColumns = `id, name, description, status, parent_id, color,
		pos_x, pos_y, due_date, created_at, updated_at`

// deleteBatchSize keeps IN (...) lists well under SQLite's variable limit.
const deleteBatchSize = 500

// SQLiteNodeRepo implements NodeRepo on the tree_nodes table.
type SQLiteNodeRepo struct {
	conn db.DBTX
	uow  db.UnitOfWork
}

// NewSQLiteNodeRepo creates a repo over the connection pool. Multi-row
// deletes run in their own transaction.
func NewSQLiteNodeRepo(database *sql.DB) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{conn: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// NewNodeRepoWithUoW lets callers substitute the transaction runner,
// e.g. to inject failures in tests.
func NewNodeRepoWithUoW(database *sql.DB, uow db.UnitOfWork) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{conn: database, uow: uow}
}

// txNodeRepo binds a repo to a running transaction.
func txNodeRepo(tx db.DBTX) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{conn: tx}
}

func (r *SQLiteNodeRepo) ListAll(ctx context.Context) ([]domain.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM tree_nodes ORDER BY created_at ASC, rowid ASC`
	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tree nodes: %w", err)
	}
	defer rows.Close()

	nodes := []domain.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tree nodes: %w", err)
	}
	return nodes, nil
}

func (r *SQLiteNodeRepo) GetByID(ctx context.Context, id string) (*domain.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM tree_nodes WHERE id = ?`
	n, err := scanNode(r.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tree node %s: %w", id, ErrNotFound)
	}
	return n, err
}

// Upsert inserts n or replaces every column of an existing row with the
// same id. The row keeps its rowid, so creation-order ties are stable.
func (r *SQLiteNodeRepo) Upsert(ctx context.Context, n *domain.Node) error {
	query := `INSERT INTO tree_nodes (id, name, description, status, parent_id, color,
		pos_x, pos_y, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			status = excluded.status,
			parent_id = excluded.parent_id,
			color = excluded.color,
			pos_x = excluded.pos_x,
			pos_y = excluded.pos_y,
			due_date = excluded.due_date,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`
	_, err := r.conn.ExecContext(ctx, query,
		n.ID,
		n.Name,
		n.Description,
		string(n.Status),
		nullableString(n.ParentID),
		n.Color,
		n.X,
		n.Y,
		nullableTimeToString(n.DueDate, dateLayout),
		formatTimestamp(n.CreatedAt),
		formatTimestamp(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting tree node: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of an existing node. created_at is
// never changed.
func (r *SQLiteNodeRepo) Update(ctx context.Context, n *domain.Node) error {
	query := `UPDATE tree_nodes SET name = ?, description = ?, status = ?, parent_id = ?,
		color = ?, pos_x = ?, pos_y = ?, due_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.conn.ExecContext(ctx, query,
		n.Name,
		n.Description,
		string(n.Status),
		nullableString(n.ParentID),
		n.Color,
		n.X,
		n.Y,
		nullableTimeToString(n.DueDate, dateLayout),
		formatTimestamp(n.UpdatedAt),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating tree node: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating tree node: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("tree node %s: %w", n.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteNodeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM tree_nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting tree node: %w", err)
	}
	return nil
}

// DeleteMany removes all ids in one transaction and returns the number
// of rows that existed.
func (r *SQLiteNodeRepo) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if r.uow == nil {
		return txNodeRepo(r.conn).deleteBatches(ctx, ids)
	}
	var removed int
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := txNodeRepo(tx).deleteBatches(ctx, ids)
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *SQLiteNodeRepo) deleteBatches(ctx context.Context, ids []string) (int, error) {
	var removed int
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(ids))
		batch := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		res, err := r.conn.ExecContext(ctx, `DELETE FROM tree_nodes WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			return 0, fmt.Errorf("deleting tree nodes: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("deleting tree nodes: %w", err)
		}
		removed += int(n)
	}
	return removed, nil
}

func (r *SQLiteNodeRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.conn.ExecContext(ctx, `DELETE FROM tree_nodes`); err != nil {
		return fmt.Errorf("deleting all tree nodes: %w", err)
	}
	return nil
}

// UpsertMany writes nodes in one transaction. With replace set, every
// existing row is removed first.
func (r *SQLiteNodeRepo) UpsertMany(ctx context.Context, nodes []domain.Node, replace bool) error {
	write := func(ctx context.Context, tx db.DBTX) error {
		repo := txNodeRepo(tx)
		if replace {
			if err := repo.DeleteAll(ctx); err != nil {
				return err
			}
		}
		for i := range nodes {
			if err := repo.Upsert(ctx, &nodes[i]); err != nil {
				return fmt.Errorf("node %s: %w", nodes[i].ID, err)
			}
		}
		return nil
	}
	if r.uow == nil {
		return write(ctx, r.conn)
	}
	return r.uow.WithinTx(ctx, write)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*domain.Node, error) {
	var n domain.Node
	var statusStr, createdAtStr, updatedAtStr string
	var parentID, dueDateStr sql.NullString

	err := row.Scan(
		&n.ID, &n.Name, &n.Description, &statusStr, &parentID, &n.Color,
		&n.X, &n.Y, &dueDateStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning tree node: %w", err)
	}

	n.Status = domain.NodeStatus(statusStr)
	if parentID.Valid {
		n.ParentID = &parentID.String
	}
	n.DueDate = parseNullableTime(dueDateStr, dateLayout)

	if n.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if n.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &n, nil
}
