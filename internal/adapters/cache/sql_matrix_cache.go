package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/shortestpath"
	"strings"
)

// SQLMatrixCache stores all-pairs distance matrices in the distance_matrix
// table, one row per (origin, destination) cell, keyed by graph fingerprint.
// Unreachable cells are stored as -1.
type SQLMatrixCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLMatrixCache(conn *sql.DB, dialect db.Dialect) *SQLMatrixCache {
	return &SQLMatrixCache{DB: conn, Dialect: dialect}
}

// Fetch the cached matrix for a graph key.
// A key with no rows is a miss; rows that do not form a square matrix are an error.
func (s *SQLMatrixCache) GetMatrix(ctx context.Context, key string) (_ *shortestpath.Matrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.sql.GetMatrix")(&err)

	if s.DB == nil {
		return nil, false, errors.New("matrix cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	q := s.Dialect.Rebind(`
	SELECT origin, destination, distance
	FROM distance_matrix
	WHERE graph_key = ?
	ORDER BY origin, destination;
	`)

	rows, err := s.DB.QueryContext(ctx, q, key)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: query distance_matrix table: %w", err)
	}
	defer rows.Close()

	var cells [][3]int
	maxNode := -1
	for rows.Next() {
		var origin, dest, dist int
		if err := rows.Scan(&origin, &dest, &dist); err != nil {
			return nil, false, fmt.Errorf("get matrix cache: scan rows: %w", err)
		}
		cells = append(cells, [3]int{origin, dest, dist})
		maxNode = max(maxNode, origin, dest)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("get matrix cache: row iteration: %w", err)
	}

	if len(cells) == 0 {
		return nil, false, nil
	}

	n := maxNode + 1
	if len(cells) != n*n {
		return nil, false, fmt.Errorf("get matrix cache key=%q: %d cells for %d nodes: %w", key, len(cells), n, shortestpath.ErrBadMatrix)
	}

	out := make([][]int, n)
	for i := range out {
		out[i] = make([]int, n)
	}
	for _, c := range cells {
		if c[0] < 0 || c[1] < 0 {
			return nil, false, fmt.Errorf("get matrix cache key=%q: negative node id: %w", key, shortestpath.ErrBadMatrix)
		}
		out[c[0]][c[1]] = c[2]
	}

	m, err := shortestpath.FromRows(out)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache key=%q: %w", key, err)
	}
	return m, true, nil
}

// Store every cell of the matrix under key, replacing a previous entry.
func (s *SQLMatrixCache) PutMatrix(ctx context.Context, key string, m *shortestpath.Matrix) (err error) {
	defer obs.Time(ctx, "matrix.cache.sql.PutMatrix")(&err)

	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert matrix cache: key must not be empty")
	}
	if m == nil {
		return errors.New("insert matrix cache: matrix is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert matrix cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM distance_matrix WHERE graph_key = ?;`), key); err != nil {
		return fmt.Errorf("insert matrix cache: clear key=%q: %w", key, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO distance_matrix (graph_key, origin, destination, distance)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (graph_key, origin, destination) DO UPDATE
	SET distance = EXCLUDED.distance;
	`))
	if err != nil {
		return fmt.Errorf("insert matrix cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, row := range m.Rows() {
		for j, d := range row {
			if _, err := stmt.ExecContext(ctx, key, i, j, d); err != nil {
				return fmt.Errorf("insert matrix cache cell=(%d,%d): %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert matrix cache commit: %w", err)
	}

	return nil
}
