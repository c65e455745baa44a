package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/obs"
)

// SQL-backed implementation of the GraphProvider port.
// Depots and gas stations keep their configuration order through kind_rank,
// edges keep theirs through edge_id.
type SQLGraphRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGraphRepository(conn *sql.DB, dialect db.Dialect) *SQLGraphRepository {
	return &SQLGraphRepository{DB: conn, Dialect: dialect}
}

// ErrNoGraph is returned when the nodes table is empty.
var ErrNoGraph = errors.New("no graph stored")

func (s *SQLGraphRepository) LoadGraph(ctx context.Context) (_ domain.GraphDescriptor, err error) {
	defer obs.Time(ctx, "graph.repo.LoadGraph")(&err)

	if s.DB == nil {
		return domain.GraphDescriptor{}, errors.New("sql graph repository: DB is nil")
	}

	nodeQuery := `
	SELECT
		node_id,
		kind
	FROM nodes
	WHERE kind <> 'regular'
	ORDER BY kind, kind_rank, node_id;
	`
	rows, err := s.DB.QueryContext(ctx, nodeQuery)
	if err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("load graph: query nodes table: %w", err)
	}
	defer rows.Close()

	var desc domain.GraphDescriptor
	for rows.Next() {
		var id int
		var kind string
		if err := rows.Scan(&id, &kind); err != nil {
			return domain.GraphDescriptor{}, fmt.Errorf("load graph: scan node: %w", err)
		}
		switch kind {
		case domain.KindDepot.String():
			desc.Depots = append(desc.Depots, id)
		case domain.KindGasStation.String():
			desc.GasStations = append(desc.GasStations, id)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("load graph: node iteration: %w", err)
	}

	var count sql.NullInt64
	if err := s.DB.QueryRowContext(ctx, `SELECT MAX(node_id) + 1 FROM nodes;`).Scan(&count); err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("load graph: count nodes: %w", err)
	}
	if !count.Valid || count.Int64 <= 0 {
		return domain.GraphDescriptor{}, fmt.Errorf("load graph: %w", ErrNoGraph)
	}
	desc.NodeCount = int(count.Int64)

	edgeQuery := `
	SELECT
		a,
		b,
		weight
	FROM edges
	ORDER BY edge_id;
	`
	edgeRows, err := s.DB.QueryContext(ctx, edgeQuery)
	if err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("load graph: query edges table: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var e domain.Edge
		if err := edgeRows.Scan(&e.A, &e.B, &e.Weight); err != nil {
			return domain.GraphDescriptor{}, fmt.Errorf("load graph: scan edge: %w", err)
		}
		desc.Edges = append(desc.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("load graph: edge iteration: %w", err)
	}

	return desc, nil
}

// SaveGraph replaces the stored network with desc.
func (s *SQLGraphRepository) SaveGraph(ctx context.Context, desc domain.GraphDescriptor) (err error) {
	defer obs.Time(ctx, "graph.repo.SaveGraph")(&err)

	if s.DB == nil {
		return errors.New("sql graph repository: DB is nil")
	}
	if desc.NodeCount <= 0 {
		return errors.New("save graph: node_count must be positive")
	}

	kinds := make([]domain.NodeKind, desc.NodeCount)
	ranks := make([]int, desc.NodeCount)
	for i, d := range desc.Depots {
		if d < 0 || d >= desc.NodeCount {
			return fmt.Errorf("save graph: depot %d out of range", d)
		}
		kinds[d], ranks[d] = domain.KindDepot, i
	}
	for i, g := range desc.GasStations {
		if g < 0 || g >= desc.NodeCount {
			return fmt.Errorf("save graph: gas station %d out of range", g)
		}
		if kinds[g] == domain.KindDepot {
			return fmt.Errorf("save graph: node %d is both depot and gas station", g)
		}
		kinds[g], ranks[g] = domain.KindGasStation, i
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save graph: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM edges;`, `DELETE FROM nodes;`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("save graph: clear: %w", err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO nodes (node_id, kind, kind_rank)
	VALUES (?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save graph: prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for id := range desc.NodeCount {
		if _, err := nodeStmt.ExecContext(ctx, id, kinds[id].String(), ranks[id]); err != nil {
			return fmt.Errorf("save graph: insert node_id=%d: %w", id, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO edges (edge_id, a, b, weight)
	VALUES (?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save graph: prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i, e := range desc.Edges {
		if _, err := edgeStmt.ExecContext(ctx, i+1, e.A, e.B, e.Weight); err != nil {
			return fmt.Errorf("save graph: insert edge #%d (%d-%d): %w", i+1, e.A, e.B, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save graph: commit tx: %w", err)
	}

	return nil
}
