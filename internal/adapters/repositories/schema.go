package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"os"
)

// Initialize the database schema. Statements are portable between
// SQLite and Postgres.
func InitSchema(conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createNodesQuery := `
	CREATE TABLE IF NOT EXISTS nodes (
		node_id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL CHECK (kind IN ('regular', 'depot', 'gas_station')),
		kind_rank INTEGER NOT NULL DEFAULT 0
	);
	`

	createEdgesQuery := `
	CREATE TABLE IF NOT EXISTS edges (
		edge_id INTEGER PRIMARY KEY,
		a INTEGER NOT NULL REFERENCES nodes(node_id),
		b INTEGER NOT NULL REFERENCES nodes(node_id),
		weight INTEGER NOT NULL CHECK (weight > 0)
	);
	`

	createRequestsQuery := `
	CREATE TABLE IF NOT EXISTS delivery_requests (
		request_id INTEGER PRIMARY KEY,
		destination INTEGER NOT NULL,
		weight INTEGER NOT NULL CHECK (weight > 0)
	);
	`

	createDistanceMatrixQuery := `
	CREATE TABLE IF NOT EXISTS distance_matrix (
		graph_key TEXT NOT NULL,
		origin INTEGER NOT NULL,
		destination INTEGER NOT NULL,
		distance INTEGER NOT NULL,
		PRIMARY KEY (graph_key, origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_edges_a_b
	ON edges(a, b);
	`

	statements := []string{
		createNodesQuery,
		createEdgesQuery,
		createRequestsQuery,
		createDistanceMatrixQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type RequestSeed struct {
	RequestID   int `json:"request_id"`
	Destination int `json:"destination"`
	Weight      int `json:"weight"`
}

// Seed file layout. A missing graph leaves the stored network untouched.
type SeedFile struct {
	Graph    *domain.GraphDescriptor `json:"graph,omitempty"`
	Requests []RequestSeed           `json:"requests"`
}

// ReadSeedFile parses and validates a JSON seed file.
func ReadSeedFile(jsonPath string) (SeedFile, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return SeedFile{}, fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return SeedFile{}, fmt.Errorf("seed: parse json: %w", err)
	}

	seen := make(map[int]struct{}, len(data.Requests))
	for i, item := range data.Requests {
		if item.RequestID <= 0 {
			return SeedFile{}, fmt.Errorf("seed requests: invalid request_id at index %d: %d", i+1, item.RequestID)
		}
		if _, ok := seen[item.RequestID]; ok {
			return SeedFile{}, fmt.Errorf("seed requests: duplicate request_id %d at index %d", item.RequestID, i+1)
		}
		seen[item.RequestID] = struct{}{}

		if item.Destination < 0 {
			return SeedFile{}, fmt.Errorf("seed requests: item at index %d: destination %d is negative", i+1, item.Destination)
		}
		if item.Weight <= 0 {
			return SeedFile{}, fmt.Errorf("seed requests: item at index %d: weight must be positive, got %d", i+1, item.Weight)
		}
	}

	return data, nil
}
