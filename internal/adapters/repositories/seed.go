package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"fuel-route-service/internal/platform/db"
)

// Populate the database from a JSON seed file: the graph (when present)
// and the delivery requests.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	data, err := ReadSeedFile(jsonPath)
	if err != nil {
		return err
	}

	if data.Graph != nil {
		if err := NewSQLGraphRepository(conn, dialect).SaveGraph(ctx, *data.Graph); err != nil {
			return fmt.Errorf("seed %q: %w", jsonPath, err)
		}
	}

	if err := NewSQLRequestRepository(conn, dialect).SaveRequests(ctx, data.Requests); err != nil {
		return fmt.Errorf("seed %q: %w", jsonPath, err)
	}

	return nil
}
