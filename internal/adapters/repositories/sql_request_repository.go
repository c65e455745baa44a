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

// SQL-backed implementation of the RequestRepository port.
type SQLRequestRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLRequestRepository(conn *sql.DB, dialect db.Dialect) *SQLRequestRepository {
	return &SQLRequestRepository{DB: conn, Dialect: dialect}
}

// Return all stored delivery requests ordered by id.
func (s *SQLRequestRepository) ListRequests(ctx context.Context) (_ []domain.Request, err error) {
	defer obs.Time(ctx, "request.repo.ListRequests")(&err)

	if s.DB == nil {
		return nil, errors.New("sql request repository: DB is nil")
	}

	query := `
	SELECT
		request_id,
		destination,
		weight
	FROM delivery_requests
	ORDER BY request_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list requests: query delivery_requests table: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.Request, 0, 64)
	for rows.Next() {
		var r domain.Request
		if err := rows.Scan(&r.RequestID, &r.Destination, &r.Weight); err != nil {
			return nil, fmt.Errorf("list requests: scan row: %w", err)
		}
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requests: row iteration: %w", err)
	}

	return requests, nil
}

// Upsert requests by request_id.
func (s *SQLRequestRepository) SaveRequests(ctx context.Context, reqs []RequestSeed) (err error) {
	defer obs.Time(ctx, "request.repo.SaveRequests")(&err)

	if s.DB == nil {
		return errors.New("sql request repository: DB is nil")
	}
	if len(reqs) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed requests: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO delivery_requests (request_id, destination, weight)
	VALUES (?, ?, ?)
	ON CONFLICT (request_id) DO UPDATE
	SET destination = EXCLUDED.destination,
		weight = EXCLUDED.weight;
	`))
	if err != nil {
		return fmt.Errorf("seed requests: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reqs {
		if _, err := stmt.ExecContext(ctx, r.RequestID, r.Destination, r.Weight); err != nil {
			return fmt.Errorf("seed requests: insert request_id=%d: %w", r.RequestID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed requests: commit tx: %w", err)
	}

	return nil
}
