package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Port: a boundary for retrieving delivery requests from a data source.
type RequestRepository interface {
	// Retrieve all requests waiting to be planned, ordered by id.
	ListRequests(ctx context.Context) ([]domain.Request, error)
}
