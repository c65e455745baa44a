package ports

import (
	"context"
	"fuel-route-service/internal/shortestpath"
)

// Persistent store for computed all-pairs distance matrices.
// Keys are graph fingerprints, so a changed network never hits a stale entry.
type MatrixCache interface {
	// Return the cached matrix for key; ok is false on a miss.
	GetMatrix(ctx context.Context, key string) (m *shortestpath.Matrix, ok bool, err error)
	// Store the matrix under key, replacing any previous entry.
	PutMatrix(ctx context.Context, key string, m *shortestpath.Matrix) error
}
