package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Contract for loading the static road network description.
type GraphProvider interface {
	LoadGraph(ctx context.Context) (domain.GraphDescriptor, error)
}
