package services

import (
	"context"
	"fmt"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/shortestpath"

	"golang.org/x/sync/errgroup"
)

const defaultLegConcurrency = 5

// ResolveLegs computes the shortest path between each pair of consecutive
// stops: stops[0]->stops[1], stops[1]->stops[2], ...
//
// Legs are independent Dijkstra queries, so they run concurrently, bounded by
// limit. Results keep leg order. Every leg runs to completion, so when legs
// fail the error of the earliest failing leg is returned regardless of
// scheduling.
func ResolveLegs(ctx context.Context, g *graph.Graph, stops []int, limit int) ([]shortestpath.Path, error) {
	if len(stops) < 2 {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLegConcurrency
	}

	paths := make([]shortestpath.Path, len(stops)-1)
	errs := make([]error, len(stops)-1)

	var eg errgroup.Group
	eg.SetLimit(limit)

	for i := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}

			p, err := shortestpath.ShortestPath(g, stops[i], stops[i+1])
			if err != nil {
				errs[i] = fmt.Errorf("resolve legs: leg %d (%d -> %d): %w", i+1, stops[i], stops[i+1], err)
				return nil
			}
			paths[i] = p
			return nil
		})
	}
	_ = eg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}
