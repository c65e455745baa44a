package services

import (
	"cmp"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"slices"
)

// Selection is the outcome of capacity selection.
// Loaded is the ascending-weight prefix that fits; Skipped is everything after it.
type Selection struct {
	Loaded  []domain.Request
	Skipped []domain.Request
}

// SelectLoad loads requests onto the vehicle using a greedy heuristic.
//
// Requests are sorted by ascending weight (stable, so equal weights keep their
// input order) and loaded until the first one that does not fit. Because the
// order is ascending, nothing after that request could fit either. This maximizes
// the number of deliveries per trip; it is not an optimal knapsack.
// An empty selection is a valid result, not an error.
func SelectLoad(vehicle *domain.Vehicle, requests []domain.Request) (Selection, error) {
	if vehicle == nil {
		return Selection{}, errors.New("select load: vehicle must be non-nil")
	}
	if vehicle.CargoCapacity < 0 {
		return Selection{}, fmt.Errorf("select load: cargo capacity %d: %w", vehicle.CargoCapacity, ErrInvalidCapacity)
	}
	for i, r := range requests {
		if r.Weight <= 0 {
			return Selection{}, fmt.Errorf("select load: request #%d weight %d: %w", i+1, r.Weight, ErrInvalidRequest)
		}
	}

	sorted := slices.Clone(requests)
	slices.SortStableFunc(sorted, func(a, b domain.Request) int {
		return cmp.Compare(a.Weight, b.Weight)
	})

	vehicle.Clear()
	for i, r := range sorted {
		if err := vehicle.LoadRequest(r); err != nil {
			if !errors.Is(err, domain.ErrOverCapacity) {
				return Selection{}, fmt.Errorf("select load: %w", err)
			}
			return Selection{
				Loaded:  slices.Clone(vehicle.Load),
				Skipped: sorted[i:],
			}, nil
		}
	}

	return Selection{Loaded: slices.Clone(vehicle.Load)}, nil
}
