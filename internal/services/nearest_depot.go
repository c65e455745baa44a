package services

import (
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/shortestpath"
)

// SelectDepot picks the depot the route starts from.
//
// Each loaded request votes for its nearest depot (strictly smaller distance
// wins, so the first depot in configuration order takes ties and unreachable
// depots never win). The depot with the most votes is returned, again taking
// the first on ties. A depot with zero votes is never selected.
func SelectDepot(g *graph.Graph, m *shortestpath.Matrix, load []domain.Request) (int, error) {
	depots := g.Depots()
	tally := make(map[int]int, len(depots))

	for _, req := range load {
		nearest := domain.NoNode
		best := shortestpath.Infinity
		for _, d := range depots {
			dist, ok := m.Distance(d, req.Destination)
			if ok && dist < best {
				best = dist
				nearest = d
			}
		}
		if nearest != domain.NoNode {
			tally[nearest]++
		}
	}

	selected := domain.NoNode
	maxCount := 0
	for _, d := range depots {
		if tally[d] > maxCount {
			maxCount = tally[d]
			selected = d
		}
	}

	if selected == domain.NoNode {
		return domain.NoNode, fmt.Errorf("select depot: %d requests, %d depots: %w", len(load), len(depots), ErrNoDepotSelected)
	}
	return selected, nil
}

// NearestGasStation returns the gas station closest to node, first in
// configuration order on ties.
func NearestGasStation(g *graph.Graph, m *shortestpath.Matrix, node int) (int, error) {
	nearest := domain.NoNode
	best := shortestpath.Infinity
	for _, s := range g.GasStations() {
		dist, ok := m.Distance(node, s)
		if ok && dist < best {
			best = dist
			nearest = s
		}
	}

	if nearest == domain.NoNode {
		return domain.NoNode, fmt.Errorf("nearest gas station from %d: %w", node, ErrNoGasStationFound)
	}
	return nearest, nil
}
