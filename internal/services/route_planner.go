package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/shortestpath"
	"slices"
)

// AssembleRoute walks the loaded requests in their stored order and builds
// the concrete node-by-node route, inserting refuel detours.
//
// The vehicle starts at depot with a full tank. Every edge of every leg is
// checked against the remaining fuel: when the edge is longer than what is
// left, the route detours through the gas station nearest to the current node,
// the detour distance dist(u, station) + dist(station, v) is added, and the tank
// is treated as refilled before the edge is driven. An edge exactly as long as
// the remaining fuel is driven without refuelling. Fuel carries over between
// legs.
//
// Stops, detours, distance and refuel count come out of this single walk.
// An unreachable leg aborts the whole route. An empty load yields an empty
// route with zero distance.
func AssembleRoute(
	ctx context.Context,
	g *graph.Graph,
	m *shortestpath.Matrix,
	depot int,
	load []domain.Request,
	tankCapacity int,
	legConcurrency int,
) (*domain.RoutePlan, error) {
	if tankCapacity <= 0 {
		return nil, fmt.Errorf("assemble route: tank capacity %d: %w", tankCapacity, ErrInvalidCapacity)
	}
	if !g.Contains(depot) {
		return nil, fmt.Errorf("assemble route: depot %d: %w", depot, graph.ErrNodeOutOfRange)
	}

	plan := &domain.RoutePlan{
		Depot:        depot,
		TankCapacity: tankCapacity,
		Deliveries:   slices.Clone(load),
	}
	if len(load) == 0 {
		return plan, nil
	}

	stops := make([]int, 0, len(load)+1)
	stops = append(stops, depot)
	for _, req := range load {
		stops = append(stops, req.Destination)
	}

	legs, err := ResolveLegs(ctx, g, stops, legConcurrency)
	if err != nil {
		return nil, fmt.Errorf("assemble route: %w", err)
	}

	fuel := tankCapacity
	plan.Stops = append(plan.Stops, domain.Stop{Node: depot})

	for li, leg := range legs {
		for k := 0; k+1 < len(leg.Nodes); k++ {
			u, v := leg.Nodes[k], leg.Nodes[k+1]

			w, ok := m.Distance(u, v)
			if !ok {
				return nil, fmt.Errorf("assemble route: leg %d edge %d -> %d: %w", li+1, u, v, shortestpath.ErrUnreachable)
			}
			if w > tankCapacity {
				return nil, fmt.Errorf(
					"assemble route: leg %d edge %d -> %d length %d, tank %d: %w",
					li+1, u, v, w, tankCapacity, ErrEdgeExceedsTank,
				)
			}

			if w > fuel {
				detour, err := refuelDetour(g, m, u, v)
				if err != nil {
					return nil, fmt.Errorf("assemble route: leg %d: %w", li+1, err)
				}
				plan.Detours = append(plan.Detours, detour)
				plan.Stops = append(plan.Stops, domain.Stop{Node: detour.Station, Refuel: true})
				plan.TotalDistance += detour.Distance
				plan.RefuelCount++
				fuel = tankCapacity - w
			} else {
				fuel -= w
				plan.TotalDistance += w
			}

			plan.Stops = append(plan.Stops, domain.Stop{Node: v})
		}
	}

	return plan, nil
}

func refuelDetour(g *graph.Graph, m *shortestpath.Matrix, from, to int) (domain.Detour, error) {
	station, err := NearestGasStation(g, m, from)
	if err != nil {
		return domain.Detour{}, err
	}

	toStation, ok1 := m.Distance(from, station)
	fromStation, ok2 := m.Distance(station, to)
	if !ok1 || !ok2 {
		return domain.Detour{}, fmt.Errorf("refuel detour %d -> %d via %d: %w", from, to, station,
			errors.Join(ErrNoGasStationFound, shortestpath.ErrUnreachable))
	}

	return domain.Detour{
		From:     from,
		Station:  station,
		To:       to,
		Distance: toStation + fromStation,
	}, nil
}
