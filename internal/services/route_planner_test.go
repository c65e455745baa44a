package services

import (
	"context"
	"errors"
	"fuel-route-service/internal/adapters/graphfile"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/shortestpath"
	"slices"
	"testing"
)

// lineDescriptor: depot 0 -10- 1 -10- 2, with station 3 hanging off node 1.
func lineDescriptor() domain.GraphDescriptor {
	return domain.GraphDescriptor{
		NodeCount:   4,
		Depots:      []int{0},
		GasStations: []int{3},
		Edges: []domain.Edge{
			{A: 0, B: 1, Weight: 10},
			{A: 1, B: 2, Weight: 10},
			{A: 1, B: 3, Weight: 1},
		},
	}
}

func buildGraph(t *testing.T, desc domain.GraphDescriptor) (*graph.Graph, *shortestpath.Matrix) {
	t.Helper()
	g, err := graph.New(desc)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g, shortestpath.AllPairs(g)
}

func stopNodes(stops []domain.Stop) []int {
	out := make([]int, 0, len(stops))
	for _, s := range stops {
		out = append(out, s.Node)
	}
	return out
}

func TestAssembleRouteEdgeEqualToFuelDoesNotRefuel(t *testing.T) {
	g, m := buildGraph(t, lineDescriptor())
	load := []domain.Request{{Destination: 2, Weight: 1}}

	plan, err := AssembleRoute(context.Background(), g, m, 0, load, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.RefuelCount != 0 {
		t.Fatalf("refuels = %d, want 0", plan.RefuelCount)
	}
	if plan.TotalDistance != 20 {
		t.Fatalf("distance = %d, want 20", plan.TotalDistance)
	}
	if want := []int{0, 1, 2}; !slices.Equal(stopNodes(plan.Stops), want) {
		t.Fatalf("stops = %v, want %v", stopNodes(plan.Stops), want)
	}
}

func TestAssembleRouteInsertsRefuelDetour(t *testing.T) {
	g, m := buildGraph(t, lineDescriptor())
	load := []domain.Request{{Destination: 2, Weight: 1}}

	plan, err := AssembleRoute(context.Background(), g, m, 0, load, 19, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.RefuelCount != 1 {
		t.Fatalf("refuels = %d, want 1", plan.RefuelCount)
	}
	// 0->1 (10), then detour 1->3->2 (1 + 11).
	if plan.TotalDistance != 22 {
		t.Fatalf("distance = %d, want 22", plan.TotalDistance)
	}

	want := []domain.Stop{{Node: 0}, {Node: 1}, {Node: 3, Refuel: true}, {Node: 2}}
	if !slices.Equal(plan.Stops, want) {
		t.Fatalf("stops = %+v, want %+v", plan.Stops, want)
	}
	if len(plan.Detours) != 1 || plan.Detours[0] != (domain.Detour{From: 1, Station: 3, To: 2, Distance: 12}) {
		t.Fatalf("detours = %+v", plan.Detours)
	}
}

func TestAssembleRouteFuelCarriesAcrossLegs(t *testing.T) {
	g, m := buildGraph(t, lineDescriptor())
	// Depot -> 1 -> 2 -> 1: 30 units with a 25 tank refuels once on the way back.
	load := []domain.Request{{Destination: 1, Weight: 1}, {Destination: 2, Weight: 1}, {Destination: 1, Weight: 1}}

	plan, err := AssembleRoute(context.Background(), g, m, 0, load, 25, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.RefuelCount != 1 {
		t.Fatalf("refuels = %d, want 1", plan.RefuelCount)
	}
	// 10 + 10, then detour 2->3->1: dist(2,3)=11 + dist(3,1)=1.
	if plan.TotalDistance != 32 {
		t.Fatalf("distance = %d, want 32", plan.TotalDistance)
	}
	if want := []int{0, 1, 2, 3, 1}; !slices.Equal(stopNodes(plan.Stops), want) {
		t.Fatalf("stops = %v, want %v", stopNodes(plan.Stops), want)
	}
}

func TestAssembleRouteEdgeLongerThanTank(t *testing.T) {
	g, m := buildGraph(t, lineDescriptor())

	_, err := AssembleRoute(context.Background(), g, m, 0, []domain.Request{{Destination: 2, Weight: 1}}, 9, 0)
	if !errors.Is(err, ErrEdgeExceedsTank) {
		t.Fatalf("err = %v, want ErrEdgeExceedsTank", err)
	}
}

func TestAssembleRouteUnreachableAborts(t *testing.T) {
	desc := lineDescriptor()
	desc.NodeCount = 5 // node 4 is isolated
	g, m := buildGraph(t, desc)

	load := []domain.Request{{Destination: 2, Weight: 1}, {Destination: 4, Weight: 2}}
	_, err := AssembleRoute(context.Background(), g, m, 0, load, 100, 0)
	if !errors.Is(err, shortestpath.ErrUnreachable) {
		t.Fatalf("err = %v, want ErrUnreachable", err)
	}
}

func TestAssembleRouteEmptyLoad(t *testing.T) {
	g, m := buildGraph(t, lineDescriptor())

	plan, err := AssembleRoute(context.Background(), g, m, 0, nil, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Stops) != 0 || plan.TotalDistance != 0 || plan.RefuelCount != 0 {
		t.Fatalf("empty load produced %+v", plan)
	}
}

func TestAssembleRouteCityInvariants(t *testing.T) {
	g, m := buildGraph(t, graphfile.Default())
	load := []domain.Request{{Destination: 49, Weight: 2}, {Destination: 20, Weight: 4}, {Destination: 10, Weight: 5}}

	for _, tank := range []int{250, 60, 40, 35} {
		plan, err := AssembleRoute(context.Background(), g, m, 1, load, tank, 2)
		if err != nil {
			t.Fatalf("tank %d: unexpected error: %v", tank, err)
		}

		// Replay the walk: fuel never negative, refuel stops are stations,
		// distance equals traversed edges plus detours.
		stations := g.GasStations()
		fuel := tank
		total := 0
		refuels := 0
		prev := plan.Stops[0].Node
		pendingRefuel := -1
		for _, s := range plan.Stops[1:] {
			if s.Refuel {
				if !slices.Contains(stations, s.Node) {
					t.Fatalf("tank %d: refuel stop %d is not a gas station", tank, s.Node)
				}
				pendingRefuel = s.Node
				continue
			}
			w, _ := m.Distance(prev, s.Node)
			if pendingRefuel >= 0 {
				a, _ := m.Distance(prev, pendingRefuel)
				b, _ := m.Distance(pendingRefuel, s.Node)
				total += a + b
				fuel = tank
				refuels++
				pendingRefuel = -1
			} else {
				total += w
			}
			fuel -= w
			if fuel < 0 {
				t.Fatalf("tank %d: fuel went negative at %d", tank, s.Node)
			}
			prev = s.Node
		}

		if total != plan.TotalDistance {
			t.Fatalf("tank %d: replayed distance %d, plan says %d", tank, total, plan.TotalDistance)
		}
		if refuels != plan.RefuelCount || refuels != len(plan.Detours) {
			t.Fatalf("tank %d: refuels replay=%d plan=%d detours=%d", tank, refuels, plan.RefuelCount, len(plan.Detours))
		}
		if prev != 10 {
			t.Fatalf("tank %d: route ends at %d, want 10", tank, prev)
		}
	}
}

func TestAssembleRouteCityTotals(t *testing.T) {
	g, m := buildGraph(t, graphfile.Default())
	load := []domain.Request{{Destination: 49, Weight: 2}, {Destination: 20, Weight: 4}, {Destination: 10, Weight: 5}}

	plan, err := AssembleRoute(context.Background(), g, m, 1, load, 250, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.TotalDistance != 820 {
		t.Fatalf("distance = %d, want 820", plan.TotalDistance)
	}
	if plan.RefuelCount != 2 {
		t.Fatalf("refuels = %d, want 2", plan.RefuelCount)
	}
	if plan.Detours[0].Station != 25 || plan.Detours[1].Station != 38 {
		t.Fatalf("detour stations = %d, %d, want 25, 38", plan.Detours[0].Station, plan.Detours[1].Station)
	}
}
