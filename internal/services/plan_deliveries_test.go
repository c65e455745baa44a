package services

import (
	"context"
	"errors"
	"fuel-route-service/internal/adapters/graphfile"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/shortestpath"
	"io"
	"log/slog"
	"slices"
	"testing"
)

type memMatrixCache struct {
	entries map[string]*shortestpath.Matrix
	gets    int
	puts    int
	getErr  error
}

func (c *memMatrixCache) GetMatrix(ctx context.Context, key string) (*shortestpath.Matrix, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	m, ok := c.entries[key]
	return m, ok, nil
}

func (c *memMatrixCache) PutMatrix(ctx context.Context, key string, m *shortestpath.Matrix) error {
	c.puts++
	if c.entries == nil {
		c.entries = map[string]*shortestpath.Matrix{}
	}
	c.entries[key] = m
	return nil
}

func newCityPlanner(t *testing.T, opts ...PlannerOption) *Planner {
	t.Helper()
	g, err := graph.New(graphfile.Default())
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	opts = append([]PlannerOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	p, err := NewPlanner(context.Background(), g, opts...)
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}
	return p
}

func TestPlanSingleDelivery(t *testing.T) {
	p := newCityPlanner(t, WithIDGenerator(func() string { return "plan-1" }))

	plan, err := p.Plan(context.Background(), PlanDeliveriesRequest{
		Requests:      []domain.Request{{Destination: 10, Weight: 5}},
		TankCapacity:  250,
		CargoCapacity: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.PlanID != "plan-1" {
		t.Fatalf("plan id = %q", plan.PlanID)
	}
	if plan.Depot != 1 {
		t.Fatalf("depot = %d, want 1", plan.Depot)
	}
	if want, _ := p.Matrix().Distance(1, 10); plan.TotalDistance != want || want != 80 {
		t.Fatalf("distance = %d, matrix says %d, want 80", plan.TotalDistance, want)
	}
	if plan.RefuelCount != 0 {
		t.Fatalf("refuels = %d, want 0", plan.RefuelCount)
	}
	if want := []int{1, 4, 7, 10}; !slices.Equal(stopNodes(plan.Stops), want) {
		t.Fatalf("stops = %v, want %v", stopNodes(plan.Stops), want)
	}
	if plan.CargoCapacity != 10 || plan.TankCapacity != 250 {
		t.Fatalf("capacities = %d/%d", plan.TankCapacity, plan.CargoCapacity)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	p := newCityPlanner(t, WithIDGenerator(func() string { return "same" }))
	req := PlanDeliveriesRequest{
		Requests: []domain.Request{
			{Destination: 10, Weight: 5},
			{Destination: 49, Weight: 2},
			{Destination: 20, Weight: 4},
			{Destination: 33, Weight: 9},
		},
		TankCapacity:  60,
		CargoCapacity: 15,
	}

	first, err := p.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(first.Stops, second.Stops) || first.TotalDistance != second.TotalDistance || first.RefuelCount != second.RefuelCount {
		t.Fatalf("plans differ:\n%+v\n%+v", first, second)
	}
	if got := destinations(first.Deliveries); !slices.Equal(got, []int{49, 20, 10}) {
		t.Fatalf("deliveries = %v", got)
	}
	if got := destinations(first.Skipped); !slices.Equal(got, []int{33}) {
		t.Fatalf("skipped = %v", got)
	}
	if first.TotalDistance != 1660 || first.RefuelCount != 14 {
		t.Fatalf("distance/refuels = %d/%d, want 1660/14", first.TotalDistance, first.RefuelCount)
	}
}

func TestPlanNothingFits(t *testing.T) {
	p := newCityPlanner(t)

	plan, err := p.Plan(context.Background(), PlanDeliveriesRequest{
		Requests:      []domain.Request{{Destination: 10, Weight: 20}},
		TankCapacity:  250,
		CargoCapacity: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Empty() || plan.Depot != domain.NoNode || plan.TotalDistance != 0 {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
	if len(plan.Skipped) != 1 {
		t.Fatalf("skipped = %+v", plan.Skipped)
	}
	if plan.PlanID == "" {
		t.Fatalf("empty plan has no id")
	}
}

func TestPlanRejectsInvalidInput(t *testing.T) {
	p := newCityPlanner(t)

	tests := []struct {
		name string
		req  PlanDeliveriesRequest
		want error
	}{
		{"zero tank", PlanDeliveriesRequest{TankCapacity: 0, CargoCapacity: 10}, ErrInvalidCapacity},
		{"negative cargo", PlanDeliveriesRequest{TankCapacity: 10, CargoCapacity: -1}, ErrInvalidCapacity},
		{"destination out of range", PlanDeliveriesRequest{
			Requests: []domain.Request{{Destination: 50, Weight: 1}}, TankCapacity: 10, CargoCapacity: 10,
		}, ErrInvalidRequest},
		{"non-positive weight", PlanDeliveriesRequest{
			Requests: []domain.Request{{Destination: 3, Weight: 0}}, TankCapacity: 10, CargoCapacity: 10,
		}, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Plan(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !IsInputError(err) || IsPlanningFailure(err) {
				t.Fatalf("err %v misclassified", err)
			}
		})
	}
}

func TestPlanUnreachableDestination(t *testing.T) {
	desc := lineDescriptor()
	desc.NodeCount = 5
	g, err := graph.New(desc)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	p, err := NewPlanner(context.Background(), g, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}

	_, err = p.Plan(context.Background(), PlanDeliveriesRequest{
		Requests:      []domain.Request{{Destination: 2, Weight: 1}, {Destination: 4, Weight: 2}},
		TankCapacity:  100,
		CargoCapacity: 10,
	})
	if !errors.Is(err, shortestpath.ErrUnreachable) || !IsPlanningFailure(err) {
		t.Fatalf("err = %v, want unreachable planning failure", err)
	}
}

func TestNewPlannerUsesMatrixCache(t *testing.T) {
	cache := &memMatrixCache{}

	first := newCityPlanner(t, WithMatrixCache(cache))
	if cache.gets != 1 || cache.puts != 1 {
		t.Fatalf("cold cache: gets=%d puts=%d", cache.gets, cache.puts)
	}

	second := newCityPlanner(t, WithMatrixCache(cache))
	if cache.gets != 2 || cache.puts != 1 {
		t.Fatalf("warm cache: gets=%d puts=%d", cache.gets, cache.puts)
	}
	if second.Matrix() != first.Matrix() {
		t.Fatalf("warm planner did not reuse cached matrix")
	}
}

func TestNewPlannerIgnoresCacheFailure(t *testing.T) {
	cache := &memMatrixCache{getErr: errors.New("connection refused")}

	p := newCityPlanner(t, WithMatrixCache(cache))
	if d, ok := p.Matrix().Distance(1, 10); !ok || d != 80 {
		t.Fatalf("distance(1, 10) = %d, %v", d, ok)
	}
}

func TestNewPlannerRejectsStaleCache(t *testing.T) {
	g, err := graph.New(graphfile.Default())
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	small, _ := buildGraph(t, lineDescriptor())
	cache := &memMatrixCache{entries: map[string]*shortestpath.Matrix{g.Fingerprint(): shortestpath.AllPairs(small)}}

	p := newCityPlanner(t, WithMatrixCache(cache))
	if p.Matrix().Size() != 50 {
		t.Fatalf("matrix size = %d, want 50", p.Matrix().Size())
	}
	if cache.puts != 1 {
		t.Fatalf("puts = %d, want 1", cache.puts)
	}
}

func TestNewPlannerRejectsCorruptCache(t *testing.T) {
	g, err := graph.New(graphfile.Default())
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	rows := shortestpath.AllPairs(g).Rows()
	rows[1][10] = 3 // right size, wrong contents
	bad, err := shortestpath.FromRows(rows)
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	cache := &memMatrixCache{entries: map[string]*shortestpath.Matrix{g.Fingerprint(): bad}}

	p := newCityPlanner(t, WithMatrixCache(cache))
	if d, ok := p.Matrix().Distance(1, 10); !ok || d != 80 {
		t.Fatalf("distance(1, 10) = %d, %v, want 80", d, ok)
	}
	if cache.puts != 1 {
		t.Fatalf("puts = %d, want 1", cache.puts)
	}
}

func TestPlannerPath(t *testing.T) {
	p := newCityPlanner(t)

	path, err := p.Path(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path.Distance != 80 || !slices.Equal(path.Nodes, []int{1, 4, 7, 10}) {
		t.Fatalf("path = %+v", path)
	}

	if _, err := p.Path(context.Background(), 1, 99); !errors.Is(err, graph.ErrNodeOutOfRange) {
		t.Fatalf("err = %v, want ErrNodeOutOfRange", err)
	}
}
