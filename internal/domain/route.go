package domain

// Represents a single node visited by the route.
// Refuel stops are gas stations entered as a detour, not delivery destinations.
type Stop struct {
	Node   int
	Refuel bool
}

// A side trip through a gas station inserted between two consecutive path nodes.
// Distance is dist(From, Station) + dist(Station, To).
type Detour struct {
	From     int
	Station  int
	To       int
	Distance int
}

// Represents the planned trip for a single vehicle.
// A RoutePlan is the output of the planner: the depot it starts from,
// the node-by-node stop list, the carried and skipped requests and
// the aggregate distance and refuel metrics.
// It is immutable planning data and contains no side effects.
type RoutePlan struct {
	PlanID        string
	Depot         int
	TankCapacity  int
	CargoCapacity int
	Stops         []Stop
	Deliveries    []Request
	Skipped       []Request
	Detours       []Detour
	TotalDistance int
	RefuelCount   int
}

// Empty reports whether the plan carries no deliveries.
func (p *RoutePlan) Empty() bool {
	return len(p.Deliveries) == 0
}
