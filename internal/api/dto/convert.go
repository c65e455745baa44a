package dto

import (
	"fuel-route-service/internal/adapters/textio"
	"fuel-route-service/internal/domain"
)

func NewDeliveries(reqs []domain.Request) []DeliveryResponse {
	out := make([]DeliveryResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, DeliveryResponse{RequestID: r.RequestID, Destination: r.Destination, Weight: r.Weight})
	}
	return out
}

// NewPlanResponse converts a plan. An empty plan has a null depot.
func NewPlanResponse(p *domain.RoutePlan) PlanResponse {
	res := PlanResponse{
		PlanID:        p.PlanID,
		TankCapacity:  p.TankCapacity,
		CargoCapacity: p.CargoCapacity,
		Path:          textio.FormatStops(p.Stops),
		Stops:         make([]StopResponse, 0, len(p.Stops)),
		Deliveries:    NewDeliveries(p.Deliveries),
		Skipped:       NewDeliveries(p.Skipped),
		Detours:       make([]DetourResponse, 0, len(p.Detours)),
		TotalDistance: p.TotalDistance,
		RefuelCount:   p.RefuelCount,
	}
	if p.Depot != domain.NoNode {
		depot := p.Depot
		res.Depot = &depot
	}
	for _, s := range p.Stops {
		res.Stops = append(res.Stops, StopResponse{Node: s.Node, Refuel: s.Refuel})
	}
	for _, d := range p.Detours {
		res.Detours = append(res.Detours, DetourResponse{From: d.From, Station: d.Station, To: d.To, Distance: d.Distance})
	}
	return res
}

func ToDomainRequests(items []PlanRequestItem) []domain.Request {
	out := make([]domain.Request, 0, len(items))
	for _, it := range items {
		out = append(out, domain.Request{Destination: it.Destination, Weight: it.Weight})
	}
	return out
}
