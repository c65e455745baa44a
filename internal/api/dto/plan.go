package dto

import (
	"github.com/go-playground/validator/v10"
)

var planValidate = validator.New()

type PlanRequestItem struct {
	Destination int `json:"destination" validate:"gte=0"`
	Weight      int `json:"weight" validate:"gt=0"`
}

// PlanRequest is the body of POST /plans. Missing capacities fall back to
// the server defaults.
type PlanRequest struct {
	TankCapacity      *int              `json:"tank_capacity" validate:"omitempty,gt=0"`
	CargoCapacity     *int              `json:"cargo_capacity" validate:"omitempty,gte=0"`
	Requests          []PlanRequestItem `json:"requests" validate:"max=1000,dive"`
	UseStoredRequests bool              `json:"use_stored_requests"`
}

func (r *PlanRequest) Validate() error {
	return planValidate.Struct(r)
}

type StopResponse struct {
	Node   int  `json:"node"`
	Refuel bool `json:"refuel,omitempty"`
}

type DetourResponse struct {
	From     int `json:"from"`
	Station  int `json:"station"`
	To       int `json:"to"`
	Distance int `json:"distance"`
}

type DeliveryResponse struct {
	RequestID   int `json:"request_id,omitempty"`
	Destination int `json:"destination"`
	Weight      int `json:"weight"`
}

type PlanResponse struct {
	PlanID        string             `json:"plan_id"`
	Depot         *int               `json:"depot"`
	TankCapacity  int                `json:"tank_capacity"`
	CargoCapacity int                `json:"cargo_capacity"`
	Path          string             `json:"path"`
	Stops         []StopResponse     `json:"stops"`
	Deliveries    []DeliveryResponse `json:"deliveries"`
	Skipped       []DeliveryResponse `json:"skipped"`
	Detours       []DetourResponse   `json:"detours"`
	TotalDistance int                `json:"total_distance"`
	RefuelCount   int                `json:"refuel_count"`
}
