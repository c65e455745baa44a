package domain

import (
	"errors"
	"fmt"
)

// ErrOverCapacity is returned when a request does not fit the remaining cargo capacity.
var ErrOverCapacity = errors.New("cargo capacity exceeded")

// Delivery vehicle with a fuel tank and a cargo hold bounded by weight.
type Vehicle struct {
	VehicleID     int
	TankCapacity  int
	CargoCapacity int
	Load          []Request

	loadedWeight int
}

func NewVehicle(id, tankCapacity, cargoCapacity int) *Vehicle {
	return &Vehicle{
		VehicleID:     id,
		TankCapacity:  tankCapacity,
		CargoCapacity: cargoCapacity,
	}
}

// Cargo capacity not used by the current load.
func (v *Vehicle) RemainingCapacity() int {
	return v.CargoCapacity - v.loadedWeight
}

// Load a single request onto the vehicle.
// A request whose weight equals the remaining capacity still fits.
func (v *Vehicle) LoadRequest(req Request) error {
	if req.Weight > v.RemainingCapacity() {
		return fmt.Errorf(
			"load vehicle %d: request weight %d, remaining %d: %w",
			v.VehicleID, req.Weight, v.RemainingCapacity(), ErrOverCapacity,
		)
	}
	v.Load = append(v.Load, req)
	v.loadedWeight += req.Weight
	return nil
}

// Load multiple requests onto the vehicle, stopping at the first that does not fit.
func (v *Vehicle) LoadMultiple(reqs []Request) error {
	for _, req := range reqs {
		if err := v.LoadRequest(req); err != nil {
			return err
		}
	}

	return nil
}

// Unload everything from the vehicle.
func (v *Vehicle) Clear() {
	v.Load = nil
	v.loadedWeight = 0
}
