package services

import (
	"errors"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/shortestpath"
)

var (
	ErrInvalidRequest    = errors.New("invalid delivery request")
	ErrInvalidCapacity   = errors.New("invalid capacity")
	ErrNoDepotSelected   = errors.New("no depot selected")
	ErrNoGasStationFound = errors.New("no gas station found")
	ErrEdgeExceedsTank   = errors.New("road segment longer than tank capacity")
)

// IsInputError reports whether err was caused by the caller's requests or capacities.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, graph.ErrNodeOutOfRange)
}

// IsPlanningFailure reports whether err means no feasible route exists for valid input.
func IsPlanningFailure(err error) bool {
	return errors.Is(err, shortestpath.ErrUnreachable) ||
		errors.Is(err, ErrNoDepotSelected) ||
		errors.Is(err, ErrNoGasStationFound) ||
		errors.Is(err, ErrEdgeExceedsTank)
}
