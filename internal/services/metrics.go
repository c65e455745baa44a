package services

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("fuel-route-service/services")

var (
	// planTotal counts plan computations by outcome
	planTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_plans_total",
		Help: "Total route plans by outcome",
	}, []string{"outcome"})

	planDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_plan_duration_seconds",
		Help:    "Route plan computation time in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	})

	planRefuels = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_plan_refuels",
		Help:    "Refuel stops per successful plan",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
	})

	planDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_plan_distance",
		Help:    "Total distance per successful plan",
		Buckets: prometheus.ExponentialBuckets(10, 2, 12),
	})

	// matrixCacheLookups counts distance matrix cache lookups by result
	matrixCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_matrix_cache_lookups_total",
		Help: "Distance matrix cache lookups by result",
	}, []string{"result"})
)

func planOutcome(err error, empty bool) string {
	switch {
	case err == nil && empty:
		return "empty"
	case err == nil:
		return "ok"
	case IsInputError(err):
		return "invalid"
	case IsPlanningFailure(err):
		return "infeasible"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
