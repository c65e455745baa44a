package api

import (
	"fuel-route-service/internal/api/handlers"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterConfig carries the router's dependencies. Repo and PlanLimiter are optional.
type RouterConfig struct {
	Planner       *services.Planner
	Repo          ports.RequestRepository
	Logger        *slog.Logger
	PlanLimiter   *rate.Limiter
	TankCapacity  int
	CargoCapacity int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	graphHandler := &handlers.GraphHandler{Graph: cfg.Planner.Graph()}
	requestHandler := &handlers.RequestHandler{Repo: cfg.Repo}
	planHandler := &handlers.PlanHandler{
		Planner:       cfg.Planner,
		Repo:          cfg.Repo,
		TankCapacity:  cfg.TankCapacity,
		CargoCapacity: cfg.CargoCapacity,
	}
	pathHandler := &handlers.PathHandler{Finder: cfg.Planner}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/graph", graphHandler.Get)
	mux.HandleFunc("/requests", requestHandler.List)
	mux.Handle("/plans", rateLimit(cfg.PlanLimiter, http.HandlerFunc(planHandler.Plan)))
	mux.HandleFunc("/paths", pathHandler.Get)
	mux.Handle("/metrics", promhttp.Handler())

	return requestIDMiddleware(loggingMiddleware(logger, mux))
}
