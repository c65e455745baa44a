package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/shortestpath"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type PlanDeliveriesRequest struct {
	Requests      []domain.Request
	TankCapacity  int
	CargoCapacity int
}

// Planner owns an immutable graph and its distance matrix and computes
// route plans against them. It is safe for concurrent use.
type Planner struct {
	graph          *graph.Graph
	matrix         *shortestpath.Matrix
	logger         *slog.Logger
	legConcurrency int
	newID          func() string
}

type PlannerOption func(*plannerConfig)

type plannerConfig struct {
	cache          ports.MatrixCache
	logger         *slog.Logger
	legConcurrency int
	newID          func() string
}

// WithMatrixCache loads the distance matrix from c when present and stores
// it after computing it otherwise. Cache failures are logged, never fatal.
func WithMatrixCache(c ports.MatrixCache) PlannerOption {
	return func(cfg *plannerConfig) { cfg.cache = c }
}

func WithLogger(l *slog.Logger) PlannerOption {
	return func(cfg *plannerConfig) { cfg.logger = l }
}

// WithLegConcurrency bounds how many leg queries run at once.
func WithLegConcurrency(n int) PlannerOption {
	return func(cfg *plannerConfig) { cfg.legConcurrency = n }
}

// WithIDGenerator replaces the uuid plan id generator.
func WithIDGenerator(fn func() string) PlannerOption {
	return func(cfg *plannerConfig) { cfg.newID = fn }
}

// NewPlanner prepares a planner for g. The all-pairs distance matrix is
// computed (or loaded from cache) exactly once here.
func NewPlanner(ctx context.Context, g *graph.Graph, opts ...PlannerOption) (*Planner, error) {
	if g == nil {
		return nil, errors.New("new planner: graph must be non-nil")
	}

	cfg := plannerConfig{
		logger:         slog.Default(),
		legConcurrency: defaultLegConcurrency,
		newID:          func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := loadOrComputeMatrix(ctx, g, cfg.cache, cfg.logger)

	return &Planner{
		graph:          g,
		matrix:         m,
		logger:         cfg.logger,
		legConcurrency: cfg.legConcurrency,
		newID:          cfg.newID,
	}, nil
}

func loadOrComputeMatrix(ctx context.Context, g *graph.Graph, cache ports.MatrixCache, logger *slog.Logger) *shortestpath.Matrix {
	key := g.Fingerprint()

	if cache != nil {
		m, ok, err := cache.GetMatrix(ctx, key)
		switch {
		case err != nil:
			matrixCacheLookups.WithLabelValues("error").Inc()
			logger.Warn("distance matrix cache read failed", "graph", key, "err", err)
		case !ok:
			matrixCacheLookups.WithLabelValues("miss").Inc()
		default:
			if err := m.Check(g); err != nil {
				matrixCacheLookups.WithLabelValues("stale").Inc()
				logger.Warn("cached distance matrix rejected", "graph", key, "err", err)
				break
			}
			matrixCacheLookups.WithLabelValues("hit").Inc()
			logger.Info("distance matrix loaded from cache", "graph", key, "nodes", m.Size())
			return m
		}
	}

	start := time.Now()
	m := shortestpath.AllPairs(g)
	logger.Info("distance matrix computed", "graph", key, "nodes", g.NodeCount(), "dur_ms", time.Since(start).Milliseconds())

	if cache != nil {
		if err := cache.PutMatrix(ctx, key, m); err != nil {
			logger.Warn("distance matrix cache write failed", "graph", key, "err", err)
		}
	}
	return m
}

func (p *Planner) Graph() *graph.Graph { return p.graph }

func (p *Planner) Matrix() *shortestpath.Matrix { return p.matrix }

// Plan selects the load, picks the depot and assembles the route.
//
// Requests that do not fit the cargo capacity are reported as skipped. If
// nothing fits, the plan is empty: no depot, no stops, zero distance. Any
// unreachable leg fails the whole plan.
func (p *Planner) Plan(ctx context.Context, req PlanDeliveriesRequest) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	ctx, span := tracer.Start(ctx, "Planner.Plan", trace.WithAttributes(
		attribute.Int("plan.request_count", len(req.Requests)),
		attribute.Int("plan.tank_capacity", req.TankCapacity),
		attribute.Int("plan.cargo_capacity", req.CargoCapacity),
	))
	defer span.End()

	start := time.Now()
	plan, err := p.plan(ctx, req)
	planDuration.Observe(time.Since(start).Seconds())
	planTotal.WithLabelValues(planOutcome(err, plan != nil && plan.Empty())).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	planRefuels.Observe(float64(plan.RefuelCount))
	planDistance.Observe(float64(plan.TotalDistance))
	span.SetAttributes(
		attribute.Int("plan.depot", plan.Depot),
		attribute.Int("plan.distance", plan.TotalDistance),
		attribute.Int("plan.refuels", plan.RefuelCount),
	)

	p.logger.InfoContext(ctx, "route planned",
		"plan_id", plan.PlanID,
		"depot", plan.Depot,
		"deliveries", len(plan.Deliveries),
		"skipped", len(plan.Skipped),
		"distance", plan.TotalDistance,
		"refuels", plan.RefuelCount,
	)
	return plan, nil
}

func (p *Planner) plan(ctx context.Context, req PlanDeliveriesRequest) (*domain.RoutePlan, error) {
	if req.TankCapacity <= 0 {
		return nil, fmt.Errorf("plan deliveries: tank capacity %d: %w", req.TankCapacity, ErrInvalidCapacity)
	}
	if req.CargoCapacity < 0 {
		return nil, fmt.Errorf("plan deliveries: cargo capacity %d: %w", req.CargoCapacity, ErrInvalidCapacity)
	}
	for i, r := range req.Requests {
		if !p.graph.Contains(r.Destination) {
			return nil, fmt.Errorf(
				"plan deliveries: request #%d destination %d not in [0, %d): %w",
				i+1, r.Destination, p.graph.NodeCount(), ErrInvalidRequest,
			)
		}
	}

	vehicle := domain.NewVehicle(1, req.TankCapacity, req.CargoCapacity)
	sel, err := SelectLoad(vehicle, req.Requests)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	if len(sel.Loaded) == 0 {
		return &domain.RoutePlan{
			PlanID:        p.newID(),
			Depot:         domain.NoNode,
			TankCapacity:  req.TankCapacity,
			CargoCapacity: req.CargoCapacity,
			Skipped:       sel.Skipped,
		}, nil
	}

	depot, err := SelectDepot(p.graph, p.matrix, sel.Loaded)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	plan, err := AssembleRoute(ctx, p.graph, p.matrix, depot, sel.Loaded, req.TankCapacity, p.legConcurrency)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: depot %d: %w", depot, err)
	}

	plan.PlanID = p.newID()
	plan.CargoCapacity = req.CargoCapacity
	plan.Skipped = sel.Skipped
	return plan, nil
}

// Path answers a single shortest-path query on the planner's graph.
func (p *Planner) Path(ctx context.Context, src, dst int) (_ shortestpath.Path, err error) {
	defer obs.Time(ctx, "planner.Path")(&err)

	_, span := tracer.Start(ctx, "Planner.Path", trace.WithAttributes(
		attribute.Int("path.from", src),
		attribute.Int("path.to", dst),
	))
	defer span.End()

	path, err := shortestpath.ShortestPath(p.graph, src, dst)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return shortestpath.Path{}, err
	}
	return path, nil
}
