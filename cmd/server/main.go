package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/adapters/graphfile"
	"fuel-route-service/internal/adapters/graphhttp"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/api"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, YAML) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	var (
		conn    *sql.DB
		dialect db.Dialect
		err     error
	)
	if cfg.DatabaseURL != "" {
		if dialect, err = db.ParseDialect(cfg.DBDriver); err != nil {
			return err
		}
		if conn, err = db.Open(dialect, cfg.DatabaseURL); err != nil {
			return err
		}
		defer conn.Close()

		// Initialize schema and seed demo data on startup for local runs.
		if err := initAndSeed(ctx, conn, dialect, cfg.SeedPath, logger); err != nil {
			return err
		}
	} else {
		logger.Info("DATABASE_URL not set; running without stored requests")
	}

	desc, err := loadGraph(ctx, cfg, conn, dialect, logger)
	if err != nil {
		return err
	}
	g, err := graph.New(desc)
	if err != nil {
		return err
	}

	opts := []services.PlannerOption{services.WithLogger(logger)}
	mc, closeCache := matrixCache(ctx, cfg, conn, dialect, logger)
	defer closeCache()
	if mc != nil {
		opts = append(opts, services.WithMatrixCache(mc))
	}
	planner, err := services.NewPlanner(ctx, g, opts...)
	if err != nil {
		return err
	}

	routerCfg := api.RouterConfig{
		Planner:       planner,
		Logger:        logger,
		TankCapacity:  cfg.TankCapacity,
		CargoCapacity: cfg.CargoCapacity,
	}
	if conn != nil {
		routerCfg.Repo = repositories.NewSQLRequestRepository(conn, dialect)
	}
	if cfg.PlanRateLimit > 0 {
		routerCfg.PlanLimiter = rate.NewLimiter(rate.Limit(cfg.PlanRateLimit), cfg.PlanRateBurst)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "nodes", g.NodeCount(), "graph", g.Fingerprint())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string, logger *slog.Logger) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}
	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		logger.Info("seed file not found; skipping seed", "path", seedPath)
		return nil
	}
	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// loadGraph prefers GRAPH_URL, then GRAPH_PATH, then the stored network,
// then the built-in city.
func loadGraph(ctx context.Context, cfg config.Config, conn *sql.DB, dialect db.Dialect, logger *slog.Logger) (domain.GraphDescriptor, error) {
	var provider ports.GraphProvider = &graphfile.FileGraphProvider{Path: cfg.GraphPath}
	switch {
	case cfg.GraphURL != "":
		remote, err := graphhttp.NewHTTPGraphProvider(cfg.GraphURL, cfg.GraphAPIKey)
		if err != nil {
			return domain.GraphDescriptor{}, err
		}
		provider = remote
	case cfg.GraphPath == "" && conn != nil:
		provider = repositories.NewSQLGraphRepository(conn, dialect)
	}

	desc, err := provider.LoadGraph(ctx)
	if errors.Is(err, repositories.ErrNoGraph) {
		logger.Info("no stored graph; using built-in city network")
		return graphfile.Default(), nil
	}
	return desc, err
}

// matrixCache picks Redis when configured and reachable, else the SQL table.
// matrixCache picks the distance matrix cache: Redis when reachable, else the
// SQL table, else none. The returned func releases what matrixCache opened.
func matrixCache(ctx context.Context, cfg config.Config, conn *sql.DB, dialect db.Dialect, logger *slog.Logger) (ports.MatrixCache, func()) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := client.Ping(pingCtx).Err()
		if err == nil {
			return cache.NewRedisMatrixCache(client, cfg.MatrixCacheTTL), func() {
				if err := client.Close(); err != nil {
					logger.Warn("close redis", "err", err)
				}
			}
		}
		logger.Warn("redis unavailable; falling back", "addr", cfg.RedisAddr, "err", err)
		_ = client.Close()
	}
	if conn != nil {
		return cache.NewSQLMatrixCache(conn, dialect), func() {}
	}
	return nil, func() {}
}
