package main

import (
	"context"
	"database/sql"
	"errors"
	"fuel-route-service/internal/adapters/graphfile"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/obs"
	"log/slog"
	"os"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		logger.Error("parse DB_DRIVER", "err", err)
		os.Exit(1)
	}

	conn, err := db.Open(dialect, cfg.DatabaseURL)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := initAndSeed(context.Background(), conn, dialect, cfg, logger); err != nil {
		logger.Error("dbtool failed", "err", err)
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, cfg config.Config, logger *slog.Logger) error {
	logger.Info("initializing database schema", "driver", dialect)
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	logger.Info("schema ready")

	logger.Info("seeding database", "path", cfg.SeedPath)
	if err := repositories.SeedFromJSON(ctx, conn, dialect, cfg.SeedPath); err != nil {
		return err
	}

	// Seed files may omit the network; store GRAPH_PATH or the built-in city then.
	graphs := repositories.NewSQLGraphRepository(conn, dialect)
	if _, err := graphs.LoadGraph(ctx); errors.Is(err, repositories.ErrNoGraph) {
		desc, err := (&graphfile.FileGraphProvider{Path: cfg.GraphPath}).LoadGraph(ctx)
		if err != nil {
			return err
		}
		if err := graphs.SaveGraph(ctx, desc); err != nil {
			return err
		}
		logger.Info("stored graph", "nodes", desc.NodeCount, "edges", len(desc.Edges))
	} else if err != nil {
		return err
	}

	logger.Info("seeding complete")
	return nil
}
