package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	DBDriver       string
	GraphPath      string
	GraphURL       string
	GraphAPIKey    string
	SeedPath       string
	RedisAddr      string
	MatrixCacheTTL time.Duration
	TankCapacity   int
	CargoCapacity  int
	LogLevel       string
	LogFormat      string
	PlanRateLimit  float64
	PlanRateBurst  int
}

// Load reads an optional .env file and then the environment.
// A missing .env is not an error; malformed numbers are.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: Get("DATABASE_URL", ""),
		DBDriver:    Get("DB_DRIVER", "pgx"),
		GraphPath:   Get("GRAPH_PATH", ""),
		GraphURL:    Get("GRAPH_URL", ""),
		GraphAPIKey: Get("GRAPH_API_KEY", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/deliveries.json"),
		RedisAddr:   Get("REDIS_ADDR", ""),
		LogLevel:    Get("LOG_LEVEL", "info"),
		LogFormat:   Get("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.MatrixCacheTTL, err = GetDuration("MATRIX_CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.TankCapacity, err = GetInt("TANK_CAPACITY", 250); err != nil {
		return Config{}, err
	}
	if cfg.CargoCapacity, err = GetInt("CARGO_CAPACITY", 10); err != nil {
		return Config{}, err
	}
	if cfg.PlanRateLimit, err = GetFloat("PLAN_RATE_LIMIT", 5); err != nil {
		return Config{}, err
	}
	if cfg.PlanRateBurst, err = GetInt("PLAN_RATE_BURST", 10); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Get returns the environment value for key or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", key, v, err)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number: %w", key, v, err)
	}
	return f, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration: %w", key, v, err)
	}
	return d, nil
}
