package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/shortestpath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "route:matrix:"

// RedisMatrixCache keeps distance matrices in Redis as JSON rows with a TTL.
type RedisMatrixCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMatrixCache(client *redis.Client, ttl time.Duration) *RedisMatrixCache {
	return &RedisMatrixCache{Client: client, TTL: ttl}
}

type matrixPayload struct {
	Size int     `json:"size"`
	Rows [][]int `json:"rows"`
}

func (r *RedisMatrixCache) GetMatrix(ctx context.Context, key string) (_ *shortestpath.Matrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.redis.GetMatrix")(&err)

	if r.Client == nil {
		return nil, false, errors.New("matrix cache: redis client is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	data, err := r.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: redis get key=%q: %w", key, err)
	}

	var p matrixPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("get matrix cache: decode key=%q: %w", key, err)
	}
	if p.Size != len(p.Rows) {
		return nil, false, fmt.Errorf("get matrix cache key=%q: size %d, %d rows: %w", key, p.Size, len(p.Rows), shortestpath.ErrBadMatrix)
	}

	m, err := shortestpath.FromRows(p.Rows)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache key=%q: %w", key, err)
	}
	return m, true, nil
}

// PutMatrix overwrites the entry for key. A zero TTL keeps it forever.
func (r *RedisMatrixCache) PutMatrix(ctx context.Context, key string, m *shortestpath.Matrix) (err error) {
	defer obs.Time(ctx, "matrix.cache.redis.PutMatrix")(&err)

	if r.Client == nil {
		return errors.New("matrix cache: redis client is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert matrix cache: key must not be empty")
	}
	if m == nil {
		return errors.New("insert matrix cache: matrix is nil")
	}

	data, err := json.Marshal(matrixPayload{Size: m.Size(), Rows: m.Rows()})
	if err != nil {
		return fmt.Errorf("insert matrix cache: encode: %w", err)
	}

	if err := r.Client.Set(ctx, redisKeyPrefix+key, data, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert matrix cache: redis set key=%q: %w", key, err)
	}
	return nil
}
