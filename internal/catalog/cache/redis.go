package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kasir_backend/internal/catalog/repository"

	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:snapshot:v1"

// Redis shares one snapshot between replicas. Expiry is delegated to the key TTL.
type Redis struct {
	client redis.Cmdable
	key    string
}

// NewRedis creates a Redis tier storing under "<prefix>:catalog:snapshot:v1".
func NewRedis(client redis.Cmdable, prefix string) *Redis {
	key := catalogKey
	if prefix != "" {
		key = prefix + ":" + catalogKey
	}
	return &Redis{client: client, key: key}
}

// Get loads and decodes the snapshot. A missing key is a miss, not an error.
func (r *Redis) Get(ctx context.Context) (repository.Catalog, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return repository.Catalog{}, false, nil
	}
	if err != nil {
		return repository.Catalog{}, false, fmt.Errorf("redis get catalog: %w", err)
	}

	var catalog repository.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return repository.Catalog{}, false, fmt.Errorf("decode cached catalog: %w", err)
	}
	return catalog, true, nil
}

// Set stores the snapshot with ttl. Non-positive ttl is skipped because Redis
// would treat it as "no expiry".
func (r *Redis) Set(ctx context.Context, catalog repository.Catalog, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set catalog: %w", err)
	}
	return nil
}

// Name identifies the tier in logs.
func (r *Redis) Name() string {
	return "redis"
}
