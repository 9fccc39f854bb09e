package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinichq/portal-api/pkg/logging"
)

const cacheKey = "catalog:services"

// CachedRepository fronts a Repository with a Redis cache. The catalog is
// effectively immutable between deployments, so a short TTL is safe. Any
// Redis failure falls through to the inner repository.
type CachedRepository struct {
	inner  Repository
	client redis.UniversalClient
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedRepository wraps inner with a Redis cache.
func NewCachedRepository(inner Repository, client redis.UniversalClient, ttl time.Duration, logger *logging.Logger) *CachedRepository {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

// ListServices serves from cache when possible and repopulates on miss.
func (r *CachedRepository) ListServices(ctx context.Context) ([]Service, error) {
	if r.client != nil {
		raw, err := r.client.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var services []Service
			if err := json.Unmarshal(raw, &services); err == nil {
				return services, nil
			}
			// Corrupt entry: drop it and fall through.
			r.client.Del(ctx, cacheKey)
		} else if err != redis.Nil {
			r.logger.Warn("catalog cache: read failed", "error", err)
		}
	}

	services, err := r.inner.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	if r.client != nil {
		if raw, err := json.Marshal(services); err == nil {
			if err := r.client.Set(ctx, cacheKey, raw, r.ttl).Err(); err != nil {
				r.logger.Warn("catalog cache: write failed", "error", err)
			}
		}
	}
	return services, nil
}

var _ Repository = (*CachedRepository)(nil)
