package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/clinichq/portal-api/pkg/logging"
)

type countingRepo struct {
	inner Repository
	calls int
}

func (c *countingRepo) ListServices(ctx context.Context) ([]Service, error) {
	c.calls++
	return c.inner.ListServices(ctx)
}

func newTestCache(t *testing.T) (*CachedRepository, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inner := &countingRepo{inner: NewInMemoryRepository(fixtureCatalog()...)}
	cache := NewCachedRepository(inner, client, time.Minute, logging.Default())
	return cache, inner, mr
}

func TestCachedRepositoryServesFromCache(t *testing.T) {
	cache, inner, _ := newTestCache(t)
	ctx := context.Background()

	first, err := cache.ListServices(ctx)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	second, err := cache.ListServices(ctx)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("expected single backend read, got %d", inner.calls)
	}
	if len(first) != len(second) || first[0].Name != second[0].Name {
		t.Fatalf("cache returned different catalog: %+v vs %+v", first, second)
	}
}

func TestCachedRepositoryExpires(t *testing.T) {
	cache, inner, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.ListServices(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.ListServices(ctx); err != nil {
		t.Fatalf("list after expiry: %v", err)
	}

	if inner.calls != 2 {
		t.Fatalf("expected backend re-read after ttl, got %d calls", inner.calls)
	}
}

func TestCachedRepositoryRecoversFromCorruptEntry(t *testing.T) {
	cache, _, mr := newTestCache(t)
	ctx := context.Background()

	mr.Set(cacheKey, "{not json")

	services, err := cache.ListServices(ctx)
	if err != nil {
		t.Fatalf("list with corrupt cache: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected catalog despite corrupt cache, got %+v", services)
	}
}

func TestCachedRepositoryFallsThroughWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inner := &countingRepo{inner: NewInMemoryRepository(fixtureCatalog()...)}
	cache := NewCachedRepository(inner, client, time.Minute, logging.Default())
	mr.Close()

	services, err := cache.ListServices(context.Background())
	if err != nil {
		t.Fatalf("expected fallthrough to backend, got %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected catalog from backend, got %+v", services)
	}
}
