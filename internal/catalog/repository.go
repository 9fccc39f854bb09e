package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository reads the service catalog.
type Repository interface {
	ListServices(ctx context.Context) ([]Service, error)
}

// Querier is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository reads services from Postgres.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a catalog repo backed by pgx.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// ListServices returns the full catalog in insertion order.
func (r *PostgresRepository) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slots FROM services ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Slots); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		out = append(out, svc)
	}
	if out == nil {
		out = []Service{}
	}
	return out, rows.Err()
}

// InMemoryRepository is a stub catalog for tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	services []Service
}

// NewInMemoryRepository creates a catalog seeded with the given services.
func NewInMemoryRepository(services ...Service) *InMemoryRepository {
	return &InMemoryRepository{services: services}
}

// ListServices returns a copy of the seeded catalog.
func (r *InMemoryRepository) ListServices(ctx context.Context) ([]Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Service, len(r.services))
	copy(out, r.services)
	return out, nil
}
