package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinichq/portal-api/internal/auth"
)

// Repository defines the interface for user and staff storage.
type Repository interface {
	UpsertUser(ctx context.Context, email string, req *UpsertUserRequest) (*User, error)
	GetUser(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	PromoteUser(ctx context.Context, email string) (*User, error)
	AddDoctor(ctx context.Context, d *Doctor) error
	ListDoctors(ctx context.Context) ([]Doctor, error)
	DeleteDoctor(ctx context.Context, email string) error
}

// Querier is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores directory records in Postgres.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a directory repo backed by pgx.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("directory: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// UpsertUser creates or replaces the profile fields for an identity. The
// role column is deliberately outside the update set: promotion is its own
// operation and a profile write must never demote an admin.
func (r *PostgresRepository) UpsertUser(ctx context.Context, email string, req *UpsertUserRequest) (*User, error) {
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	var u User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, phone)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			updated_at = now()
		RETURNING email, name, phone, role, updated_at`,
		email, req.Name, req.Phone,
	).Scan(&u.Email, &u.Name, &u.Phone, &u.Role, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("directory: upsert user: %w", err)
	}
	return &u, nil
}

// GetUser fetches one user record.
func (r *PostgresRepository) GetUser(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
		SELECT email, name, phone, role, updated_at
		FROM users WHERE email = $1`, email,
	).Scan(&u.Email, &u.Name, &u.Phone, &u.Role, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("directory: get user: %w", err)
	}
	return &u, nil
}

// ListUsers returns every directory user.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email, name, phone, role, updated_at
		FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("directory: list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Email, &u.Name, &u.Phone, &u.Role, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("directory: scan user: %w", err)
		}
		out = append(out, u)
	}
	if out == nil {
		out = []User{}
	}
	return out, rows.Err()
}

// PromoteUser sets the role to admin. An absent record is a typed
// not-found, never a silent zero-row update.
func (r *PostgresRepository) PromoteUser(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
		UPDATE users SET role = 'admin', updated_at = now()
		WHERE email = $1
		RETURNING email, name, phone, role, updated_at`, email,
	).Scan(&u.Email, &u.Name, &u.Phone, &u.Role, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("directory: promote user: %w", err)
	}
	return &u, nil
}

// AddDoctor inserts a staff record.
func (r *PostgresRepository) AddDoctor(ctx context.Context, d *Doctor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (email, name, specialty, image_url)
		VALUES ($1, $2, $3, $4)`,
		d.Email, d.Name, d.Specialty, d.ImageURL)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDoctorExists
		}
		return fmt.Errorf("directory: add doctor: %w", err)
	}
	return nil
}

// ListDoctors returns every staff record.
func (r *PostgresRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email, name, specialty, image_url, created_at
		FROM doctors ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("directory: list doctors: %w", err)
	}
	defer rows.Close()

	var out []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.Email, &d.Name, &d.Specialty, &d.ImageURL, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("directory: scan doctor: %w", err)
		}
		out = append(out, d)
	}
	if out == nil {
		out = []Doctor{}
	}
	return out, rows.Err()
}

// DeleteDoctor removes a staff record by email.
func (r *PostgresRepository) DeleteDoctor(ctx context.Context, email string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("directory: delete doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

// RoleResolver adapts the directory to the admin gate's role lookup.
type RoleResolver struct {
	repo Repository
}

// NewRoleResolver wraps a repository for the admin gate.
func NewRoleResolver(repo Repository) RoleResolver {
	return RoleResolver{repo: repo}
}

// FindRole resolves the stored role for an identity; a missing record maps
// to the gate's not-found sentinel so the gate denies instead of erroring.
func (r RoleResolver) FindRole(ctx context.Context, email string) (string, error) {
	u, err := r.repo.GetUser(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", auth.ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return string(u.Role), nil
}

var _ auth.RoleFinder = RoleResolver{}

// InMemoryRepository is a stub implementation of Repository for tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	users   map[string]*User
	doctors map[string]*Doctor
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:   make(map[string]*User),
		doctors: make(map[string]*Doctor),
	}
}

func (r *InMemoryRepository) UpsertUser(ctx context.Context, email string, req *UpsertUserRequest) (*User, error) {
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		u = &User{Email: email, Role: RolePatient}
		r.users[email] = u
	}
	u.Name = req.Name
	u.Phone = req.Phone
	u.UpdatedAt = time.Now().UTC()
	copied := *u
	return &copied, nil
}

func (r *InMemoryRepository) GetUser(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *InMemoryRepository) ListUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *InMemoryRepository) PromoteUser(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Role = RoleAdmin
	u.UpdatedAt = time.Now().UTC()
	copied := *u
	return &copied, nil
}

func (r *InMemoryRepository) AddDoctor(ctx context.Context, d *Doctor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[d.Email]; ok {
		return ErrDoctorExists
	}
	d.CreatedAt = time.Now().UTC()
	copied := *d
	r.doctors[d.Email] = &copied
	return nil
}

func (r *InMemoryRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Doctor{}
	for _, d := range r.doctors {
		out = append(out, *d)
	}
	return out, nil
}

func (r *InMemoryRepository) DeleteDoctor(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[email]; !ok {
		return ErrDoctorNotFound
	}
	delete(r.doctors, email)
	return nil
}

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*InMemoryRepository)(nil)
)
