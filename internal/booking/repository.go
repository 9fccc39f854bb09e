package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository defines the interface for booking storage.
type Repository interface {
	// Create inserts the booking unless one already exists for its
	// (treatment, date, patient) triple. The bool reports whether a new
	// row was created; when false the returned booking is the existing one.
	Create(ctx context.Context, req *CreateBookingRequest) (*Booking, bool, error)
	ListByPatient(ctx context.Context, patient string) ([]Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	SlotsBookedOn(ctx context.Context, date string) (map[string][]string, error)
}

// Querier is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores bookings in Postgres.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a booking repo backed by pgx.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const bookingColumns = `id, patient, patient_name, date, treatment, slot, created_at`

// Create relies on the unique index over (treatment, date, patient): the
// conditional insert is a single statement, so two concurrent submissions
// of the same triple cannot both insert. The loser reads back the winner.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateBookingRequest) (*Booking, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	id := uuid.New()
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (id, patient, patient_name, date, treatment, slot)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (treatment, date, patient) DO NOTHING
		RETURNING created_at`,
		id, req.Patient, req.PatientName, req.Date, req.Treatment, req.Slot,
	).Scan(&createdAt)
	if err == nil {
		return &Booking{
			ID:          id.String(),
			Patient:     req.Patient,
			PatientName: req.PatientName,
			Date:        req.Date,
			Treatment:   req.Treatment,
			Slot:        req.Slot,
			CreatedAt:   createdAt,
		}, true, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, fmt.Errorf("booking: insert failed: %w", err)
	}

	// Conflict: surface the existing booking for the triple.
	existing, err := r.findByNaturalKey(ctx, req.Treatment, req.Date, req.Patient)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *PostgresRepository) findByNaturalKey(ctx context.Context, treatment, date, patient string) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE treatment = $1 AND date = $2 AND patient = $3`,
		treatment, date, patient)
	return scanBooking(row)
}

// ListByPatient returns every booking owned by the patient, newest first.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patient string) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE patient = $1
		ORDER BY date DESC, created_at DESC`, patient)
	if err != nil {
		return nil, fmt.Errorf("booking: list by patient: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.Patient, &b.PatientName, &b.Date, &b.Treatment, &b.Slot, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("booking: scan: %w", err)
		}
		out = append(out, b)
	}
	if out == nil {
		out = []Booking{}
	}
	return out, rows.Err()
}

// GetByID fetches a single booking.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1`, id)
	return scanBooking(row)
}

// SlotsBookedOn returns the taken slots for a date keyed by treatment.
func (r *PostgresRepository) SlotsBookedOn(ctx context.Context, date string) (map[string][]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT treatment, slot FROM bookings WHERE date = $1`, date)
	if err != nil {
		return nil, fmt.Errorf("booking: slots booked on %s: %w", date, err)
	}
	defer rows.Close()

	booked := make(map[string][]string)
	for rows.Next() {
		var treatment, slot string
		if err := rows.Scan(&treatment, &slot); err != nil {
			return nil, fmt.Errorf("booking: scan slot: %w", err)
		}
		booked[treatment] = append(booked[treatment], slot)
	}
	return booked, rows.Err()
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.Patient, &b.PatientName, &b.Date, &b.Treatment, &b.Slot, &b.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("booking: select failed: %w", err)
	}
	return &b, nil
}

// InMemoryRepository is a stub implementation of Repository for tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking  // id -> booking
	byTriple map[[3]string]string // natural key -> id
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		bookings: make(map[string]*Booking),
		byTriple: make(map[[3]string]string),
	}
}

// Create applies the same duplicate-suppression contract as the store.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateBookingRequest) (*Booking, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	key := [3]string{req.Treatment, req.Date, req.Patient}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byTriple[key]; ok {
		return r.bookings[id], false, nil
	}

	b := &Booking{
		ID:          uuid.New().String(),
		Patient:     req.Patient,
		PatientName: req.PatientName,
		Date:        req.Date,
		Treatment:   req.Treatment,
		Slot:        req.Slot,
		CreatedAt:   time.Now().UTC(),
	}
	r.bookings[b.ID] = b
	r.byTriple[key] = b.ID
	return b, true, nil
}

// ListByPatient returns every booking for the patient.
func (r *InMemoryRepository) ListByPatient(ctx context.Context, patient string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Booking{}
	for _, b := range r.bookings {
		if b.Patient == patient {
			out = append(out, *b)
		}
	}
	return out, nil
}

// GetByID retrieves a booking by storage id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// SlotsBookedOn returns taken slots for a date keyed by treatment.
func (r *InMemoryRepository) SlotsBookedOn(ctx context.Context, date string) (map[string][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booked := make(map[string][]string)
	for _, b := range r.bookings {
		if b.Date == date {
			booked[b.Treatment] = append(booked[b.Treatment], b.Slot)
		}
	}
	return booked, nil
}

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*InMemoryRepository)(nil)
)
