package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"email", "name", "phone", "role", "updated_at"})
}

func TestPostgresUpsertUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("pat@example.com", "Pat Doe", "+15550100").
		WillReturnRows(userRows().AddRow("pat@example.com", "Pat Doe", "+15550100", "patient", time.Now()))

	u, err := repo.UpsertUser(context.Background(), "pat@example.com", &UpsertUserRequest{
		Name: "Pat Doe", Phone: "+15550100",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if u.Role != RolePatient {
		t.Fatalf("expected patient role, got %s", u.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresUpsertUserRejectsBadEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	if _, err := repo.UpsertUser(context.Background(), "not-an-email", &UpsertUserRequest{}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestPostgresPromoteUserNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectQuery("UPDATE users SET role = 'admin'").
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.PromoteUser(context.Background(), "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPostgresDeleteDoctorNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectExec("DELETE FROM doctors").
		WithArgs("ghost@example.com").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.DeleteDoctor(context.Background(), "ghost@example.com"); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestPostgresListUsersEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectQuery("SELECT email, name, phone, role, updated_at").
		WillReturnRows(userRows())

	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", users)
	}
}
