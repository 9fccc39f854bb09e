package catalog

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresListServices(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectQuery("SELECT id, name, slots FROM services").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slots"}).
			AddRow(1, "Teeth Cleaning", []string{"09:00", "10:00"}).
			AddRow(2, "Whitening", []string{"13:00"}))

	services, err := repo.ListServices(context.Background())
	if err != nil {
		t.Fatalf("list services: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}
	if services[0].Name != "Teeth Cleaning" || len(services[0].Slots) != 2 {
		t.Fatalf("unexpected first service: %+v", services[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresListServicesEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectQuery("SELECT id, name, slots FROM services").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slots"}))

	services, err := repo.ListServices(context.Background())
	if err != nil {
		t.Fatalf("list services: %v", err)
	}
	if services == nil || len(services) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", services)
	}
}
