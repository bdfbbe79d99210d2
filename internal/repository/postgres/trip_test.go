package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

func tripRows(t *testing.T, trip *domain.Trip) *sqlmock.Rows {
	t.Helper()

	passengers, err := marshalPassengers(trip.Passengers)
	if err != nil {
		t.Fatalf("marshal passengers: %v", err)
	}

	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "initial_point", "final_point", "route", "hour",
		"seats", "price", "driver_id", "passengers", "version",
		"created_at", "updated_at",
	}).AddRow(
		trip.ID, trip.InitialPoint, trip.FinalPoint, trip.Route, trip.Hour,
		trip.Seats, trip.Price, trip.DriverID, passengers, trip.Version,
		now, now,
	)
}

func TestTripRepository_GetByID_RoundTripsPassengers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	trip := &domain.Trip{
		ID:           "trip-1",
		InitialPoint: "North Station",
		FinalPoint:   "Campus",
		Route:        "Main Ave",
		Hour:         "7:30",
		Seats:        2,
		Price:        3500,
		DriverID:     "driver-1",
		Passengers: []domain.Reservation{
			{RiderID: "rider-1", Stops: []string{"X", "Y"}},
		},
		Version: 3,
	}

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id =").
		WithArgs("trip-1").
		WillReturnRows(tripRows(t, trip))

	repo := NewTripRepository(db)
	got, err := repo.GetByID(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Version != 3 {
		t.Errorf("expected version 3, got %d", got.Version)
	}
	if len(got.Passengers) != 1 || got.Passengers[0].RiderID != "rider-1" {
		t.Fatalf("passengers not restored: %+v", got.Passengers)
	}
	if got.Passengers[0].Seats() != 2 {
		t.Errorf("expected 2 seats held, got %d", got.Passengers[0].Seats())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id =").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewTripRepository(db)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTripRepository_Update_BumpsVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE trips").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewTripRepository(db)
	trip := &domain.Trip{ID: "trip-1", Seats: 3, Version: 2}

	if err := repo.Update(context.Background(), trip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Version != 3 {
		t.Errorf("expected version bumped to 3, got %d", trip.Version)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepository_Update_DistinguishesConflictFromMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewTripRepository(db)
	trip := &domain.Trip{ID: "trip-1", Version: 1}

	// Row exists but the version moved on: conflict.
	mock.ExpectExec("UPDATE trips").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("trip-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	if err := repo.Update(context.Background(), trip); !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	// Row is gone entirely: not found.
	mock.ExpectExec("UPDATE trips").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("trip-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	if err := repo.Update(context.Background(), trip); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripRepository_Create_StartsAtVersionOne(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewTripRepository(db)
	trip := &domain.Trip{ID: "trip-1", Seats: 4, DriverID: "driver-1"}

	if err := repo.Create(context.Background(), trip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Version != 1 {
		t.Errorf("expected version 1, got %d", trip.Version)
	}
}

func TestTripRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewTripRepository(db)

	mock.ExpectExec("DELETE FROM trips").
		WithArgs("trip-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("DELETE FROM trips").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
