package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
// The passenger list is stored as a JSONB column so each trip is a single
// document updated atomically; the version column guards read-modify-write
// cycles against concurrent writers.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

const tripColumns = `id, initial_point, final_point, route, hour, seats, price, driver_id, passengers, version, created_at, updated_at`

// Create persists a new trip at version 1.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, initial_point, final_point, route, hour, seats, price, driver_id, passengers, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)
	`

	passengers, err := marshalPassengers(trip.Passengers)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		trip.ID,
		trip.InitialPoint,
		trip.FinalPoint,
		trip.Route,
		trip.Hour,
		trip.Seats,
		trip.Price,
		trip.DriverID,
		passengers,
	)
	if err != nil {
		return err
	}

	trip.Version = 1
	return nil
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// GetAll retrieves all trips, oldest first.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at`
	return r.queryTrips(ctx, query)
}

// GetByDriverID retrieves the trips published by a driver.
func (r *TripRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE driver_id = $1 ORDER BY created_at`
	return r.queryTrips(ctx, query, driverID)
}

// GetByRiderID retrieves the trips whose passenger list contains a
// reservation for the given rider, via JSONB containment.
func (r *TripRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Trip, error) {
	needle, err := json.Marshal([]map[string]string{{"riderId": riderID}})
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + tripColumns + ` FROM trips WHERE passengers @> $1 ORDER BY created_at`
	return r.queryTrips(ctx, query, needle)
}

// Update writes the trip back conditionally on the version it was
// loaded with, bumping the version on success.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET initial_point = $1, final_point = $2, route = $3, hour = $4,
			seats = $5, price = $6, passengers = $7,
			version = version + 1, updated_at = NOW()
		WHERE id = $8 AND version = $9
	`

	passengers, err := marshalPassengers(trip.Passengers)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, query,
		trip.InitialPoint,
		trip.FinalPoint,
		trip.Route,
		trip.Hour,
		trip.Seats,
		trip.Price,
		passengers,
		trip.ID,
		trip.Version,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Either the row is gone or a concurrent writer bumped the
		// version first. Tell the two apart so callers know whether
		// a retry can help.
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, trip.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return repository.ErrVersionConflict
		}
		return repository.ErrNotFound
	}

	trip.Version++
	return nil
}

// Delete removes a trip permanently.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *TripRepository) queryTrips(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var passengers []byte

	err := row.Scan(
		&trip.ID,
		&trip.InitialPoint,
		&trip.FinalPoint,
		&trip.Route,
		&trip.Hour,
		&trip.Seats,
		&trip.Price,
		&trip.DriverID,
		&passengers,
		&trip.Version,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(passengers) > 0 {
		if err := json.Unmarshal(passengers, &trip.Passengers); err != nil {
			return nil, err
		}
	}

	return &trip, nil
}

func marshalPassengers(passengers []domain.Reservation) ([]byte, error) {
	if passengers == nil {
		passengers = []domain.Reservation{}
	}
	return json.Marshal(passengers)
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
