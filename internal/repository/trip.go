package repository

import (
	"context"

	"carpool/internal/domain"
)

// TripRepository defines the persistence operations for trips. The
// store is a per-document one: each trip row carries its embedded
// passenger list, and Update is conditional on the version the trip
// was loaded with.
type TripRepository interface {
	// Create persists a new trip at version 1.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAll retrieves all trips.
	GetAll(ctx context.Context) ([]*domain.Trip, error)

	// GetByDriverID retrieves the trips published by a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error)

	// GetByRiderID retrieves the trips whose passenger list contains
	// a reservation for the given rider.
	GetByRiderID(ctx context.Context, riderID string) ([]*domain.Trip, error)

	// Update writes the trip back conditionally on trip.Version and
	// bumps the version on success. Returns ErrVersionConflict when a
	// concurrent write got there first, ErrNotFound when the trip is
	// gone.
	Update(ctx context.Context, trip *domain.Trip) error

	// Delete removes a trip permanently.
	Delete(ctx context.Context, id string) error
}
