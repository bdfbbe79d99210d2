package repository

import (
	"context"

	"carpool/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByMail retrieves a user by mail address.
	GetByMail(ctx context.Context, mail string) (*domain.User, error)

	// SetVehicle attaches a vehicle to the user and marks them as a
	// driver.
	SetVehicle(ctx context.Context, userID string, vehicle *domain.Vehicle) error
}
