package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
// The optional vehicle record is a JSONB column.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, last_name, mail, password_hash, contact_number, is_driver, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.LastName,
		user.Mail,
		user.PasswordHash,
		user.ContactNumber,
		user.IsDriver,
		user.Image,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, last_name, mail, password_hash, contact_number, is_driver, image, vehicle, created_at
		FROM users WHERE id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByMail retrieves a user by mail address.
func (r *UserRepository) GetByMail(ctx context.Context, mail string) (*domain.User, error) {
	query := `
		SELECT id, name, last_name, mail, password_hash, contact_number, is_driver, image, vehicle, created_at
		FROM users WHERE mail = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, mail))
}

// SetVehicle attaches a vehicle to the user and flips is_driver.
func (r *UserRepository) SetVehicle(ctx context.Context, userID string, vehicle *domain.Vehicle) error {
	data, err := json.Marshal(vehicle)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET vehicle = $1, is_driver = TRUE WHERE id = $2`,
		data, userID,
	)
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

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var vehicle []byte

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.LastName,
		&user.Mail,
		&user.PasswordHash,
		&user.ContactNumber,
		&user.IsDriver,
		&user.Image,
		&vehicle,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if len(vehicle) > 0 {
		var v domain.Vehicle
		if err := json.Unmarshal(vehicle, &v); err != nil {
			return nil, err
		}
		user.Vehicle = &v
	}

	return &user, nil
}

// Ensure UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)
