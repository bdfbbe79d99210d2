package domain

import "time"

// Vehicle holds the vehicle record attached to a driver.
type Vehicle struct {
	Brand    string
	Model    string
	CarPlate string
	Capacity int
	Color    string
	Picture  string
	Soat     string
}

// User represents a registered user. A user becomes a driver by
// registering a vehicle.
type User struct {
	ID            string
	Name          string
	LastName      string
	Mail          string
	PasswordHash  string
	ContactNumber string
	IsDriver      bool
	Image         string
	Vehicle       *Vehicle
	CreatedAt     time.Time
}
