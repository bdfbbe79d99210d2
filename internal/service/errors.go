package service

import "errors"

var (
	// ErrNotDriver is returned when the caller is not a registered driver.
	ErrNotDriver = errors.New("user is not a driver")

	// ErrNotTripOwner is returned when the caller does not own the trip.
	ErrNotTripOwner = errors.New("trip belongs to another driver")

	// ErrMissingTripFields is returned when required trip fields are absent.
	ErrMissingTripFields = errors.New("missing trip information")

	// ErrSeatsNotPositive is returned when the seat count is not a positive number.
	ErrSeatsNotPositive = errors.New("seats must be a positive number")

	// ErrPriceNotPositive is returned when the price is not a positive number.
	ErrPriceNotPositive = errors.New("price must be a positive number")

	// ErrMissingReservationFields is returned when seats or stops are absent.
	ErrMissingReservationFields = errors.New("missing reservation information")

	// ErrStopCountMismatch is returned when the stop list length differs
	// from the requested seat count.
	ErrStopCountMismatch = errors.New("stop count must match reserved seats")

	// ErrNotEnoughSeats is returned when the request exceeds the seats
	// still available on the trip.
	ErrNotEnoughSeats = errors.New("not enough seats available")

	// ErrAlreadyReserved is returned when the rider already holds a
	// reservation on the trip.
	ErrAlreadyReserved = errors.New("rider already has a reservation on this trip")

	// ErrNoActiveReservation is returned when the rider has no
	// reservation on the trip.
	ErrNoActiveReservation = errors.New("no active reservation on this trip")

	// ErrConcurrentUpdate is returned when a reservation update kept
	// losing to concurrent writers and retries were exhausted.
	ErrConcurrentUpdate = errors.New("trip was modified concurrently, try again")
)
