package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

const (
	// maxUpdateAttempts bounds the optimistic-concurrency retry loop.
	maxUpdateAttempts = 5

	// tripLockTTL caps how long a crashed request can hold a trip lock.
	tripLockTTL = 3 * time.Second
)

// TripService owns the trip lifecycle: the registry operations and
// the seat-reservation state machine. All reservation mutations run
// as load-modify-save cycles guarded by the trip's version; the Redis
// trip lock in front only reduces conflict churn and is optional.
type TripService struct {
	tripRepo   repository.TripRepository
	userRepo   repository.UserRepository
	lockStore  redis.LockStoreInterface
	cacheStore redis.CacheStoreInterface
}

// NewTripService creates a new TripService. lockStore and cacheStore
// may be nil when Redis is not wired (e.g. in tests).
func NewTripService(
	tripRepo repository.TripRepository,
	userRepo repository.UserRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
) *TripService {
	return &TripService{
		tripRepo:   tripRepo,
		userRepo:   userRepo,
		lockStore:  lockStore,
		cacheStore: cacheStore,
	}
}

// CreateTripRequest contains the parameters for publishing a trip.
type CreateTripRequest struct {
	DriverID     string
	InitialPoint string
	FinalPoint   string
	Route        string
	Hour         string
	Seats        int
	Price        float64
}

// Create publishes a new trip owned by the given driver.
func (s *TripService) Create(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	user, err := s.userRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotDriver
		}
		return nil, err
	}
	if !user.IsDriver {
		return nil, ErrNotDriver
	}

	if req.InitialPoint == "" || req.FinalPoint == "" || req.Route == "" || req.Hour == "" {
		return nil, ErrMissingTripFields
	}
	if req.Seats <= 0 {
		return nil, ErrSeatsNotPositive
	}
	if req.Price <= 0 {
		return nil, ErrPriceNotPositive
	}

	trip := &domain.Trip{
		ID:           uuid.New().String(),
		InitialPoint: req.InitialPoint,
		FinalPoint:   req.FinalPoint,
		Route:        req.Route,
		Hour:         req.Hour,
		Seats:        req.Seats,
		Price:        req.Price,
		DriverID:     req.DriverID,
		Passengers:   []domain.Reservation{},
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// ListAvailable retrieves all trips. Trips with zero remaining seats
// are included.
func (s *TripService) ListAvailable(ctx context.Context) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx)
}

// TripDetails is the trip + driver-vehicle join served by GetDetails.
type TripDetails struct {
	TripID         string
	InitialPoint   string
	FinalPoint     string
	Route          string
	Hour           string
	SeatsAvailable int
	Price          float64
	CarPlate       string
	CarPicture     string
}

// GetDetails retrieves a trip together with the owning driver's
// vehicle plate and picture. Served from cache when possible.
func (s *TripService) GetDetails(ctx context.Context, tripID string) (*TripDetails, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetTripDetails(ctx, tripID)
		if err == nil && cached != nil {
			return &TripDetails{
				TripID:         cached.TripID,
				InitialPoint:   cached.InitialPoint,
				FinalPoint:     cached.FinalPoint,
				Route:          cached.Route,
				Hour:           cached.Hour,
				SeatsAvailable: cached.SeatsAvailable,
				Price:          cached.Price,
				CarPlate:       cached.CarPlate,
				CarPicture:     cached.CarPicture,
			}, nil
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	driver, err := s.userRepo.GetByID(ctx, trip.DriverID)
	if err != nil {
		return nil, err
	}

	details := &TripDetails{
		TripID:         trip.ID,
		InitialPoint:   trip.InitialPoint,
		FinalPoint:     trip.FinalPoint,
		Route:          trip.Route,
		Hour:           trip.Hour,
		SeatsAvailable: trip.Seats,
		Price:          trip.Price,
	}
	if driver.Vehicle != nil {
		details.CarPlate = driver.Vehicle.CarPlate
		details.CarPicture = driver.Vehicle.Picture
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetTripDetails(ctx, &redis.CachedTripDetails{
			TripID:         details.TripID,
			InitialPoint:   details.InitialPoint,
			FinalPoint:     details.FinalPoint,
			Route:          details.Route,
			Hour:           details.Hour,
			SeatsAvailable: details.SeatsAvailable,
			Price:          details.Price,
			CarPlate:       details.CarPlate,
			CarPicture:     details.CarPicture,
		})
	}

	return details, nil
}

// EditTripPatch is a sparse patch for trip fields. Nil pointers leave
// the field unchanged; non-nil pointers set it, zero values included.
type EditTripPatch struct {
	InitialPoint *string
	FinalPoint   *string
	Route        *string
	Hour         *string
	Seats        *int
	Price        *float64
}

// Edit applies a sparse patch to a trip owned by the given driver.
func (s *TripService) Edit(ctx context.Context, tripID, driverID string, patch EditTripPatch) (*domain.Trip, error) {
	if patch.Seats != nil && *patch.Seats <= 0 {
		return nil, ErrSeatsNotPositive
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return nil, ErrPriceNotPositive
	}

	return s.mutateTrip(ctx, tripID, func(trip *domain.Trip) error {
		if trip.DriverID != driverID {
			return ErrNotTripOwner
		}
		if patch.InitialPoint != nil {
			trip.InitialPoint = *patch.InitialPoint
		}
		if patch.FinalPoint != nil {
			trip.FinalPoint = *patch.FinalPoint
		}
		if patch.Route != nil {
			trip.Route = *patch.Route
		}
		if patch.Hour != nil {
			trip.Hour = *patch.Hour
		}
		if patch.Seats != nil {
			trip.Seats = *patch.Seats
		}
		if patch.Price != nil {
			trip.Price = *patch.Price
		}
		return nil
	})
}

// Delete removes a trip owned by the given driver. Embedded
// reservations are discarded with it.
func (s *TripService) Delete(ctx context.Context, tripID, driverID string) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}

	if trip.DriverID != driverID {
		return ErrNotTripOwner
	}

	if err := s.tripRepo.Delete(ctx, tripID); err != nil {
		return err
	}

	s.invalidateTrip(ctx, tripID)
	return nil
}

// ListByDriver retrieves the trips published by the given driver.
// The caller must be a registered driver.
func (s *TripService) ListByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	user, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotDriver
		}
		return nil, err
	}
	if !user.IsDriver {
		return nil, ErrNotDriver
	}

	return s.tripRepo.GetByDriverID(ctx, driverID)
}

// ListByRider retrieves the trips on which the given rider holds a
// reservation.
func (s *TripService) ListByRider(ctx context.Context, riderID string) ([]*domain.Trip, error) {
	return s.tripRepo.GetByRiderID(ctx, riderID)
}

// Reserve books seats on a trip for a rider, one stop per seat.
// Returns the remaining seats after the reservation.
func (s *TripService) Reserve(ctx context.Context, tripID, riderID string, seats int, stops []string) (int, error) {
	if seats <= 0 || stops == nil {
		return 0, ErrMissingReservationFields
	}
	if len(stops) != seats {
		return 0, ErrStopCountMismatch
	}

	trip, err := s.mutateTrip(ctx, tripID, func(trip *domain.Trip) error {
		if trip.HasReservation(riderID) {
			return ErrAlreadyReserved
		}
		if trip.Seats < seats {
			return ErrNotEnoughSeats
		}
		trip.Seats -= seats
		trip.AddReservation(riderID, stops)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return trip.Seats, nil
}

// Cancel releases the rider's reservation on a trip. Returns the
// remaining seats and the number of seats released.
func (s *TripService) Cancel(ctx context.Context, tripID, riderID string) (int, int, error) {
	var released int

	trip, err := s.mutateTrip(ctx, tripID, func(trip *domain.Trip) error {
		seats, ok := trip.RemoveReservation(riderID)
		if !ok {
			return ErrNoActiveReservation
		}
		released = seats
		trip.Seats += seats
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return trip.Seats, released, nil
}

// Amend replaces the rider's reservation with a new seat count and
// stop list, preserving its position among the passengers. The seats
// the rider already holds are restored before checking availability.
func (s *TripService) Amend(ctx context.Context, tripID, riderID string, seats int, stops []string) (domain.Reservation, int, error) {
	if seats <= 0 || stops == nil {
		return domain.Reservation{}, 0, ErrMissingReservationFields
	}
	if len(stops) != seats {
		return domain.Reservation{}, 0, ErrStopCountMismatch
	}

	var updated domain.Reservation

	trip, err := s.mutateTrip(ctx, tripID, func(trip *domain.Trip) error {
		existing, ok := trip.ReservationFor(riderID)
		if !ok {
			return ErrNoActiveReservation
		}

		available := trip.Seats + existing.Seats()
		if seats > available {
			return ErrNotEnoughSeats
		}

		updated, _ = trip.ReplaceStops(riderID, stops)
		trip.Seats = available - seats
		return nil
	})
	if err != nil {
		return domain.Reservation{}, 0, err
	}

	return updated, trip.Seats, nil
}

// mutateTrip runs a load-modify-save cycle against a single trip,
// retrying on version conflicts. A failing mutate leaves the stored
// trip untouched. The Redis lock, when available, serializes most
// callers up front; correctness rests on the version check alone.
func (s *TripService) mutateTrip(ctx context.Context, tripID string, mutate func(*domain.Trip) error) (*domain.Trip, error) {
	if s.lockStore != nil {
		acquired, err := s.lockStore.AcquireTripLock(ctx, tripID, tripLockTTL)
		if err == nil && acquired {
			defer func() { _ = s.lockStore.ReleaseTripLock(ctx, tripID) }()
		}
		// Lock contention or Redis trouble is not fatal; the version
		// check below still rejects lost updates.
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		trip, err := s.tripRepo.GetByID(ctx, tripID)
		if err != nil {
			return nil, err
		}

		if err := mutate(trip); err != nil {
			return nil, err
		}

		err = s.tripRepo.Update(ctx, trip)
		if err == nil {
			s.invalidateTrip(ctx, tripID)
			return trip, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
	}

	return nil, ErrConcurrentUpdate
}

func (s *TripService) invalidateTrip(ctx context.Context, tripID string) {
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateTrip(ctx, tripID)
	}
}
