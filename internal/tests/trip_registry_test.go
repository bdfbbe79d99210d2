package tests

import (
	"context"
	"errors"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// TRIP REGISTRY
// ──────────────────────────────────────────────

func newRegistryService(t *testing.T) (*service.TripService, *MockTripRepository, *MockUserRepository) {
	t.Helper()

	tripRepo := NewMockTripRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{
		ID:       "driver-1",
		Name:     "Dana",
		IsDriver: true,
		Vehicle:  &domain.Vehicle{CarPlate: "ABC123", Picture: "car.jpg", Capacity: 4},
	})
	userRepo.AddUser(&domain.User{ID: "rider-1", Name: "Rae"})

	return service.NewTripService(tripRepo, userRepo, nil, nil), tripRepo, userRepo
}

func validCreateRequest() service.CreateTripRequest {
	return service.CreateTripRequest{
		DriverID:     "driver-1",
		InitialPoint: "North Station",
		FinalPoint:   "Campus",
		Route:        "Main Ave",
		Hour:         "7:30",
		Seats:        4,
		Price:        3500,
	}
}

func TestCreateTrip_Succeeds(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newRegistryService(t)

	trip, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.ID == "" {
		t.Error("expected a generated trip id")
	}

	stored := tripRepo.GetTrip(trip.ID)
	if stored == nil {
		t.Fatal("trip not persisted")
	}
	if stored.Passengers == nil || len(stored.Passengers) != 0 {
		t.Error("expected an empty passenger list")
	}
	if stored.DriverID != "driver-1" {
		t.Errorf("expected driver-1 as owner, got %s", stored.DriverID)
	}
}

func TestCreateTrip_RequiresDriverRole(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRegistryService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.DriverID = "rider-1"
	if _, err := svc.Create(ctx, req); !errors.Is(err, service.ErrNotDriver) {
		t.Errorf("expected ErrNotDriver for non-driver, got %v", err)
	}

	req.DriverID = "ghost"
	if _, err := svc.Create(ctx, req); !errors.Is(err, service.ErrNotDriver) {
		t.Errorf("expected ErrNotDriver for unknown user, got %v", err)
	}
}

func TestCreateTrip_ValidatesFields(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRegistryService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.Route = ""
	if _, err := svc.Create(ctx, req); !errors.Is(err, service.ErrMissingTripFields) {
		t.Errorf("expected ErrMissingTripFields, got %v", err)
	}

	req = validCreateRequest()
	req.Seats = 0
	if _, err := svc.Create(ctx, req); !errors.Is(err, service.ErrSeatsNotPositive) {
		t.Errorf("expected ErrSeatsNotPositive, got %v", err)
	}

	req = validCreateRequest()
	req.Price = -1
	if _, err := svc.Create(ctx, req); !errors.Is(err, service.ErrPriceNotPositive) {
		t.Errorf("expected ErrPriceNotPositive, got %v", err)
	}
}

func TestListAvailable_IncludesFullTrips(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newRegistryService(t)

	tripRepo.AddTrip(&domain.Trip{ID: "full", DriverID: "driver-1", Seats: 0})
	tripRepo.AddTrip(&domain.Trip{ID: "open", DriverID: "driver-1", Seats: 3})

	trips, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 2 {
		t.Errorf("expected both trips listed, got %d", len(trips))
	}
}

func TestGetDetails_JoinsDriverVehicle(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newRegistryService(t)
	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", DriverID: "driver-1", Seats: 4, Price: 3500})

	details, err := svc.GetDetails(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.CarPlate != "ABC123" {
		t.Errorf("expected car plate ABC123, got %q", details.CarPlate)
	}
	if details.CarPicture != "car.jpg" {
		t.Errorf("expected car picture car.jpg, got %q", details.CarPicture)
	}
	if details.SeatsAvailable != 4 {
		t.Errorf("expected 4 seats available, got %d", details.SeatsAvailable)
	}
}

func TestGetDetails_NotFoundCases(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newRegistryService(t)
	ctx := context.Background()

	if _, err := svc.GetDetails(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing trip, got %v", err)
	}

	// Trip whose driver no longer exists.
	tripRepo.AddTrip(&domain.Trip{ID: "orphan", DriverID: "gone", Seats: 2})
	if _, err := svc.GetDetails(ctx, "orphan"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing driver, got %v", err)
	}
}

func TestGetDetails_CachesAndInvalidatesOnMutation(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "driver-1", IsDriver: true, Vehicle: &domain.Vehicle{CarPlate: "ABC123"}})
	cache := NewMockCacheStore()
	svc := service.NewTripService(tripRepo, userRepo, nil, cache)
	ctx := context.Background()

	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", DriverID: "driver-1", Seats: 4})

	if _, err := svc.GetDetails(ctx, "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.SetCallCount != 1 {
		t.Errorf("expected details to be cached once, got %d", cache.SetCallCount)
	}

	// Second read is served from cache without touching the store.
	if _, err := svc.GetDetails(ctx, "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.SetCallCount != 1 {
		t.Errorf("expected no further cache writes, got %d", cache.SetCallCount)
	}

	if _, err := svc.Reserve(ctx, "trip-1", "rider-1", 1, []string{"X"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.InvalidateCallCount == 0 {
		t.Error("expected cache invalidation after reservation")
	}
}

func TestEditTrip_SparsePatch(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newRegistryService(t)
	ctx := context.Background()

	tripRepo.AddTrip(&domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		InitialPoint: "North Station", FinalPoint: "Campus",
		Route: "Main Ave", Hour: "7:30", Seats: 4, Price: 3500,
	})

	hour := "8:00"
	seats := 6
	trip, err := svc.Edit(ctx, "trip-1", "driver-1", service.EditTripPatch{Hour: &hour, Seats: &seats})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Hour != "8:00" || trip.Seats != 6 {
		t.Errorf("patch not applied: hour=%q seats=%d", trip.Hour, trip.Seats)
	}
	if trip.InitialPoint != "North Station" || trip.Price != 3500 {
		t.Error("untouched fields changed")
	}

	// Explicit empty string clears the field; nil leaves it alone.
	empty := ""
	trip, err = svc.Edit(ctx, "trip-1", "driver-1", service.EditTripPatch{Route: &empty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Route != "" {
		t.Errorf("expected route cleared, got %q", trip.Route)
	}
	if trip.Hour != "8:00" {
		t.Errorf("hour changed unexpectedly: %q", trip.Hour)
	}
}

func TestEditTrip_Authorization(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newRegistryService(t)
	ctx := context.Background()

	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", DriverID: "driver-1", Seats: 4})

	hour := "9:00"
	if _, err := svc.Edit(ctx, "trip-1", "driver-2", service.EditTripPatch{Hour: &hour}); !errors.Is(err, service.ErrNotTripOwner) {
		t.Errorf("expected ErrNotTripOwner, got %v", err)
	}
	if _, err := svc.Edit(ctx, "missing", "driver-1", service.EditTripPatch{Hour: &hour}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	badSeats := 0
	if _, err := svc.Edit(ctx, "trip-1", "driver-1", service.EditTripPatch{Seats: &badSeats}); !errors.Is(err, service.ErrSeatsNotPositive) {
		t.Errorf("expected ErrSeatsNotPositive, got %v", err)
	}
}

func TestDeleteTrip_OwnerOnly(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newRegistryService(t)
	ctx := context.Background()

	tripRepo.AddTrip(&domain.Trip{ID: "trip-1", DriverID: "driver-1", Seats: 4})

	if err := svc.Delete(ctx, "trip-1", "driver-2"); !errors.Is(err, service.ErrNotTripOwner) {
		t.Errorf("expected ErrNotTripOwner, got %v", err)
	}
	if tripRepo.GetTrip("trip-1") == nil {
		t.Fatal("trip removed despite failed authorization")
	}

	if err := svc.Delete(ctx, "trip-1", "driver-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tripRepo.GetTrip("trip-1") != nil {
		t.Error("trip still present after delete")
	}

	if err := svc.Delete(ctx, "trip-1", "driver-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListByDriver_ReportsReservedSeatTotals(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newRegistryService(t)
	ctx := context.Background()

	tripRepo.AddTrip(&domain.Trip{
		ID: "trip-1", DriverID: "driver-1", Seats: 1,
		Passengers: []domain.Reservation{
			{RiderID: "rider-1", Stops: []string{"X", "Y"}},
			{RiderID: "rider-2", Stops: []string{"Z"}},
		},
	})

	trips, err := svc.ListByDriver(ctx, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}
	if got := trips[0].ReservedSeats(); got != 3 {
		t.Errorf("expected 3 reserved seats, got %d", got)
	}

	if _, err := svc.ListByDriver(ctx, "rider-1"); !errors.Is(err, service.ErrNotDriver) {
		t.Errorf("expected ErrNotDriver, got %v", err)
	}
}

func TestListByRider_ReturnsReservedTrips(t *testing.T) {
	t.Parallel()

	svc, tripRepo, _ := newRegistryService(t)
	ctx := context.Background()

	tripRepo.AddTrip(&domain.Trip{
		ID: "trip-1", DriverID: "driver-1", Seats: 2,
		Passengers: []domain.Reservation{{RiderID: "rider-1", Stops: []string{"X", "Y"}}},
	})
	tripRepo.AddTrip(&domain.Trip{ID: "trip-2", DriverID: "driver-1", Seats: 4})

	trips, err := svc.ListByRider(ctx, "rider-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}

	reservation, ok := trips[0].ReservationFor("rider-1")
	if !ok || reservation.Seats() != 2 {
		t.Errorf("expected a 2-seat reservation, got %+v", reservation)
	}
}
