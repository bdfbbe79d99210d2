package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository. Update
// is version-checked the same way the Postgres implementation is, so
// the service's optimistic-concurrency loop is exercised for real.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	DeleteError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip seeds a trip into the mock repository at version 1.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if trip.Version == 0 {
		trip.Version = 1
	}
	m.trips[trip.ID] = cloneTrip(trip)
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip.Version = 1
	m.trips[trip.ID] = cloneTrip(trip)
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTrip(trip), nil
}

func (m *MockTripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		result = append(result, cloneTrip(t))
	}
	return result, nil
}

func (m *MockTripRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.DriverID == driverID {
			result = append(result, cloneTrip(t))
		}
	}
	return result, nil
}

func (m *MockTripRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.HasReservation(riderID) {
			result = append(result, cloneTrip(t))
		}
	}
	return result, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.trips[trip.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != trip.Version {
		return repository.ErrVersionConflict
	}
	trip.Version++
	m.trips[trip.ID] = cloneTrip(trip)
	return nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil
	}
	return cloneTrip(trip)
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// cloneTrip deep-copies a trip so callers can never mutate the store
// through a returned pointer.
func cloneTrip(t *domain.Trip) *domain.Trip {
	cp := *t
	cp.Passengers = make([]domain.Reservation, len(t.Passengers))
	for i, p := range t.Passengers {
		stops := make([]string, len(p.Stops))
		copy(stops, p.Stops)
		cp.Passengers[i] = domain.Reservation{RiderID: p.RiderID, Stops: stops}
	}
	return &cp
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser seeds a user into the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, u := range m.users {
		if u.Mail == user.Mail {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByMail(ctx context.Context, mail string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Mail == mail {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) SetVehicle(ctx context.Context, userID string, vehicle *domain.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.Vehicle = vehicle
	user.IsDriver = true
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of the trip lock store.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32
	ReleaseCallCount int32
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[tripID] {
		return false, nil
	}
	m.locks[tripID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, tripID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is an in-memory implementation of the trip cache.
type MockCacheStore struct {
	mu      sync.Mutex
	entries map[string]*redis.CachedTripDetails

	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{entries: make(map[string]*redis.CachedTripDetails)}
}

func (m *MockCacheStore) GetTripDetails(ctx context.Context, tripID string) (*redis.CachedTripDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[tripID], nil
}

func (m *MockCacheStore) SetTripDetails(ctx context.Context, details *redis.CachedTripDetails) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[details.TripID] = details
	return nil
}

func (m *MockCacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, tripID)
	return nil
}

// Ensure mocks satisfy the interfaces they stand in for.
var (
	_ repository.TripRepository = (*MockTripRepository)(nil)
	_ repository.UserRepository = (*MockUserRepository)(nil)
	_ redis.LockStoreInterface  = (*MockLockStore)(nil)
	_ redis.CacheStoreInterface = (*MockCacheStore)(nil)
)
