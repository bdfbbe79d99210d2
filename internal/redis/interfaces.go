package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error)
	ReleaseTripLock(ctx context.Context, tripID string) error
}

// CacheStoreInterface defines the interface for trip-details caching.
type CacheStoreInterface interface {
	GetTripDetails(ctx context.Context, tripID string) (*CachedTripDetails, error)
	SetTripDetails(ctx context.Context, details *CachedTripDetails) error
	InvalidateTrip(ctx context.Context, tripID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
