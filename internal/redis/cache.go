package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// TripDetailsCacheTTL is short because remaining seats change with
// every reservation.
const TripDetailsCacheTTL = 15 * time.Second

const tripCachePrefix = "cache:trip:"

// CachedTripDetails represents the cached trip + vehicle join served
// by the trip details endpoint.
type CachedTripDetails struct {
	TripID         string  `json:"tripId"`
	InitialPoint   string  `json:"initialPoint"`
	FinalPoint     string  `json:"finalPoint"`
	Route          string  `json:"route"`
	Hour           string  `json:"hour"`
	SeatsAvailable int     `json:"seatsAvailable"`
	Price          float64 `json:"price"`
	CarPlate       string  `json:"carPlate"`
	CarPicture     string  `json:"carPicture"`
}

// GetTripDetails retrieves cached trip details. A cache miss returns
// nil, nil.
func (s *CacheStore) GetTripDetails(ctx context.Context, tripID string) (*CachedTripDetails, error) {
	key := tripCachePrefix + tripID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var details CachedTripDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// SetTripDetails stores trip details in cache.
func (s *CacheStore) SetTripDetails(ctx context.Context, details *CachedTripDetails) error {
	key := tripCachePrefix + details.TripID
	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, TripDetailsCacheTTL).Err()
}

// InvalidateTrip removes a trip from cache. Called after every trip
// mutation so stale seat counts are never served past the TTL window.
func (s *CacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	key := tripCachePrefix + tripID
	return s.client.Del(ctx, key).Err()
}
