package matching

import (
	"context"

	"github.com/redis/go-redis/v9"

	"unipool/internal/types"
)

const rideGeoKey = "matching:rides"

// Store keeps the geo index of open ride origins in Redis so a match query
// only loads rides that could plausibly pass the radius filter.
type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) IndexRide(ctx context.Context, id types.ID, origin types.Point) error {
	return s.redis.GeoAdd(ctx, rideGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: origin.Lng,
		Latitude:  origin.Lat,
	}).Err()
}

func (s *Store) RemoveRide(ctx context.Context, id types.ID) error {
	return s.redis.ZRem(ctx, rideGeoKey, string(id)).Err()
}

// NearbyRideIDs returns ride IDs whose origin lies within radiusKm of p,
// closest first.
func (s *Store) NearbyRideIDs(ctx context.Context, p types.Point, radiusKm float64) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, rideGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}
