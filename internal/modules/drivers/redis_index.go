// README: Driver geo index backed by Redis GEO.
package drivers

import (
	"context"

	"github.com/redis/go-redis/v9"

	"mobiurban/internal/types"
)

const driverGeoKey = "mobiurban:drivers:geo"

type RedisIndex struct {
	redis *redis.Client
}

func NewRedisIndex(client *redis.Client) *RedisIndex {
	return &RedisIndex{redis: client}
}

func (s *RedisIndex) Update(ctx context.Context, driverID types.ID, c types.Coordinate) error {
	return s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Longitude: c.Lng,
		Latitude:  c.Lat,
	}).Err()
}

func (s *RedisIndex) Remove(ctx context.Context, driverID types.ID) error {
	return s.redis.ZRem(ctx, driverGeoKey, string(driverID)).Err()
}

func (s *RedisIndex) Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]Position, error) {
	results, err := s.redis.GeoSearchLocation(ctx, driverGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Lng,
			Latitude:   center.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Position, len(results))
	for i, r := range results {
		out[i] = Position{
			DriverID:   types.ID(r.Name),
			Coordinate: types.Coordinate{Lat: r.Latitude, Lng: r.Longitude},
			DistanceKm: r.Dist,
		}
	}
	return out, nil
}
