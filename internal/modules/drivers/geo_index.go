package drivers

import (
	"context"

	"mobiurban/internal/types"
)

// GeoIndex tracks last known driver positions and answers radius queries.
// RedisIndex is the production implementation; MemoryIndex serves tests and
// single-process deployments.
type GeoIndex interface {
	Update(ctx context.Context, driverID types.ID, c types.Coordinate) error
	Remove(ctx context.Context, driverID types.ID) error
	// Nearby returns drivers within radiusKm of center, closest first.
	Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]Position, error)
}
