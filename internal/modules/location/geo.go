// README: Pure geographic computation helpers.
package location

import (
	"math"

	"mobiurban/internal/types"
)

const earthRadiusKm = 6371.0

// DefaultAverageSpeedKmh is the assumed city driving speed for travel-time
// estimates.
const DefaultAverageSpeedKmh = 30.0

// DistanceKm returns the great-circle distance in kilometres between two
// coordinates (Haversine). Symmetric; zero iff the coordinates are equal.
// Callers validate coordinates before calling.
func DistanceKm(a, b types.Coordinate) float64 {
	if a.Equal(b) {
		return 0
	}

	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// TravelTimeMinutes estimates driving time in whole minutes at the given
// average speed. A non-positive speed falls back to the default.
func TravelTimeMinutes(distanceKm, averageSpeedKmh float64) int {
	if averageSpeedKmh <= 0 {
		averageSpeedKmh = DefaultAverageSpeedKmh
	}
	return int(math.Round(distanceKm / averageSpeedKmh * 60))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
