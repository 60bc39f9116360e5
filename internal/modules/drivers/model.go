// README: Driver profile and presence entities.
package drivers

import (
	"time"

	"mobiurban/internal/types"
)

type Profile struct {
	ID           types.ID `json:"id"`
	Name         string   `json:"name"`
	Phone        string   `json:"phone,omitempty"`
	VehicleModel string   `json:"vehicle_model,omitempty"`
	VehiclePlate string   `json:"vehicle_plate,omitempty"`
	// PerKmCentavos is the driver's own rate; zero means the default rate
	// applies.
	PerKmCentavos int64 `json:"per_km_centavos"`
	// Rating is the average of the driver's ride reviews, pushed here after
	// each new review.
	Rating          float64   `json:"rating"`
	AcceptsInterior bool      `json:"accepts_interior"`
	Online          bool      `json:"online"`
	LastSeen        time.Time `json:"last_seen"`
}

// Position is a driver's last reported location, as returned by the geo
// index.
type Position struct {
	DriverID   types.ID
	Coordinate types.Coordinate
	DistanceKm float64
}
