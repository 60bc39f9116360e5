// Package ranking orders available drivers for a passenger's request.
// Everything here is pure: no I/O, no cached state, safe for concurrent use.
// The caller re-ranks whenever passenger location, destination, the interior
// flag, or the candidate set changes.
package ranking

import (
	"fmt"
	"sort"

	"mobiurban/internal/modules/location"
	"mobiurban/internal/modules/pricing"
	"mobiurban/internal/types"
)

// Candidate is a driver eligible for ranking. Candidates are owned by the
// driver side; this engine only reads them. Offline drivers are excluded
// upstream.
type Candidate struct {
	DriverID        types.ID         `json:"driver_id"`
	Name            string           `json:"name"`
	Coordinate      types.Coordinate `json:"coordinate"`
	PerKmCentavos   int64            `json:"per_km_centavos"`
	Rating          float64          `json:"rating"`
	AcceptsInterior bool             `json:"accepts_interior"`
}

// RankedDriver is one entry of the ranking output.
type RankedDriver struct {
	Candidate
	DistanceToPassengerKm float64 `json:"distance_to_passenger_km"`
	// QuotedFare is nil for interior trips and when no destination is known.
	QuotedFare *types.Money `json:"quoted_fare,omitempty"`
	// Eligible is false for drivers that stay visible in the listing but
	// cannot be requested (interior trip, driver does not accept interior).
	Eligible bool `json:"eligible"`
}

// Input describes one ranking request.
type Input struct {
	Passenger   types.Coordinate
	Destination *types.Coordinate
	IsInterior  bool
	Candidates  []Candidate
}

// Rank computes distance-to-passenger and quoted fare for every candidate and
// returns them nearest first. Ties are broken by driver ID so the order is
// deterministic.
func Rank(in Input, minimumFareCentavos int64) ([]RankedDriver, error) {
	if err := in.Passenger.Validate(); err != nil {
		return nil, fmt.Errorf("passenger coordinate: %w", err)
	}
	if in.Destination != nil {
		if err := in.Destination.Validate(); err != nil {
			return nil, fmt.Errorf("destination coordinate: %w", err)
		}
	}

	tripKnown := in.Destination != nil
	var tripDistanceKm float64
	if tripKnown {
		tripDistanceKm = location.DistanceKm(in.Passenger, *in.Destination)
	}

	out := make([]RankedDriver, 0, len(in.Candidates))
	for _, c := range in.Candidates {
		if err := c.Coordinate.Validate(); err != nil {
			return nil, fmt.Errorf("driver %s coordinate: %w", c.DriverID, err)
		}

		r := RankedDriver{
			Candidate:             c,
			DistanceToPassengerKm: location.DistanceKm(in.Passenger, c.Coordinate),
			Eligible:              !in.IsInterior || c.AcceptsInterior,
		}
		if tripKnown {
			r.QuotedFare = pricing.Fare(tripDistanceKm, c.PerKmCentavos, in.IsInterior, minimumFareCentavos)
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceToPassengerKm != out[j].DistanceToPassengerKm {
			return out[i].DistanceToPassengerKm < out[j].DistanceToPassengerKm
		}
		return out[i].DriverID < out[j].DriverID
	})
	return out, nil
}
