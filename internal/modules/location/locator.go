// README: Device geolocation with a fixed fallback location.
package location

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"mobiurban/internal/maps"
	"mobiurban/internal/types"
)

// Geolocation failure modes; all three degrade to the default location.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrPositionTimeout     = errors.New("position request timed out")
)

// PositionOptions mirror a one-shot device position request.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxAge       time.Duration
}

// Position is a device fix with its reported accuracy.
type Position struct {
	Coordinate types.Coordinate
	AccuracyM  float64
}

// Locator is the device/browser geolocation source.
type Locator interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)
}

// LocatorFunc adapts a plain function to Locator.
type LocatorFunc func(ctx context.Context, opts PositionOptions) (Position, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error) {
	return f(ctx, opts)
}

// ReverseGeocoder is the slice of the geocoding adapter this module needs.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, c types.Coordinate) (*maps.ReverseResult, error)
}

// Resolved is a usable location: coordinate plus display addresses. IsDefault
// marks the fallback so the UI can label it.
type Resolved struct {
	Coordinate  types.Coordinate    `json:"coordinate"`
	Address     string              `json:"address"`
	FullAddress string              `json:"full_address"`
	Details     maps.AddressDetails `json:"details"`
	IsDefault   bool                `json:"is_default"`
}

// DefaultLocation is the fixed fallback used whenever geolocation or reverse
// geocoding fails: Av. Paulista, São Paulo.
func DefaultLocation() Resolved {
	return Resolved{
		Coordinate:  types.Coordinate{Lat: -23.5505, Lng: -46.6333},
		Address:     "Av. Paulista, 1000 - Bela Vista, São Paulo - SP",
		FullAddress: "Avenida Paulista, 1000, Bela Vista, São Paulo, São Paulo, Brasil",
		Details: maps.AddressDetails{
			Road:          "Avenida Paulista",
			HouseNumber:   "1000",
			Neighbourhood: "Bela Vista",
			City:          "São Paulo",
			State:         "São Paulo",
			Country:       "Brasil",
		},
		IsDefault: true,
	}
}

var defaultPositionOptions = PositionOptions{
	HighAccuracy: true,
	Timeout:      10 * time.Second,
	MaxAge:       time.Minute,
}

// Resolver turns a device position into an addressed location.
type Resolver struct {
	locator  Locator
	geocoder ReverseGeocoder
	log      *logrus.Logger
}

func NewResolver(locator Locator, geocoder ReverseGeocoder, log *logrus.Logger) *Resolver {
	return &Resolver{locator: locator, geocoder: geocoder, log: log}
}

// ResolveWithFallback returns the current location with its reverse-geocoded
// address. Any failure (permission denied, no fix, timeout, geocode error)
// yields the labeled default location rather than an error.
func (r *Resolver) ResolveWithFallback(ctx context.Context) Resolved {
	pos, err := r.locator.CurrentPosition(ctx, defaultPositionOptions)
	if err != nil {
		r.log.WithError(err).Warn("geolocation failed, using default location")
		return DefaultLocation()
	}

	rev, err := r.geocoder.ReverseGeocode(ctx, pos.Coordinate)
	if err != nil {
		r.log.WithError(err).Warn("reverse geocode failed, using default location")
		return DefaultLocation()
	}

	return Resolved{
		Coordinate:  pos.Coordinate,
		Address:     maps.FormatAddress(rev.DisplayName),
		FullAddress: rev.DisplayName,
		Details:     rev.Details,
	}
}
