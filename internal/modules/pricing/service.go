// README: Pricing service computes fare quotes with a minimum-fare floor.
package pricing

import (
	"context"
	"math"

	"mobiurban/internal/types"
)

// Fare computes the quoted fare for a trip. Interior trips have no computed
// fare (negotiated out-of-band), so the result is nil. Otherwise the fare is
// distance times the per-km rate, floored at the minimum fare to keep short
// trips from being unprofitable. Pure and deterministic.
func Fare(distanceKm float64, perKmCentavos int64, isInterior bool, minimumCentavos int64) *types.Money {
	if isInterior {
		return nil
	}
	amount := int64(math.Round(distanceKm * float64(perKmCentavos)))
	if amount < minimumCentavos {
		amount = minimumCentavos
	}
	m := types.BRL(amount)
	return &m
}

type RateStore interface {
	DefaultRate(ctx context.Context) (Rate, error)
}

// Service wraps the pure fare math with configured defaults and the rates store.
type Service struct {
	store   RateStore
	minimum int64
}

func NewService(store RateStore, minimumCentavos int64) *Service {
	if minimumCentavos <= 0 {
		minimumCentavos = defaultMinimumCentavos
	}
	return &Service{store: store, minimum: minimumCentavos}
}

// Quote computes a fare at the given per-km rate.
func (s *Service) Quote(distanceKm float64, perKmCentavos int64, isInterior bool) *types.Money {
	return Fare(distanceKm, perKmCentavos, isInterior, s.minimum)
}

// EstimateDefault quotes a fare at the default rate, for estimates made before
// any driver is attached to the ride.
func (s *Service) EstimateDefault(ctx context.Context, distanceKm float64, isInterior bool) *types.Money {
	return Fare(distanceKm, s.DefaultPerKmCentavos(ctx), isInterior, s.minimum)
}

// DefaultPerKmCentavos returns the active default per-km rate, falling back
// to the built-in rate when no store is configured or the lookup fails.
func (s *Service) DefaultPerKmCentavos(ctx context.Context) int64 {
	if s.store != nil {
		if rate, err := s.store.DefaultRate(ctx); err == nil && rate.PerKmCentavos > 0 {
			return rate.PerKmCentavos
		}
	}
	return defaultPerKmCentavos
}

// MinimumCentavos exposes the configured floor.
func (s *Service) MinimumCentavos() int64 { return s.minimum }
