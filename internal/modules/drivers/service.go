// README: Driver presence service: profiles, online state, location reports.
package drivers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"mobiurban/internal/modules/ranking"
	"mobiurban/internal/types"
)

type Service struct {
	profiles ProfileStore
	index    GeoIndex
	// defaultPerKmCentavos fills in for drivers with no personal rate.
	defaultPerKmCentavos int64
	log                  *logrus.Logger
}

func NewService(profiles ProfileStore, index GeoIndex, defaultPerKmCentavos int64, log *logrus.Logger) *Service {
	return &Service{
		profiles:             profiles,
		index:                index,
		defaultPerKmCentavos: defaultPerKmCentavos,
		log:                  log,
	}
}

func (s *Service) Register(ctx context.Context, p *Profile) error {
	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("driver id and name are required")
	}
	if p.LastSeen.IsZero() {
		p.LastSeen = time.Now()
	}
	return s.profiles.Upsert(ctx, p)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Profile, error) {
	return s.profiles.Get(ctx, id)
}

// ReportLocation records the driver's current position in the geo index.
func (s *Service) ReportLocation(ctx context.Context, driverID types.ID, c types.Coordinate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := s.profiles.Get(ctx, driverID); err != nil {
		return err
	}
	return s.index.Update(ctx, driverID, c)
}

// SetOnline toggles availability. Going offline also drops the driver from
// the geo index so they stop appearing in candidate lists.
func (s *Service) SetOnline(ctx context.Context, driverID types.ID, online bool) error {
	if err := s.profiles.SetOnline(ctx, driverID, online); err != nil {
		return err
	}
	if !online {
		if err := s.index.Remove(ctx, driverID); err != nil {
			s.log.WithError(err).WithField("driver_id", driverID).
				Warn("failed to remove offline driver from geo index")
		}
	}
	return nil
}

// UpdateRating stores the driver's recomputed average review rating.
func (s *Service) UpdateRating(ctx context.Context, driverID types.ID, rating float64) error {
	return s.profiles.UpdateRating(ctx, driverID, rating)
}

// Candidates returns online drivers near the pickup point as ranking input.
func (s *Service) Candidates(ctx context.Context, pickup types.Coordinate, radiusKm float64) ([]ranking.Candidate, error) {
	positions, err := s.index.Nearby(ctx, pickup, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("nearby drivers: %w", err)
	}
	if len(positions) == 0 {
		return nil, nil
	}

	ids := make([]types.ID, len(positions))
	for i, p := range positions {
		ids[i] = p.DriverID
	}
	profiles, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[types.ID]*Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	var out []ranking.Candidate
	for _, pos := range positions {
		p, ok := byID[pos.DriverID]
		if !ok || !p.Online {
			// Stale index entry; the profile is gone or the driver went
			// offline without the index catching up.
			continue
		}
		rate := p.PerKmCentavos
		if rate == 0 {
			rate = s.defaultPerKmCentavos
		}
		out = append(out, ranking.Candidate{
			DriverID:        p.ID,
			Name:            p.Name,
			Coordinate:      pos.Coordinate,
			PerKmCentavos:   rate,
			Rating:          p.Rating,
			AcceptsInterior: p.AcceptsInterior,
		})
	}
	return out, nil
}
