// README: Review service: post-ride passenger reviews, average feeds the
// driver's profile rating.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"mobiurban/internal/modules/ride"
	"mobiurban/internal/types"
)

var (
	ErrValidation = errors.New("invalid review")
	// ErrAlreadyReviewed: each ride can be reviewed once.
	ErrAlreadyReviewed = errors.New("ride already reviewed")
	// ErrRideNotCompleted: reviews open only after completion.
	ErrRideNotCompleted = errors.New("ride is not completed")
	// ErrNotRidePassenger: only the ride's passenger may review it.
	ErrNotRidePassenger = errors.New("reviewer did not take this ride")
)

// RideGetter is the slice of the ride service this module needs.
type RideGetter interface {
	Get(ctx context.Context, id types.ID) (*ride.Ride, error)
}

// RatingSink receives the recomputed average after each new review.
// *drivers.Service satisfies it.
type RatingSink interface {
	UpdateRating(ctx context.Context, driverID types.ID, rating float64) error
}

type Service struct {
	store   Store
	rides   RideGetter
	ratings RatingSink
	log     *logrus.Logger
}

func NewService(store Store, rides RideGetter, ratings RatingSink, log *logrus.Logger) *Service {
	return &Service{store: store, rides: rides, ratings: ratings, log: log}
}

type CreateCommand struct {
	Actor   types.Actor
	RideID  types.ID
	Rating  int
	Comment string
}

// Create records the passenger's review of a completed ride and pushes the
// driver's new average rating to their profile.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Review, error) {
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	r, err := s.rides.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if r.Status != ride.StatusCompleted {
		return nil, ErrRideNotCompleted
	}
	if r.PassengerID != cmd.Actor.ID {
		return nil, ErrNotRidePassenger
	}
	if r.DriverID == nil {
		return nil, fmt.Errorf("%w: ride has no driver", ErrValidation)
	}

	if _, err := s.store.GetByRide(ctx, cmd.RideID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, ErrReviewNotFound) {
		return nil, err
	}

	rev := &Review{
		RideID:      r.ID,
		DriverID:    *r.DriverID,
		PassengerID: r.PassengerID,
		Rating:      cmd.Rating,
		Comment:     cmd.Comment,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Create(ctx, rev); err != nil {
		return nil, err
	}

	// The profile rating is a denormalized average; a failed push leaves it
	// stale until the next review, not wrong forever.
	if avg, _, err := s.store.AverageByDriver(ctx, rev.DriverID); err != nil {
		s.log.WithError(err).WithField("driver_id", rev.DriverID).Warn("failed to recompute driver rating")
	} else if err := s.ratings.UpdateRating(ctx, rev.DriverID, avg); err != nil {
		s.log.WithError(err).WithField("driver_id", rev.DriverID).Warn("failed to update driver rating")
	}

	s.log.WithFields(logrus.Fields{
		"ride_id":   rev.RideID,
		"driver_id": rev.DriverID,
		"rating":    rev.Rating,
	}).Info("review recorded")
	return rev, nil
}

func (s *Service) ListByDriver(ctx context.Context, driverID types.ID) ([]*Review, error) {
	return s.store.ListByDriver(ctx, driverID)
}

// DriverRating returns the driver's current average and review count.
func (s *Service) DriverRating(ctx context.Context, driverID types.ID) (float64, int, error) {
	return s.store.AverageByDriver(ctx, driverID)
}
