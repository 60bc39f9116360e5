// README: Ride service implements lifecycle transitions and persistence.
package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mobiurban/internal/modules/location"
	"mobiurban/internal/modules/pricing"
	"mobiurban/internal/observability"
	"mobiurban/internal/types"
)

var (
	ErrNotFound = errors.New("ride not found")
	// ErrInvalidTransition: the ride's current status does not allow the
	// requested transition. The ride is left unchanged.
	ErrInvalidTransition = errors.New("invalid ride transition")
	// ErrConflict: the transition lost a concurrency race (someone else
	// already has the ride). Distinct from ErrInvalidTransition so callers
	// can tell "already taken" from "not acceptable right now".
	ErrConflict = errors.New("ride state conflict")
	// ErrValidation: malformed input, rejected before anything is written.
	ErrValidation = errors.New("invalid ride request")
	// ErrActiveRide: the passenger already has a non-terminal ride.
	ErrActiveRide = errors.New("passenger has active ride")
	// ErrNotRideDriver: the acting driver does not own the ride.
	ErrNotRideDriver = errors.New("driver does not own this ride")
)

// DurationEstimator provides a routing-based travel time. Optional; when
// absent (or failing) the empirical estimator is used.
type DurationEstimator interface {
	EstimateDuration(ctx context.Context, origin, destination types.Coordinate) (time.Duration, error)
}

type Service struct {
	store       Store
	pricing     *pricing.Service
	routes      DurationEstimator
	feed        Feed
	avgSpeedKmh float64
	log         *logrus.Logger
}

func NewService(store Store, pricingSvc *pricing.Service, routes DurationEstimator, feed Feed, avgSpeedKmh float64, log *logrus.Logger) *Service {
	if feed == nil {
		feed = NoopFeed{}
	}
	return &Service{
		store:       store,
		pricing:     pricingSvc,
		routes:      routes,
		feed:        feed,
		avgSpeedKmh: avgSpeedKmh,
		log:         log,
	}
}

type CreateCommand struct {
	Actor types.Actor
	// PassengerID names the passenger when an admin creates the ride;
	// ignored for passenger-initiated requests.
	PassengerID    types.ID
	Pickup         types.Coordinate
	PickupAddress  string
	Dropoff        *types.Coordinate
	DropoffAddress string
	IsInterior     bool
	ScheduledFor   *time.Time
	Priority       Priority
}

type AcceptCommand struct {
	RideID   types.ID
	DriverID types.ID
}

type StartCommand struct {
	RideID   types.ID
	DriverID types.ID
}

type CompleteCommand struct {
	RideID   types.ID
	DriverID types.ID
	// FinalFare may differ from the estimate; required for interior rides,
	// defaults to the estimate otherwise.
	FinalFare *types.Money
}

type CancelCommand struct {
	RideID types.ID
	Actor  types.Actor
	Reason string
}

// Estimate is the computed trip summary for a pickup/destination pair.
type Estimate struct {
	DistanceKm  float64
	DurationMin int
	// Fare is nil for interior trips.
	Fare *types.Money
}

// Estimate computes distance, duration, and fare for a trip without creating
// anything. Duration comes from the routing service when one is configured.
func (s *Service) Estimate(ctx context.Context, pickup, dropoff types.Coordinate, isInterior bool) (Estimate, error) {
	if err := pickup.Validate(); err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := dropoff.Validate(); err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	distKm := location.DistanceKm(pickup, dropoff)
	return Estimate{
		DistanceKm:  distKm,
		DurationMin: s.estimateDurationMin(ctx, pickup, dropoff, distKm),
		Fare:        s.pricing.EstimateDefault(ctx, distKm, isInterior),
	}, nil
}

func (s *Service) estimateDurationMin(ctx context.Context, pickup, dropoff types.Coordinate, distKm float64) int {
	if s.routes != nil {
		if d, err := s.routes.EstimateDuration(ctx, pickup, dropoff); err == nil {
			return int(d.Round(time.Minute) / time.Minute)
		} else {
			s.log.WithError(err).Debug("routing estimate failed, falling back to average speed")
		}
	}
	return location.TravelTimeMinutes(distKm, s.avgSpeedKmh)
}

// Create validates the request, computes estimates, and persists a pending
// ride.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Ride, error) {
	passengerID, err := resolvePassenger(cmd)
	if err != nil {
		return nil, err
	}
	if err := cmd.Pickup.Validate(); err != nil {
		return nil, fmt.Errorf("%w: pickup: %v", ErrValidation, err)
	}
	if cmd.PickupAddress == "" {
		return nil, fmt.Errorf("%w: pickup address is required", ErrValidation)
	}
	if cmd.Dropoff != nil {
		if err := cmd.Dropoff.Validate(); err != nil {
			return nil, fmt.Errorf("%w: destination: %v", ErrValidation, err)
		}
	}

	active, err := s.store.HasActiveByPassenger(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrActiveRide
	}

	now := time.Now()
	r := &Ride{
		ID:             types.ID(uuid.NewString()),
		PassengerID:    passengerID,
		CreatedBy:      cmd.Actor.ID,
		Status:         StatusPending,
		Pickup:         cmd.Pickup,
		PickupAddress:  cmd.PickupAddress,
		Dropoff:        cmd.Dropoff,
		DropoffAddress: cmd.DropoffAddress,
		IsInterior:     cmd.IsInterior,
		ScheduledFor:   cmd.ScheduledFor,
		Priority:       cmd.Priority,
		CreatedAt:      now,
	}
	if r.Priority == "" {
		r.Priority = PriorityNormal
	}
	if cmd.Dropoff != nil {
		est, err := s.Estimate(ctx, cmd.Pickup, *cmd.Dropoff, cmd.IsInterior)
		if err != nil {
			return nil, err
		}
		r.EstimatedDistanceKm = est.DistanceKm
		r.EstimatedDurationMin = est.DurationMin
		r.EstimatedFare = est.Fare
	}

	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	s.appendEvent(ctx, r.ID, "", StatusPending, cmd.Actor.Role.String(), &cmd.Actor.ID)
	s.publish(ctx, ChangeEvent{RideID: r.ID, Kind: "created", To: StatusPending, At: now})
	observability.RideTransitions.WithLabelValues(string(StatusPending)).Inc()

	s.log.WithFields(logrus.Fields{
		"ride_id":   r.ID,
		"passenger": passengerID,
		"creator":   cmd.Actor.ID,
	}).Info("ride created")
	return r, nil
}

func resolvePassenger(cmd CreateCommand) (types.ID, error) {
	switch cmd.Actor.Role {
	case types.RolePassenger:
		return cmd.Actor.ID, nil
	case types.RoleAdmin:
		if cmd.PassengerID == "" {
			return "", fmt.Errorf("%w: admin-created rides must name a passenger", ErrValidation)
		}
		return cmd.PassengerID, nil
	case types.RoleDriver:
		return "", fmt.Errorf("%w: drivers cannot create rides", ErrValidation)
	}
	return "", fmt.Errorf("%w: unknown role", ErrValidation)
}

// Accept attaches a driver to a pending ride. The conditional store update
// guarantees at most one winner; losers get ErrConflict.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) error {
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return err
	}
	if !CanTransition(r.Status, StatusAccepted) {
		return ErrInvalidTransition
	}

	ok, err := s.store.UpdateStatus(ctx, StatusUpdate{
		RideID:      r.ID,
		From:        r.Status,
		To:          StatusAccepted,
		FromVersion: r.StatusVersion,
		DriverID:    &cmd.DriverID,
	})
	if err != nil {
		return err
	}
	if !ok {
		observability.AcceptConflicts.Inc()
		return ErrConflict
	}

	s.appendEvent(ctx, r.ID, StatusPending, StatusAccepted, types.RoleDriver.String(), &cmd.DriverID)
	s.publish(ctx, ChangeEvent{RideID: r.ID, Kind: "status_changed", From: StatusPending, To: StatusAccepted, At: time.Now()})
	observability.RideTransitions.WithLabelValues(string(StatusAccepted)).Inc()
	return nil
}

// Start moves an accepted ride into progress. Only the accepting driver may
// start it.
func (s *Service) Start(ctx context.Context, cmd StartCommand) error {
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return err
	}
	if !CanTransition(r.Status, StatusInProgress) {
		return ErrInvalidTransition
	}
	if r.DriverID == nil || *r.DriverID != cmd.DriverID {
		return ErrNotRideDriver
	}

	ok, err := s.store.UpdateStatus(ctx, StatusUpdate{
		RideID:      r.ID,
		From:        r.Status,
		To:          StatusInProgress,
		FromVersion: r.StatusVersion,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	s.appendEvent(ctx, r.ID, StatusAccepted, StatusInProgress, types.RoleDriver.String(), &cmd.DriverID)
	s.publish(ctx, ChangeEvent{RideID: r.ID, Kind: "status_changed", From: StatusAccepted, To: StatusInProgress, At: time.Now()})
	observability.RideTransitions.WithLabelValues(string(StatusInProgress)).Inc()
	return nil
}

// Complete finalizes a ride in progress and records the final fare.
func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) error {
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return err
	}
	if !CanTransition(r.Status, StatusCompleted) {
		return ErrInvalidTransition
	}
	if r.DriverID == nil || *r.DriverID != cmd.DriverID {
		return ErrNotRideDriver
	}

	finalFare := cmd.FinalFare
	if finalFare == nil {
		if r.IsInterior {
			// Interior fares are negotiated; there is no estimate to fall
			// back to.
			return fmt.Errorf("%w: final fare is required for interior rides", ErrValidation)
		}
		finalFare = r.EstimatedFare
	}

	ok, err := s.store.UpdateStatus(ctx, StatusUpdate{
		RideID:      r.ID,
		From:        r.Status,
		To:          StatusCompleted,
		FromVersion: r.StatusVersion,
		FinalFare:   finalFare,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	s.appendEvent(ctx, r.ID, StatusInProgress, StatusCompleted, types.RoleDriver.String(), &cmd.DriverID)
	s.publish(ctx, ChangeEvent{RideID: r.ID, Kind: "status_changed", From: StatusInProgress, To: StatusCompleted, At: time.Now()})
	observability.RideTransitions.WithLabelValues(string(StatusCompleted)).Inc()
	return nil
}

// Cancel ends a ride that has not started. Passengers, drivers, and admins
// may all cancel; terminal and in-progress rides cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return err
	}
	if !CanTransition(r.Status, StatusCancelled) {
		return ErrInvalidTransition
	}

	from := r.Status
	var reason *string
	if cmd.Reason != "" {
		reason = &cmd.Reason
	}

	ok, err := s.store.UpdateStatus(ctx, StatusUpdate{
		RideID:       r.ID,
		From:         from,
		To:           StatusCancelled,
		FromVersion:  r.StatusVersion,
		CancelReason: reason,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	s.appendEvent(ctx, r.ID, from, StatusCancelled, cmd.Actor.Role.String(), &cmd.Actor.ID)
	s.publish(ctx, ChangeEvent{RideID: r.ID, Kind: "status_changed", From: from, To: StatusCancelled, At: time.Now()})
	observability.RideTransitions.WithLabelValues(string(StatusCancelled)).Inc()
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.store.Get(ctx, id)
}

// ListPending returns the driver-facing feed of open requests, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]*Ride, error) {
	return s.store.ListByStatus(ctx, StatusPending)
}

func (s *Service) ListByPassenger(ctx context.Context, passengerID types.ID) ([]*Ride, error) {
	return s.store.ListByPassenger(ctx, passengerID)
}

func (s *Service) ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error) {
	return s.store.ListByDriver(ctx, driverID)
}

func (s *Service) appendEvent(ctx context.Context, rideID types.ID, from, to Status, role string, actorID *types.ID) {
	err := s.store.AppendEvent(ctx, &Event{
		RideID:     rideID,
		FromStatus: from,
		ToStatus:   to,
		ActorRole:  role,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		s.log.WithError(err).WithField("ride_id", rideID).Warn("failed to append ride event")
	}
}

func (s *Service) publish(ctx context.Context, ev ChangeEvent) {
	if err := s.feed.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithField("ride_id", ev.RideID).Warn("failed to publish ride event")
	}
}
