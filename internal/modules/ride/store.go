// README: Ride persistence contract plus the PostgreSQL implementation.
package ride

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mobiurban/internal/types"
)

// Store is the persistence contract for rides. UpdateStatus is a conditional
// write: it applies only when the stored status (and version) still match the
// expected prior value, which is what gives the accept race a single winner.
type Store interface {
	Create(ctx context.Context, r *Ride) error
	Get(ctx context.Context, id types.ID) (*Ride, error)
	ListByStatus(ctx context.Context, status Status) ([]*Ride, error)
	ListByPassenger(ctx context.Context, passengerID types.ID) ([]*Ride, error)
	ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error)
	UpdateStatus(ctx context.Context, upd StatusUpdate) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
	HasActiveByPassenger(ctx context.Context, passengerID types.ID) (bool, error)
}

// StatusUpdate is one conditional transition write.
type StatusUpdate struct {
	RideID      types.ID
	From        Status
	To          Status
	FromVersion int
	// DriverID is set on accept only.
	DriverID *types.ID
	// FinalFare is set on complete only.
	FinalFare *types.Money
	// CancelReason is set on cancel only.
	CancelReason *string
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const rideColumns = `
	id, passenger_id, driver_id, created_by, status, status_version,
	pickup_lat, pickup_lng, pickup_address,
	dropoff_lat, dropoff_lng, dropoff_address,
	is_interior, estimated_distance_km, estimated_duration_min,
	estimated_fare_centavos, final_fare_centavos, currency,
	scheduled_for, priority,
	created_at, accepted_at, started_at, completed_at, cancelled_at, cancel_reason`

func (s *PGStore) Create(ctx context.Context, r *Ride) error {
	var estFare, finFare *int64
	currency := "BRL"
	if r.EstimatedFare != nil {
		estFare = &r.EstimatedFare.Amount
		currency = r.EstimatedFare.Currency
	}
	if r.FinalFare != nil {
		finFare = &r.FinalFare.Amount
	}

	var dropLat, dropLng *float64
	if r.Dropoff != nil {
		dropLat, dropLng = &r.Dropoff.Lat, &r.Dropoff.Lng
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO rides (
			id, passenger_id, driver_id, created_by, status, status_version,
			pickup_lat, pickup_lng, pickup_address,
			dropoff_lat, dropoff_lng, dropoff_address,
			is_interior, estimated_distance_km, estimated_duration_min,
			estimated_fare_centavos, final_fare_centavos, currency,
			scheduled_for, priority, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12,
			$13, $14, $15,
			$16, $17, $18,
			$19, $20, $21
		)`,
		string(r.ID), string(r.PassengerID), idPtr(r.DriverID), string(r.CreatedBy), string(r.Status), r.StatusVersion,
		r.Pickup.Lat, r.Pickup.Lng, r.PickupAddress,
		dropLat, dropLng, r.DropoffAddress,
		r.IsInterior, r.EstimatedDistanceKm, r.EstimatedDurationMin,
		estFare, finFare, currency,
		r.ScheduledFor, string(r.Priority), r.CreatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, string(id))
	r, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PGStore) ListByStatus(ctx context.Context, status Status) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, `SELECT `+rideColumns+` FROM rides WHERE status = $1 ORDER BY created_at ASC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRides(rows)
}

func (s *PGStore) ListByPassenger(ctx context.Context, passengerID types.ID) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, `SELECT `+rideColumns+` FROM rides WHERE passenger_id = $1 ORDER BY created_at DESC`, string(passengerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRides(rows)
}

func (s *PGStore) ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, `SELECT `+rideColumns+` FROM rides WHERE driver_id = $1 ORDER BY created_at DESC`, string(driverID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRides(rows)
}

// UpdateStatus performs the conditional transition write. The WHERE clause on
// (status, status_version) is the compare-and-swap; zero rows affected means
// another writer got there first.
func (s *PGStore) UpdateStatus(ctx context.Context, upd StatusUpdate) (bool, error) {
	var finFare *int64
	if upd.FinalFare != nil {
		finFare = &upd.FinalFare.Amount
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1,
		    status_version = status_version + 1,
		    driver_id = COALESCE($2, driver_id),
		    final_fare_centavos = COALESCE($3, final_fare_centavos),
		    cancel_reason = COALESCE($4, cancel_reason),
		    accepted_at = CASE WHEN $1 = 'accepted' THEN NOW() ELSE accepted_at END,
		    started_at = CASE WHEN $1 = 'in_progress' THEN NOW() ELSE started_at END,
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $5 AND status = $6 AND status_version = $7`,
		string(upd.To),
		idPtr(upd.DriverID),
		finFare,
		upd.CancelReason,
		string(upd.RideID),
		string(upd.From),
		upd.FromVersion,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ride_events (
			ride_id, from_status, to_status, actor_role, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.RideID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorRole,
		idPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

func (s *PGStore) HasActiveByPassenger(ctx context.Context, passengerID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM rides
			WHERE passenger_id = $1
			  AND status IN ('pending','accepted','in_progress')
		)`, string(passengerID))
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	var driverID, cancelReason sql.NullString
	var dropLat, dropLng sql.NullFloat64
	var estFare, finFare sql.NullInt64
	var currency string
	var scheduledFor, acceptedAt, startedAt, completedAt, cancelledAt sql.NullTime
	var priority string

	err := row.Scan(
		&r.ID, &r.PassengerID, &driverID, &r.CreatedBy, &r.Status, &r.StatusVersion,
		&r.Pickup.Lat, &r.Pickup.Lng, &r.PickupAddress,
		&dropLat, &dropLng, &r.DropoffAddress,
		&r.IsInterior, &r.EstimatedDistanceKm, &r.EstimatedDurationMin,
		&estFare, &finFare, &currency,
		&scheduledFor, &priority,
		&r.CreatedAt, &acceptedAt, &startedAt, &completedAt, &cancelledAt, &cancelReason,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		d := types.ID(driverID.String)
		r.DriverID = &d
	}
	if dropLat.Valid && dropLng.Valid {
		r.Dropoff = &types.Coordinate{Lat: dropLat.Float64, Lng: dropLng.Float64}
	}
	if estFare.Valid {
		m := types.Money{Amount: estFare.Int64, Currency: currency}
		r.EstimatedFare = &m
	}
	if finFare.Valid {
		m := types.Money{Amount: finFare.Int64, Currency: currency}
		r.FinalFare = &m
	}
	r.Priority = Priority(priority)
	r.ScheduledFor = timePtr(scheduledFor)
	r.AcceptedAt = timePtr(acceptedAt)
	r.StartedAt = timePtr(startedAt)
	r.CompletedAt = timePtr(completedAt)
	r.CancelledAt = timePtr(cancelledAt)
	if cancelReason.Valid {
		r.CancelReason = &cancelReason.String
	}
	return &r, nil
}

func scanRides(rows pgx.Rows) ([]*Ride, error) {
	var out []*Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func idPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
