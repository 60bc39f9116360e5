// README: Review persistence contract plus the PostgreSQL implementation.
package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mobiurban/internal/types"
)

var ErrReviewNotFound = errors.New("review not found")

type Store interface {
	Create(ctx context.Context, r *Review) error
	GetByRide(ctx context.Context, rideID types.ID) (*Review, error)
	ListByDriver(ctx context.Context, driverID types.ID) ([]*Review, error)
	// AverageByDriver returns the mean rating and review count; (0, 0) when
	// the driver has no reviews yet.
	AverageByDriver(ctx context.Context, driverID types.ID) (float64, int, error)
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const reviewColumns = `id, ride_id, driver_id, passenger_id, rating, comment, created_at`

func (s *PGStore) Create(ctx context.Context, r *Review) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO reviews (ride_id, driver_id, passenger_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		string(r.RideID), string(r.DriverID), string(r.PassengerID),
		r.Rating, r.Comment, r.CreatedAt)
	if err := row.Scan(&r.ID); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *PGStore) GetByRide(ctx context.Context, rideID types.ID) (*Review, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE ride_id = $1`, string(rideID))
	r, err := scanReview(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	return r, err
}

func (s *PGStore) ListByDriver(ctx context.Context, driverID types.ID) ([]*Review, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE driver_id = $1 ORDER BY created_at DESC`,
		string(driverID))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []*Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PGStore) AverageByDriver(ctx context.Context, driverID types.ID) (float64, int, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE driver_id = $1`, string(driverID))
	var avg float64
	var count int
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

func scanReview(row pgx.Row) (*Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.RideID, &r.DriverID, &r.PassengerID,
		&r.Rating, &r.Comment, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
