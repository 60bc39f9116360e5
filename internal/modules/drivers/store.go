package drivers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mobiurban/internal/types"
)

var ErrProfileNotFound = errors.New("driver profile not found")

type ProfileStore interface {
	Upsert(ctx context.Context, p *Profile) error
	Get(ctx context.Context, id types.ID) (*Profile, error)
	ListByIDs(ctx context.Context, ids []types.ID) ([]*Profile, error)
	SetOnline(ctx context.Context, id types.ID, online bool) error
	UpdateRating(ctx context.Context, id types.ID, rating float64) error
}

type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const profileColumns = `id, name, phone, vehicle_model, vehicle_plate,
	per_km_centavos, rating, accepts_interior, online, last_seen`

func (s *PGStore) Upsert(ctx context.Context, p *Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO driver_profiles
			(id, name, phone, vehicle_model, vehicle_plate,
			 per_km_centavos, rating, accepts_interior, online, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			vehicle_model = EXCLUDED.vehicle_model,
			vehicle_plate = EXCLUDED.vehicle_plate,
			per_km_centavos = EXCLUDED.per_km_centavos,
			rating = EXCLUDED.rating,
			accepts_interior = EXCLUDED.accepts_interior,
			online = EXCLUDED.online,
			last_seen = EXCLUDED.last_seen`,
		p.ID, p.Name, p.Phone, p.VehicleModel, p.VehiclePlate,
		p.PerKmCentavos, p.Rating, p.AcceptsInterior, p.Online, p.LastSeen)
	if err != nil {
		return fmt.Errorf("upsert driver profile: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM driver_profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

func (s *PGStore) ListByIDs(ctx context.Context, ids []types.ID) ([]*Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM driver_profiles WHERE id = ANY($1)`, raw)
	if err != nil {
		return nil, fmt.Errorf("list driver profiles: %w", err)
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PGStore) SetOnline(ctx context.Context, id types.ID, online bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE driver_profiles SET online = $2, last_seen = now() WHERE id = $1`,
		id, online)
	if err != nil {
		return fmt.Errorf("set driver online: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *PGStore) UpdateRating(ctx context.Context, id types.ID, rating float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE driver_profiles SET rating = $2 WHERE id = $1`, id, rating)
	if err != nil {
		return fmt.Errorf("update driver rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.VehicleModel, &p.VehiclePlate,
		&p.PerKmCentavos, &p.Rating, &p.AcceptsInterior, &p.Online, &p.LastSeen)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
