// README: Rates store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) DefaultRate(ctx context.Context) (Rate, error) {
	row := s.db.QueryRow(ctx, `
		SELECT name, per_km_centavos, currency
		FROM fare_rates
		WHERE name = 'default'`)

	var r Rate
	err := row.Scan(&r.Name, &r.PerKmCentavos, &r.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{Name: "default", PerKmCentavos: defaultPerKmCentavos, Currency: defaultCurrency}, nil
	}
	if err != nil {
		return Rate{}, err
	}
	return r, nil
}
