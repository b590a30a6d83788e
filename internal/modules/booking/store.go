// README: Booking store backed by PostgreSQL (read-only join with properties).
package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store; a nil pool makes every call return ErrUnavailable.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	row := s.db.QueryRow(ctx, `
		SELECT b.id, p.property_name, p.location, COALESCE(p.amenities, '')
		FROM bookings b
		JOIN properties p ON b.property_id = p.id
		WHERE b.id = $1`, id,
	)

	var r Record
	err := row.Scan(&r.ID, &r.PropertyName, &r.Location, &r.Amenities)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
