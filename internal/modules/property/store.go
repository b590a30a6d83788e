// README: Property store backed by PostgreSQL (read-only).
package property

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ListByOwner returns the owner's properties, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID int64) ([]Listing, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, property_name, property_type, location,
		       COALESCE(city, ''), COALESCE(state, ''), COALESCE(description, ''),
		       price_per_night::float8, bedrooms, bathrooms, max_guests,
		       COALESCE(amenities, ''), is_active
		FROM properties
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Type, &l.Location,
			&l.City, &l.State, &l.Description,
			&l.PricePerNight, &l.Bedrooms, &l.Bathrooms, &l.MaxGuests,
			&l.Amenities, &l.IsActive,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
