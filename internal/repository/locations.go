package repository

import (
	"context"
	"database/sql"

	"usher/internal/database"
	"usher/internal/models"
)

type LocationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	query := `
		INSERT INTO locations (name, address, max_available_seats)
		VALUES ($1, $2, $3)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		location.Name,
		location.Address,
		location.MaxAvailableSeats,
	).Scan(&location.ID)
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	location := &models.Location{}
	query := `
		SELECT id, name, address, max_available_seats
		FROM locations
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&location.ID,
		&location.Name,
		&location.Address,
		&location.MaxAvailableSeats,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return location, err
}

func (r *LocationRepository) List(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	query := `
		SELECT id, name, address, max_available_seats
		FROM locations
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var location models.Location
		err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.Address,
			&location.MaxAvailableSeats,
		)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}

	return locations, rows.Err()
}

// Ceiling returns the location's max available seats. found is false when
// the location does not exist.
func (r *LocationRepository) Ceiling(ctx context.Context, locationID int64) (int, bool, error) {
	var ceiling int
	query := `SELECT max_available_seats FROM locations WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, locationID).Scan(&ceiling)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return ceiling, true, nil
}

// AssignedCapacity sums the seat capacity of rooms assigned to the location,
// excluding excludeRoomID when non-zero (the resize case).
func (r *LocationRepository) AssignedCapacity(ctx context.Context, locationID, excludeRoomID int64) (int, error) {
	var total int
	query := `
		SELECT COALESCE(SUM(seat_capacity), 0)
		FROM rooms
		WHERE location_id = $1 AND id <> $2`

	err := r.db.QueryRowContext(ctx, query, locationID, excludeRoomID).Scan(&total)
	return total, err
}
