package repository

import (
	"context"
	"database/sql"

	"usher/internal/database"
	"usher/internal/models"
)

type RoomRepository struct {
	db *database.DB
}

func NewRoomRepository(db *database.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (name, seat_capacity, location_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		room.Name,
		room.SeatCapacity,
		room.LocationID,
	).Scan(&room.ID)
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	room := &models.Room{}
	query := `
		SELECT id, name, seat_capacity, location_id
		FROM rooms
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.SeatCapacity,
		&room.LocationID,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return room, err
}

func (r *RoomRepository) UpdateCapacity(ctx context.Context, id int64, seatCapacity int) error {
	query := `UPDATE rooms SET seat_capacity = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, seatCapacity, id)
	return err
}

func (r *RoomRepository) ListByLocation(ctx context.Context, locationID int64) ([]models.Room, error) {
	var rooms []models.Room
	query := `
		SELECT id, name, seat_capacity, location_id
		FROM rooms
		WHERE location_id = $1
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var room models.Room
		err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.SeatCapacity,
			&room.LocationID,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}
