package repository

import (
	"context"
	"database/sql"

	"usher/internal/database"
	"usher/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (name, description, starts_at, ends_at, numbered_seats)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Description,
		event.StartsAt,
		event.EndsAt,
		event.NumberedSeats,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, name, description, starts_at, ends_at, numbered_seats, created_at, updated_at
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.StartsAt,
		&event.EndsAt,
		&event.NumberedSeats,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

func (r *EventRepository) List(ctx context.Context, page, pageSize int) ([]models.Event, error) {
	var events []models.Event
	query := `
		SELECT id, name, description, starts_at, ends_at, numbered_seats, created_at, updated_at
		FROM events
		ORDER BY starts_at, id
		LIMIT $1 OFFSET $2`

	offset := 0
	if page > 0 && pageSize > 0 {
		offset = (page - 1) * pageSize
	}

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Description,
			&event.StartsAt,
			&event.EndsAt,
			&event.NumberedSeats,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// LinkRoom associates a room with an event for presentation; the pairing
// carries no capacity semantics.
func (r *EventRepository) LinkRoom(ctx context.Context, eventID, roomID int64) error {
	query := `
		INSERT INTO event_rooms (event_id, room_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, eventID, roomID)
	return err
}
