package repository

import (
	"context"
	"database/sql"

	"usher/internal/database"
	"usher/internal/models"
)

type TicketTypeRepository struct {
	db *database.DB
}

func NewTicketTypeRepository(db *database.DB) *TicketTypeRepository {
	return &TicketTypeRepository{db: db}
}

// UpsertPrice sets the price of a type, creating the entry with quota 0 when
// it does not exist yet. Quota is left untouched on conflict.
func (r *TicketTypeRepository) UpsertPrice(ctx context.Context, eventID int64, label string, priceCents int64) error {
	query := `
		INSERT INTO ticket_types (event_id, label, price_cents, quota)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (event_id, label)
		DO UPDATE SET price_cents = EXCLUDED.price_cents`

	_, err := r.db.ExecContext(ctx, query, eventID, label, priceCents)
	return err
}

// UpsertQuota sets the quota of a type, creating the entry with price 0 when
// it does not exist yet. Price is left untouched on conflict.
func (r *TicketTypeRepository) UpsertQuota(ctx context.Context, eventID int64, label string, quota int) error {
	query := `
		INSERT INTO ticket_types (event_id, label, price_cents, quota)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (event_id, label)
		DO UPDATE SET quota = EXCLUDED.quota`

	_, err := r.db.ExecContext(ctx, query, eventID, label, quota)
	return err
}

func (r *TicketTypeRepository) Get(ctx context.Context, eventID int64, label string) (*models.TicketType, error) {
	entry := &models.TicketType{}
	query := `
		SELECT event_id, label, price_cents, quota
		FROM ticket_types
		WHERE event_id = $1 AND label = $2`

	err := r.db.QueryRowContext(ctx, query, eventID, label).Scan(
		&entry.EventID,
		&entry.Label,
		&entry.PriceCents,
		&entry.Quota,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return entry, err
}

func (r *TicketTypeRepository) List(ctx context.Context, eventID int64) ([]models.TicketType, error) {
	var entries []models.TicketType
	query := `
		SELECT event_id, label, price_cents, quota
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY label`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.TicketType
		err := rows.Scan(
			&entry.EventID,
			&entry.Label,
			&entry.PriceCents,
			&entry.Quota,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *TicketTypeRepository) Quotas(ctx context.Context, eventID int64) (map[string]int, error) {
	quotas := make(map[string]int)
	query := `SELECT label, quota FROM ticket_types WHERE event_id = $1`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var quota int
		if err := rows.Scan(&label, &quota); err != nil {
			return nil, err
		}
		quotas[label] = quota
	}

	return quotas, rows.Err()
}
