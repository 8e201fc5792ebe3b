package repository

import (
	"context"
	"database/sql"

	"usher/internal/database"
	"usher/internal/models"
)

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Insert persists one issued ticket. The statement is a single atomic unit;
// the unique (event_id, seat_number) index makes a double-issued seat fail
// here even if the in-process ledger was bypassed.
func (r *TicketRepository) Insert(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (id, event_id, user_id, type_label, price_cents, seat_number, purchased_at, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.EventID,
		ticket.UserID,
		ticket.TypeLabel,
		ticket.PriceCents,
		ticket.SeatNumber,
		ticket.PurchasedAt,
		ticket.ValidFrom,
		ticket.ValidTo,
	)

	return err
}

// Delete removes the ticket row and reports whether it existed. The boolean
// is the atomic gate for cancellation: of two concurrent cancels only one
// sees a deleted row, so only one release of the sale's accounting runs.
func (r *TicketRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM tickets WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `
		SELECT id, event_id, user_id, type_label, price_cents, seat_number, purchased_at, valid_from, valid_to
		FROM tickets
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.TypeLabel,
		&ticket.PriceCents,
		&ticket.SeatNumber,
		&ticket.PurchasedAt,
		&ticket.ValidFrom,
		&ticket.ValidTo,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

// UpdateSeat moves the ticket to seat only while it still occupies prevSeat
// and reports whether a row matched. A false return means the ticket was
// deleted or re-seated since the caller read it.
func (r *TicketRepository) UpdateSeat(ctx context.Context, id, seat, prevSeat string) (bool, error) {
	query := `UPDATE tickets SET seat_number = $1 WHERE id = $2 AND seat_number = $3`
	res, err := r.db.ExecContext(ctx, query, seat, id, prevSeat)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID int64) ([]models.Ticket, error) {
	var tickets []models.Ticket
	query := `
		SELECT id, event_id, user_id, type_label, price_cents, seat_number, purchased_at, valid_from, valid_to
		FROM tickets
		WHERE user_id = $1
		ORDER BY purchased_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ticket models.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.UserID,
			&ticket.TypeLabel,
			&ticket.PriceCents,
			&ticket.SeatNumber,
			&ticket.PurchasedAt,
			&ticket.ValidFrom,
			&ticket.ValidTo,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

func (r *TicketRepository) SoldCounts(ctx context.Context, eventID int64) (map[string]int, error) {
	sold := make(map[string]int)
	query := `
		SELECT type_label, COUNT(*)
		FROM tickets
		WHERE event_id = $1
		GROUP BY type_label`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		sold[label] = count
	}

	return sold, rows.Err()
}

func (r *TicketRepository) OccupiedSeats(ctx context.Context, eventID int64) ([]string, error) {
	var seats []string
	query := `
		SELECT seat_number
		FROM tickets
		WHERE event_id = $1 AND seat_number IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}
