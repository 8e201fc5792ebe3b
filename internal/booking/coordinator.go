// Package booking implements the entry point for selling, cancelling and
// re-seating tickets. The coordinator validates the request against the
// event's catalog, then delegates the contended accounting to the sales
// ledger and persists the ticket inside the ledger's per-event lock.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"usher/internal/inventory"
	"usher/internal/logger"
	"usher/internal/models"

	"github.com/google/uuid"
)

// EventStore resolves events by id.
type EventStore interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// TicketStore persists issued tickets. Each mutation is a single atomic
// statement; Delete and UpdateSeat report whether a row matched, which the
// coordinator uses as the gate against racing mutations of the same ticket.
type TicketStore interface {
	Insert(ctx context.Context, ticket *models.Ticket) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	UpdateSeat(ctx context.Context, id, seat, prevSeat string) (bool, error)
}

// Publisher emits domain events; failures are logged, never fatal.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

type Coordinator struct {
	events  EventStore
	tickets TicketStore
	catalog *inventory.Catalog
	ledger  *inventory.SalesLedger
	nats    Publisher
}

func NewCoordinator(events EventStore, tickets TicketStore, catalog *inventory.Catalog, ledger *inventory.SalesLedger, nats Publisher) *Coordinator {
	return &Coordinator{
		events:  events,
		tickets: tickets,
		catalog: catalog,
		ledger:  ledger,
		nats:    nats,
	}
}

// Purchase sells one ticket of the requested type to userID. The price is
// copied from the catalog at this instant; later catalog changes do not
// touch the issued ticket. All rejections are terminal for the call and
// leave no partial state; retrying is the caller's decision.
func (c *Coordinator) Purchase(ctx context.Context, req *models.PurchaseTicketRequest, userID int64) (*models.Ticket, error) {
	event, err := c.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, inventory.ErrEventNotFound
	}

	entry, err := c.catalog.GetType(ctx, event.ID, req.Type)
	if err != nil {
		if err == inventory.ErrTypeNotConfigured {
			return nil, inventory.ErrUnknownTicketType
		}
		return nil, err
	}

	seat := strings.TrimSpace(req.SeatNumber)
	if !event.NumberedSeats && seat != "" {
		return nil, &inventory.InvalidArgumentError{
			Field:  "seat_number",
			Reason: "event does not have numbered seats",
		}
	}

	ticket := &models.Ticket{
		ID:          uuid.New().String(),
		EventID:     event.ID,
		UserID:      userID,
		TypeLabel:   entry.Label,
		PriceCents:  entry.PriceCents,
		PurchasedAt: time.Now(),
		ValidFrom:   req.ValidFrom,
		ValidTo:     req.ValidTo,
	}
	if event.NumberedSeats {
		ticket.SeatNumber = &seat
	}

	_, err = c.ledger.Record(ctx, event.ID, event.NumberedSeats, entry.Label, seat, func(ctx context.Context) error {
		return c.tickets.Insert(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, models.EventTicketSold, models.TicketSoldEvent{
		TicketID:   ticket.ID,
		EventID:    ticket.EventID,
		UserID:     ticket.UserID,
		Type:       ticket.TypeLabel,
		PriceCents: ticket.PriceCents,
		SeatNumber: seat,
		Timestamp:  time.Now(),
	})

	return ticket, nil
}

// Cancel is the sale's inverse: it deletes the ticket and returns its quota
// slot and seat to the pool. The row deletion inside the ledger lock is the
// gate; of two concurrent cancels only one releases the sale, the other gets
// ErrTicketNotFound.
func (c *Coordinator) Cancel(ctx context.Context, ticketID string) error {
	ticket, err := c.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return inventory.ErrTicketNotFound
	}

	event, err := c.events.GetByID(ctx, ticket.EventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return inventory.ErrEventNotFound
	}

	seat := ""
	if ticket.SeatNumber != nil {
		seat = *ticket.SeatNumber
	}

	sale := &inventory.Sale{
		EventID: ticket.EventID,
		Type:    ticket.TypeLabel,
		Seat:    seat,
		Seated:  event.NumberedSeats && seat != "",
	}
	err = c.ledger.Release(ctx, sale, func(ctx context.Context) error {
		deleted, err := c.tickets.Delete(ctx, ticket.ID)
		if err != nil {
			return fmt.Errorf("failed to delete ticket: %w", err)
		}
		if !deleted {
			// A concurrent cancel already removed the row; releasing the
			// sale again would free the quota slot and seat twice.
			return inventory.ErrTicketNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.publish(ctx, models.EventTicketCancelled, models.TicketCancelledEvent{
		TicketID:   ticket.ID,
		EventID:    ticket.EventID,
		Type:       ticket.TypeLabel,
		SeatNumber: seat,
		Timestamp:  time.Now(),
	})

	return nil
}

// ReassignSeat moves a ticket to a new seat, re-validating uniqueness while
// excluding the ticket's own current seat. The seat update only matches while
// the row still holds the seat read above, so a racing cancel or reassign
// makes the loser fail with ErrTicketConflict instead of corrupting the seat
// set.
func (c *Coordinator) ReassignSeat(ctx context.Context, ticketID, newSeat string) (*models.Ticket, error) {
	ticket, err := c.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, inventory.ErrTicketNotFound
	}

	event, err := c.events.GetByID(ctx, ticket.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, inventory.ErrEventNotFound
	}

	oldSeat := ""
	if ticket.SeatNumber != nil {
		oldSeat = *ticket.SeatNumber
	}
	newSeat = strings.TrimSpace(newSeat)

	err = c.ledger.Reassign(ctx, ticket.EventID, event.NumberedSeats, oldSeat, newSeat, func(ctx context.Context) error {
		matched, err := c.tickets.UpdateSeat(ctx, ticket.ID, newSeat, oldSeat)
		if err != nil {
			return fmt.Errorf("failed to update seat: %w", err)
		}
		if !matched {
			// The ticket was cancelled or re-seated since we read it; the
			// ledger must not move a seat the row no longer occupies.
			return inventory.ErrTicketConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ticket.SeatNumber = &newSeat

	c.publish(ctx, models.EventTicketReassigned, models.TicketReassignedEvent{
		TicketID:  ticket.ID,
		EventID:   ticket.EventID,
		OldSeat:   oldSeat,
		NewSeat:   newSeat,
		Timestamp: time.Now(),
	})

	return ticket, nil
}

func (c *Coordinator) publish(ctx context.Context, subject string, data interface{}) {
	if c.nats == nil {
		return
	}
	if err := c.nats.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish domain event",
			"error", err,
			"event_type", subject)
	}
}
