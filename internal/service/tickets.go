package service

import (
	"context"
	"errors"
	"fmt"

	"usher/internal/booking"
	"usher/internal/cache"
	"usher/internal/inventory"
	"usher/internal/logger"
	"usher/internal/metrics"
	"usher/internal/models"
	"usher/internal/repository"
)

type TicketService struct {
	coordinator *booking.Coordinator
	ticketRepo  *repository.TicketRepository
	valkey      *cache.ValkeyClient
}

func NewTicketService(coordinator *booking.Coordinator, ticketRepo *repository.TicketRepository, valkey *cache.ValkeyClient) *TicketService {
	return &TicketService{
		coordinator: coordinator,
		ticketRepo:  ticketRepo,
		valkey:      valkey,
	}
}

// Purchase sells one ticket to userID and invalidates the event's cached
// remaining counts.
func (s *TicketService) Purchase(ctx context.Context, req *models.PurchaseTicketRequest, userID int64) (*models.Ticket, error) {
	ticket, err := s.coordinator.Purchase(ctx, req, userID)
	metrics.TicketOperations.WithLabelValues("purchase", operationStatus(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.invalidateRemaining(ctx, ticket.EventID)
	return ticket, nil
}

// GetByID returns the ticket or inventory.ErrTicketNotFound.
func (s *TicketService) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, inventory.ErrTicketNotFound
	}
	return ticket, nil
}

// ListByUser returns every ticket the user holds.
func (s *TicketService) ListByUser(ctx context.Context, userID int64) ([]models.Ticket, error) {
	tickets, err := s.ticketRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// Cancel deletes the ticket and returns its quota slot and seat to the pool.
func (s *TicketService) Cancel(ctx context.Context, ticketID string) error {
	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		metrics.TicketOperations.WithLabelValues("cancel", operationStatus(err)).Inc()
		return err
	}

	err = s.coordinator.Cancel(ctx, ticketID)
	metrics.TicketOperations.WithLabelValues("cancel", operationStatus(err)).Inc()
	if err != nil {
		return err
	}

	s.invalidateRemaining(ctx, ticket.EventID)
	return nil
}

// ReassignSeat moves a ticket to another seat. Remaining counts are
// unaffected, so the cache stays untouched.
func (s *TicketService) ReassignSeat(ctx context.Context, ticketID, seatNumber string) (*models.Ticket, error) {
	ticket, err := s.coordinator.ReassignSeat(ctx, ticketID, seatNumber)
	metrics.TicketOperations.WithLabelValues("reassign", operationStatus(err)).Inc()
	return ticket, err
}

func (s *TicketService) invalidateRemaining(ctx context.Context, eventID int64) {
	if s.valkey == nil {
		return
	}
	if err := s.valkey.InvalidateRemaining(ctx, eventID); err != nil {
		logger.WithContext(ctx).Error("Failed to invalidate remaining cache",
			"error", err,
			"event_id", eventID)
	}
}

// operationStatus labels the outcome for metrics: business rejections are
// distinguished from infrastructure errors.
func operationStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, inventory.ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.Is(err, inventory.ErrSeatTaken):
		return "seat_taken"
	case errors.Is(err, inventory.ErrSeatRequired),
		errors.Is(err, inventory.ErrUnknownTicketType),
		inventory.IsInvalidArgument(err):
		return "rejected"
	case errors.Is(err, inventory.ErrEventNotFound),
		errors.Is(err, inventory.ErrTicketNotFound):
		return "not_found"
	default:
		return "error"
	}
}
