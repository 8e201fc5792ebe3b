package service

import (
	"context"
	"fmt"
	"time"

	"usher/internal/cache"
	"usher/internal/inventory"
	"usher/internal/logger"
	"usher/internal/models"
	"usher/internal/repository"
	"usher/internal/search"
)

type EventService struct {
	eventRepo *repository.EventRepository
	catalog   *inventory.Catalog
	ledger    *inventory.SalesLedger
	nats      Publisher
	valkey    *cache.ValkeyClient
	es        *search.ElasticsearchClient
}

func NewEventService(
	eventRepo *repository.EventRepository,
	catalog *inventory.Catalog,
	ledger *inventory.SalesLedger,
	nats Publisher,
	valkey *cache.ValkeyClient,
	es *search.ElasticsearchClient,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		catalog:   catalog,
		ledger:    ledger,
		nats:      nats,
		valkey:    valkey,
		es:        es,
	}
}

// Create stores a new event. The numbered-seats flag is fixed at creation and
// never changes afterwards.
func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.CreateEventResponse, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, &inventory.InvalidArgumentError{Field: "ends_at", Reason: "must be after starts_at"}
	}

	event := &models.Event{
		Name:          req.Name,
		Description:   req.Description,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		NumberedSeats: req.NumberedSeats,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	// Indexing is best effort; Postgres stays the source of truth.
	if s.es != nil {
		if err := s.es.IndexEvent(ctx, event); err != nil {
			logger.WithContext(ctx).Error("Failed to index event",
				"error", err,
				"event_id", event.ID)
		}
	}

	return &models.CreateEventResponse{ID: event.ID}, nil
}

// GetByID returns the event or inventory.ErrEventNotFound.
func (s *EventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, inventory.ErrEventNotFound
	}
	return event, nil
}

// List returns events matching the optional free-text query and date filter.
// Searches go through Elasticsearch when it is configured; plain listings and
// any search failure fall back to Postgres.
func (s *EventService) List(ctx context.Context, query, date string, page, pageSize int) (models.ListEventsResponse, error) {
	var events []models.Event
	var err error

	if s.es != nil && (query != "" || date != "") {
		events, err = s.es.Search(ctx, query, date, page, pageSize)
		if err != nil {
			logger.WithContext(ctx).Error("Event search failed, falling back to Postgres",
				"error", err)
			events = nil
		}
	}

	if events == nil {
		events, err = s.eventRepo.List(ctx, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
	}

	result := make(models.ListEventsResponse, len(events))
	for i, event := range events {
		result[i] = models.ListEventsResponseItem{
			ID:            event.ID,
			Name:          event.Name,
			StartsAt:      event.StartsAt,
			NumberedSeats: event.NumberedSeats,
		}
	}

	return result, nil
}

// LinkRoom associates a room with the event for presentation purposes. The
// association carries no capacity semantics; those stay with the location.
func (s *EventService) LinkRoom(ctx context.Context, eventID, roomID int64) error {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return err
	}

	if err := s.eventRepo.LinkRoom(ctx, eventID, roomID); err != nil {
		return fmt.Errorf("failed to link room: %w", err)
	}
	return nil
}

// ListTypes returns the event's configured ticket types.
func (s *EventService) ListTypes(ctx context.Context, eventID int64) ([]models.TicketTypeResponseItem, error) {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	entries, err := s.catalog.ListTypes(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := make([]models.TicketTypeResponseItem, len(entries))
	for i, entry := range entries {
		result[i] = models.TicketTypeResponseItem{
			Label:      entry.Label,
			PriceCents: entry.PriceCents,
			Quota:      entry.Quota,
		}
	}
	return result, nil
}

// RemainingByType reports how many tickets of each configured type are still
// sellable. The count comes from the sales ledger; Valkey shields the ledger
// from repeated reads and is invalidated on every sale and quota change.
func (s *EventService) RemainingByType(ctx context.Context, eventID int64) (*models.RemainingResponse, error) {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	if s.valkey != nil {
		if remaining, err := s.valkey.GetRemaining(ctx, eventID); err == nil {
			return &models.RemainingResponse{EventID: eventID, Remaining: remaining}, nil
		}
	}

	remaining, err := s.ledger.Remaining(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.valkey != nil {
		if err := s.valkey.SetRemaining(ctx, eventID, remaining); err != nil {
			logger.WithContext(ctx).Error("Failed to cache remaining counts",
				"error", err,
				"event_id", eventID)
		}
	}

	return &models.RemainingResponse{EventID: eventID, Remaining: remaining}, nil
}

// SetTypePrice configures the unit price of a ticket type. Already issued
// tickets keep the price they were sold at.
func (s *EventService) SetTypePrice(ctx context.Context, eventID int64, label string, priceCents int64) error {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return err
	}

	if err := s.catalog.SetPrice(ctx, eventID, label, priceCents); err != nil {
		return err
	}

	s.publishTypeConfigured(ctx, eventID, label, "price")
	return nil
}

// SetTypeQuota configures the total sellable count of a ticket type. The
// sales ledger picks the new quota up immediately; sales already made keep
// counting against it, so lowering the quota below the sold count only stops
// further sales.
func (s *EventService) SetTypeQuota(ctx context.Context, eventID int64, label string, quota int) error {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return err
	}

	if err := s.catalog.SetQuota(ctx, eventID, label, quota); err != nil {
		return err
	}

	s.ledger.UpdateQuota(eventID, label, quota)

	if s.valkey != nil {
		if err := s.valkey.InvalidateRemaining(ctx, eventID); err != nil {
			logger.WithContext(ctx).Error("Failed to invalidate remaining cache",
				"error", err,
				"event_id", eventID)
		}
	}

	s.publishTypeConfigured(ctx, eventID, label, "quota")
	return nil
}

func (s *EventService) publishTypeConfigured(ctx context.Context, eventID int64, label, field string) {
	if s.nats == nil {
		return
	}
	err := s.nats.Publish(models.EventTypeConfigured, models.TypeConfiguredEvent{
		EventID:   eventID,
		Label:     label,
		Field:     field,
		Timestamp: time.Now(),
	})
	if err != nil {
		logger.WithContext(ctx).Error("Failed to publish domain event",
			"error", err,
			"event_type", models.EventTypeConfigured)
	}
}
