package inventory

import (
	"context"
	"fmt"

	"usher/internal/models"
)

// CatalogStore persists ticket-type entries for events.
type CatalogStore interface {
	UpsertPrice(ctx context.Context, eventID int64, label string, priceCents int64) error
	UpsertQuota(ctx context.Context, eventID int64, label string, quota int) error
	Get(ctx context.Context, eventID int64, label string) (*models.TicketType, error)
	List(ctx context.Context, eventID int64) ([]models.TicketType, error)
}

// Catalog validates and stores the ticket-type configuration of events.
// Labels are arbitrary admin-configured strings, matched exactly and
// case-sensitively. A label with no entry has effective quota 0.
type Catalog struct {
	store CatalogStore
}

func NewCatalog(store CatalogStore) *Catalog {
	return &Catalog{store: store}
}

// SetPrice upserts the unit price of a type without touching its quota.
func (c *Catalog) SetPrice(ctx context.Context, eventID int64, label string, priceCents int64) error {
	if label == "" {
		return &InvalidArgumentError{Field: "type", Reason: "label must not be empty"}
	}
	if priceCents < 0 {
		return &InvalidArgumentError{Field: "price", Reason: "must not be negative"}
	}

	if err := c.store.UpsertPrice(ctx, eventID, label, priceCents); err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}
	return nil
}

// SetQuota upserts the total sellable count of a type without touching its
// price.
func (c *Catalog) SetQuota(ctx context.Context, eventID int64, label string, quota int) error {
	if label == "" {
		return &InvalidArgumentError{Field: "type", Reason: "label must not be empty"}
	}
	if quota < 0 {
		return &InvalidArgumentError{Field: "quota", Reason: "must not be negative"}
	}

	if err := c.store.UpsertQuota(ctx, eventID, label, quota); err != nil {
		return fmt.Errorf("failed to upsert quota: %w", err)
	}
	return nil
}

// GetType returns the catalog entry for label or ErrTypeNotConfigured.
func (c *Catalog) GetType(ctx context.Context, eventID int64, label string) (*models.TicketType, error) {
	entry, err := c.store.Get(ctx, eventID, label)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}
	if entry == nil {
		return nil, ErrTypeNotConfigured
	}
	return entry, nil
}

// ListTypes returns every configured entry of the event.
func (c *Catalog) ListTypes(ctx context.Context, eventID int64) ([]models.TicketType, error) {
	entries, err := c.store.List(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}
	return entries, nil
}
