package repository

import (
	"context"

	"usher/internal/database"
)

type Repositories struct {
	Locations *LocationRepository
	Rooms     *RoomRepository
	Events    *EventRepository
	Types     *TicketTypeRepository
	Tickets   *TicketRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Locations: NewLocationRepository(db),
		Rooms:     NewRoomRepository(db),
		Events:    NewEventRepository(db),
		Types:     NewTicketTypeRepository(db),
		Tickets:   NewTicketRepository(db),
	}
}

// LedgerStore bundles the queries the sales ledger hydrates from: quotas
// come from the ticket-type catalog, sold counts and occupied seats from the
// issued tickets.
type LedgerStore struct {
	types   *TicketTypeRepository
	tickets *TicketRepository
}

func NewLedgerStore(repos *Repositories) *LedgerStore {
	return &LedgerStore{types: repos.Types, tickets: repos.Tickets}
}

func (s *LedgerStore) Quotas(ctx context.Context, eventID int64) (map[string]int, error) {
	return s.types.Quotas(ctx, eventID)
}

func (s *LedgerStore) SoldCounts(ctx context.Context, eventID int64) (map[string]int, error) {
	return s.tickets.SoldCounts(ctx, eventID)
}

func (s *LedgerStore) OccupiedSeats(ctx context.Context, eventID int64) ([]string, error) {
	return s.tickets.OccupiedSeats(ctx, eventID)
}
