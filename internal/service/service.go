package service

import (
	"usher/internal/booking"
	"usher/internal/cache"
	"usher/internal/inventory"
	"usher/internal/repository"
	"usher/internal/search"
)

// Publisher emits domain events; failures are logged, never fatal.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

type Services struct {
	Events    *EventService
	Locations *LocationService
	Tickets   *TicketService
}

// NewServices wires the service layer. The Valkey and Elasticsearch clients
// may be nil; the services then skip caching and fall back to Postgres for
// event listing.
func NewServices(
	repos *repository.Repositories,
	catalog *inventory.Catalog,
	capacity *inventory.CapacityLedger,
	ledger *inventory.SalesLedger,
	nats Publisher,
	valkey *cache.ValkeyClient,
	es *search.ElasticsearchClient,
) *Services {
	coordinator := booking.NewCoordinator(repos.Events, repos.Tickets, catalog, ledger, nats)

	eventService := NewEventService(repos.Events, catalog, ledger, nats, valkey, es)
	locationService := NewLocationService(repos.Locations, repos.Rooms, capacity, nats)
	ticketService := NewTicketService(coordinator, repos.Tickets, valkey)

	return &Services{
		Events:    eventService,
		Locations: locationService,
		Tickets:   ticketService,
	}
}
