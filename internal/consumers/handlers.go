package consumers

import (
	"encoding/json"
	"log/slog"

	"usher/internal/metrics"
	"usher/internal/models"
	"usher/internal/repository"

	"github.com/nats-io/stan.go"
)

// Handlers process the domain events emitted by the API. They are an audit
// trail and a metrics feed; the authoritative state already changed before
// the event was published.
type Handlers struct {
	repos *repository.Repositories
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{repos: repos}
}

func (h *Handlers) HandleTicketSold(m *stan.Msg) {
	var event models.TicketSoldEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket sold event", "error", err)
		metrics.MessagesConsumed.WithLabelValues(models.EventTicketSold, "error").Inc()
		return
	}

	slog.Info("Ticket sold",
		"ticket_id", event.TicketID,
		"event_id", event.EventID,
		"user_id", event.UserID,
		"type", event.Type,
		"price_cents", event.PriceCents,
		"seat_number", event.SeatNumber)

	metrics.MessagesConsumed.WithLabelValues(models.EventTicketSold, "ok").Inc()
	m.Ack()
}

func (h *Handlers) HandleTicketCancelled(m *stan.Msg) {
	var event models.TicketCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket cancelled event", "error", err)
		metrics.MessagesConsumed.WithLabelValues(models.EventTicketCancelled, "error").Inc()
		return
	}

	slog.Info("Ticket cancelled",
		"ticket_id", event.TicketID,
		"event_id", event.EventID,
		"type", event.Type,
		"seat_number", event.SeatNumber)

	metrics.MessagesConsumed.WithLabelValues(models.EventTicketCancelled, "ok").Inc()
	m.Ack()
}

func (h *Handlers) HandleTicketReassigned(m *stan.Msg) {
	var event models.TicketReassignedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket reassigned event", "error", err)
		metrics.MessagesConsumed.WithLabelValues(models.EventTicketReassigned, "error").Inc()
		return
	}

	slog.Info("Ticket reassigned",
		"ticket_id", event.TicketID,
		"event_id", event.EventID,
		"old_seat", event.OldSeat,
		"new_seat", event.NewSeat)

	metrics.MessagesConsumed.WithLabelValues(models.EventTicketReassigned, "ok").Inc()
	m.Ack()
}

func (h *Handlers) HandleRoomAssigned(m *stan.Msg) {
	var event models.RoomAssignedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal room assigned event", "error", err)
		metrics.MessagesConsumed.WithLabelValues(models.EventRoomAssigned, "error").Inc()
		return
	}

	slog.Info("Room assigned",
		"room_id", event.RoomID,
		"location_id", event.LocationID,
		"seat_capacity", event.SeatCapacity)

	metrics.MessagesConsumed.WithLabelValues(models.EventRoomAssigned, "ok").Inc()
	m.Ack()
}

func (h *Handlers) HandleRoomResized(m *stan.Msg) {
	var event models.RoomResizedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal room resized event", "error", err)
		metrics.MessagesConsumed.WithLabelValues(models.EventRoomResized, "error").Inc()
		return
	}

	slog.Info("Room resized",
		"room_id", event.RoomID,
		"seat_capacity", event.SeatCapacity)

	metrics.MessagesConsumed.WithLabelValues(models.EventRoomResized, "ok").Inc()
	m.Ack()
}

func (h *Handlers) HandleTypeConfigured(m *stan.Msg) {
	var event models.TypeConfiguredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal type configured event", "error", err)
		metrics.MessagesConsumed.WithLabelValues(models.EventTypeConfigured, "error").Inc()
		return
	}

	slog.Info("Ticket type configured",
		"event_id", event.EventID,
		"label", event.Label,
		"field", event.Field)

	metrics.MessagesConsumed.WithLabelValues(models.EventTypeConfigured, "ok").Inc()
	m.Ack()
}
