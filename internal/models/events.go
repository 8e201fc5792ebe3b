package models

import "time"

// NATS Event Types
const (
	EventTicketSold       = "ticket.sold"
	EventTicketCancelled  = "ticket.cancelled"
	EventTicketReassigned = "ticket.reassigned"
	EventRoomAssigned     = "room.assigned"
	EventRoomResized      = "room.resized"
	EventTypeConfigured   = "type.configured"
)

// TicketSoldEvent represents a completed ticket sale
type TicketSoldEvent struct {
	TicketID   string    `json:"ticket_id"`
	EventID    int64     `json:"event_id"`
	UserID     int64     `json:"user_id"`
	Type       string    `json:"type"`
	PriceCents int64     `json:"price_cents"`
	SeatNumber string    `json:"seat_number,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// TicketCancelledEvent represents a cancelled (deleted) ticket
type TicketCancelledEvent struct {
	TicketID   string    `json:"ticket_id"`
	EventID    int64     `json:"event_id"`
	Type       string    `json:"type"`
	SeatNumber string    `json:"seat_number,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// TicketReassignedEvent represents a ticket moved to another seat
type TicketReassignedEvent struct {
	TicketID  string    `json:"ticket_id"`
	EventID   int64     `json:"event_id"`
	OldSeat   string    `json:"old_seat"`
	NewSeat   string    `json:"new_seat"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomAssignedEvent represents a room added to a location
type RoomAssignedEvent struct {
	RoomID       int64     `json:"room_id"`
	LocationID   int64     `json:"location_id"`
	SeatCapacity int       `json:"seat_capacity"`
	Timestamp    time.Time `json:"timestamp"`
}

// RoomResizedEvent represents a room capacity change
type RoomResizedEvent struct {
	RoomID       int64     `json:"room_id"`
	SeatCapacity int       `json:"seat_capacity"`
	Timestamp    time.Time `json:"timestamp"`
}

// TypeConfiguredEvent represents a ticket-type price or quota change
type TypeConfiguredEvent struct {
	EventID   int64     `json:"event_id"`
	Label     string    `json:"label"`
	Field     string    `json:"field"`
	Timestamp time.Time `json:"timestamp"`
}
