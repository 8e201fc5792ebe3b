package models

import "time"

// CreateLocationRequest - request body for creating a location
type CreateLocationRequest struct {
	Name              string `json:"name" binding:"required"`
	Address           string `json:"address"`
	MaxAvailableSeats int    `json:"max_available_seats"`
}

// CreateLocationResponse - response body after creating a location
type CreateLocationResponse struct {
	ID int64 `json:"id"`
}

// AssignRoomRequest - request body for assigning a new room to a location
type AssignRoomRequest struct {
	Name         string `json:"name" binding:"required"`
	SeatCapacity int    `json:"seat_capacity" binding:"required"`
}

// AssignRoomResponse - response body after assigning a room
type AssignRoomResponse struct {
	ID int64 `json:"id"`
}

// ResizeRoomRequest - request body for changing a room's seat capacity
type ResizeRoomRequest struct {
	SeatCapacity int `json:"seat_capacity" binding:"required"`
}

// CreateEventRequest - request body for creating an event
type CreateEventRequest struct {
	Name          string    `json:"name" binding:"required"`
	Description   *string   `json:"description"`
	StartsAt      time.Time `json:"starts_at" binding:"required"`
	EndsAt        time.Time `json:"ends_at" binding:"required"`
	NumberedSeats bool      `json:"numbered_seats"`
}

// CreateEventResponse - response body after creating an event
type CreateEventResponse struct {
	ID int64 `json:"id"`
}

// ListEventsResponseItem - one element of the events list
type ListEventsResponseItem struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	StartsAt      time.Time `json:"starts_at"`
	NumberedSeats bool      `json:"numbered_seats"`
}

// ListEventsResponse - events list
type ListEventsResponse []ListEventsResponseItem

// SetPriceRequest - request body for configuring a ticket type's price
type SetPriceRequest struct {
	PriceCents int64 `json:"price_cents"`
}

// SetQuotaRequest - request body for configuring a ticket type's quota
type SetQuotaRequest struct {
	Quota int `json:"quota"`
}

// TicketTypeResponseItem - one catalog entry of an event
type TicketTypeResponseItem struct {
	Label      string `json:"label"`
	PriceCents int64  `json:"price_cents"`
	Quota      int    `json:"quota"`
}

// RemainingResponse - remaining sellable count per ticket type
type RemainingResponse struct {
	EventID   int64          `json:"event_id"`
	Remaining map[string]int `json:"remaining"`
}

// PurchaseTicketRequest - request body for buying one ticket
type PurchaseTicketRequest struct {
	EventID    int64      `json:"event_id" binding:"required"`
	Type       string     `json:"type" binding:"required"`
	SeatNumber string     `json:"seat_number"`
	ValidFrom  *time.Time `json:"valid_from"`
	ValidTo    *time.Time `json:"valid_to"`
}

// ReassignSeatRequest - request body for moving a ticket to another seat
type ReassignSeatRequest struct {
	SeatNumber string `json:"seat_number" binding:"required"`
}

// RejectionResponse - structured business rejection returned to the client
type RejectionResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// CapacityExceededResponse - rejection payload for room assignments that do
// not fit the location ceiling
type CapacityExceededResponse struct {
	Error     string `json:"error"`
	Reason    string `json:"reason"`
	Current   int    `json:"current"`
	Max       int    `json:"max"`
	Requested int    `json:"requested"`
}
