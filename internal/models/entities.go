package models

import (
	"time"
)

// User represents a user in the system
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// Location represents a venue that owns rooms. MaxAvailableSeats is the
// ceiling on the summed seat capacity of its rooms; 0 means unconstrained
// (legacy permissive mode).
type Location struct {
	ID                int64  `json:"id" db:"id"`
	Name              string `json:"name" db:"name"`
	Address           string `json:"address" db:"address"`
	MaxAvailableSeats int    `json:"max_available_seats" db:"max_available_seats"`
}

// Room represents a room with a fixed seat capacity. LocationID is nil while
// the room is unassigned.
type Room struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	SeatCapacity int    `json:"seat_capacity" db:"seat_capacity"`
	LocationID   *int64 `json:"location_id" db:"location_id"`
}

// Event represents an event in the system. NumberedSeats is fixed for the
// lifetime of the event: when true every ticket carries a unique seat number.
type Event struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description" db:"description"`
	StartsAt      time.Time `json:"starts_at" db:"starts_at"`
	EndsAt        time.Time `json:"ends_at" db:"ends_at"`
	NumberedSeats bool      `json:"numbered_seats" db:"numbered_seats"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// TicketType is one catalog entry of an event: a case-sensitive label with a
// unit price and a total sellable quota. Price and quota are set through
// independent calls, so either may be present with the other still zero.
type TicketType struct {
	EventID    int64  `json:"event_id" db:"event_id"`
	Label      string `json:"label" db:"label"`
	PriceCents int64  `json:"price_cents" db:"price_cents"`
	Quota      int    `json:"quota" db:"quota"`
}

// Ticket represents an issued ticket. PriceCents is copied from the catalog
// at sale time; later price changes do not alter issued tickets. SeatNumber
// is set if and only if the event has numbered seats.
type Ticket struct {
	ID          string     `json:"id" db:"id"`
	EventID     int64      `json:"event_id" db:"event_id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	TypeLabel   string     `json:"type_label" db:"type_label"`
	PriceCents  int64      `json:"price_cents" db:"price_cents"`
	SeatNumber  *string    `json:"seat_number,omitempty" db:"seat_number"`
	PurchasedAt time.Time  `json:"purchased_at" db:"purchased_at"`
	ValidFrom   *time.Time `json:"valid_from,omitempty" db:"valid_from"`
	ValidTo     *time.Time `json:"valid_to,omitempty" db:"valid_to"`
}
