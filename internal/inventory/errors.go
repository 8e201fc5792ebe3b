// Package inventory holds the capacity and sales accounting for events,
// rooms and locations. Sentinel errors defined here are business outcomes,
// not system failures: handlers translate them into 4xx responses and the
// caller may retry with different input (another seat, another type).
package inventory

import (
	"errors"
	"fmt"
)

// ErrQuotaExhausted is returned when a sale would push the sold count of a
// ticket type past its quota. Handlers should translate this into HTTP 409.
var ErrQuotaExhausted = errors.New("ticket type quota exhausted")

// ErrSeatTaken is returned when the requested seat is already issued for the
// event. Handlers should translate this into HTTP 409.
var ErrSeatTaken = errors.New("seat already taken")

// ErrSeatRequired is returned when an event with numbered seats receives a
// purchase without a seat number.
var ErrSeatRequired = errors.New("seat number required for numbered-seat event")

// ErrUnknownTicketType is returned when the requested type has no catalog
// entry for the event. An unconfigured type has effective quota 0.
var ErrUnknownTicketType = errors.New("ticket type not configured for event")

// ErrTypeNotConfigured is the catalog-level variant of ErrUnknownTicketType,
// returned by lookups rather than sales.
var ErrTypeNotConfigured = errors.New("ticket type not configured")

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrTicketNotFound   = errors.New("ticket not found")
)

// ErrTicketConflict is returned when a ticket mutation loses a race: the row
// no longer matches the state the caller read (deleted or re-seated by a
// concurrent request). The ledger is left untouched; the caller may re-read
// and retry. Handlers should translate this into HTTP 409.
var ErrTicketConflict = errors.New("ticket changed concurrently")

// InvalidArgumentError reports malformed input rejected before any mutation.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}

// CapacityExceededError reports a room assignment or resize that would push
// a location past its seat ceiling. Current is the capacity already assigned
// (excluding the room being resized, if any), Max the location ceiling and
// Requested the capacity that was asked for.
type CapacityExceededError struct {
	Current   int
	Max       int
	Requested int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("location capacity exceeded: %d assigned + %d requested > %d maximum",
		e.Current, e.Requested, e.Max)
}
