package inventory

import (
	"context"
	"fmt"
)

// CapacityStore reads the location ceiling and the capacity already assigned
// to a location.
type CapacityStore interface {
	// Ceiling returns the location's max available seats. found is false
	// when the location does not exist.
	Ceiling(ctx context.Context, locationID int64) (ceiling int, found bool, err error)
	// AssignedCapacity sums the seat capacity of rooms assigned to the
	// location, excluding excludeRoomID when non-zero.
	AssignedCapacity(ctx context.Context, locationID, excludeRoomID int64) (int, error)
}

// CapacityLedger guards the invariant that the summed seat capacity of a
// location's rooms never exceeds its ceiling. A ceiling of 0 disables the
// check entirely, matching the legacy permissive behavior.
type CapacityLedger struct {
	store CapacityStore
	locks *Locks
}

func NewCapacityLedger(store CapacityStore) *CapacityLedger {
	return &CapacityLedger{store: store, locks: NewLocks()}
}

// TryAssign checks whether a room of the given capacity fits into the
// location, excluding excludeRoomID's current contribution when resizing.
// It has no side effects. Capacity exactly at the ceiling is allowed.
func (l *CapacityLedger) TryAssign(ctx context.Context, locationID int64, capacity int, excludeRoomID int64) error {
	if capacity <= 0 {
		return &InvalidArgumentError{Field: "seat_capacity", Reason: "must be positive"}
	}

	ceiling, found, err := l.store.Ceiling(ctx, locationID)
	if err != nil {
		return fmt.Errorf("failed to read location ceiling: %w", err)
	}
	if !found {
		return ErrLocationNotFound
	}
	if ceiling == 0 {
		// Unconstrained location.
		return nil
	}

	current, err := l.store.AssignedCapacity(ctx, locationID, excludeRoomID)
	if err != nil {
		return fmt.Errorf("failed to sum assigned capacity: %w", err)
	}

	if current+capacity > ceiling {
		return &CapacityExceededError{Current: current, Max: ceiling, Requested: capacity}
	}
	return nil
}

// Assign serializes the check-then-persist sequence per location: it runs
// TryAssign under the location lock and calls persist only when the room
// fits. Two concurrent assignments into the same location cannot both pass
// the check against stale sums.
func (l *CapacityLedger) Assign(ctx context.Context, locationID int64, capacity int, excludeRoomID int64, persist func(context.Context) error) error {
	unlock := l.locks.Lock(locationID)
	defer unlock()

	if err := l.TryAssign(ctx, locationID, capacity, excludeRoomID); err != nil {
		return err
	}
	return persist(ctx)
}
