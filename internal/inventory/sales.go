package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// LedgerStore hydrates per-event sales state from persistence. The ledger
// reads each event once and keeps the counters in memory afterwards; all
// mutations flow through the ledger itself, so the hydrated state stays
// authoritative for the lifetime of the process.
type LedgerStore interface {
	// Quotas returns the configured quota per type label.
	Quotas(ctx context.Context, eventID int64) (map[string]int, error)
	// SoldCounts returns the number of issued tickets per type label.
	SoldCounts(ctx context.Context, eventID int64) (map[string]int, error)
	// OccupiedSeats returns the seat numbers already issued for the event.
	OccupiedSeats(ctx context.Context, eventID int64) ([]string, error)
}

// Sale is the handle returned by a successful Record. Release takes it back
// to undo the sale's accounting when the ticket is deleted.
type Sale struct {
	EventID int64
	Type    string
	Seat    string
	Seated  bool
}

type eventState struct {
	quotas map[string]int
	sold   map[string]int
	seats  map[string]struct{}
}

// SalesLedger tracks issued tickets per type and occupied seats per event.
// It is the single serialization point for sales: Record, Release and
// Reassign run their read-check-commit sequence under a per-event mutex, so
// concurrent purchases for one event cannot oversell a type or double-sell
// a seat, while different events proceed fully in parallel.
type SalesLedger struct {
	store LedgerStore
	locks *Locks

	mu     sync.RWMutex
	events map[int64]*eventState
}

func NewSalesLedger(store LedgerStore) *SalesLedger {
	return &SalesLedger{
		store:  store,
		locks:  NewLocks(),
		events: make(map[int64]*eventState),
	}
}

// state returns the hydrated state for eventID, loading it from the store on
// first touch. Callers must hold the event lock.
func (l *SalesLedger) state(ctx context.Context, eventID int64) (*eventState, error) {
	l.mu.RLock()
	st, ok := l.events[eventID]
	l.mu.RUnlock()
	if ok {
		return st, nil
	}

	quotas, err := l.store.Quotas(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quotas: %w", err)
	}
	sold, err := l.store.SoldCounts(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sold counts: %w", err)
	}
	seatList, err := l.store.OccupiedSeats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load occupied seats: %w", err)
	}

	st = &eventState{
		quotas: make(map[string]int, len(quotas)),
		sold:   make(map[string]int, len(sold)),
		seats:  make(map[string]struct{}, len(seatList)),
	}
	for label, q := range quotas {
		st.quotas[label] = q
	}
	for label, n := range sold {
		st.sold[label] = n
	}
	for _, seat := range seatList {
		st.seats[seat] = struct{}{}
	}

	l.mu.Lock()
	l.events[eventID] = st
	l.mu.Unlock()
	return st, nil
}

// Record issues one ticket of the given type, claiming seat when the event
// has numbered seats. commit persists the ticket and runs inside the event
// lock before any counter changes; when it fails the ledger is untouched.
//
// Check order is fixed: seat uniqueness before quota, so a duplicate-seat
// request never consumes quota accounting.
func (l *SalesLedger) Record(ctx context.Context, eventID int64, numbered bool, label, seat string, commit func(context.Context) error) (*Sale, error) {
	unlock := l.locks.Lock(eventID)
	defer unlock()

	st, err := l.state(ctx, eventID)
	if err != nil {
		return nil, err
	}

	seat = strings.TrimSpace(seat)
	if numbered {
		if seat == "" {
			return nil, ErrSeatRequired
		}
		if _, taken := st.seats[seat]; taken {
			return nil, ErrSeatTaken
		}
	}

	if st.sold[label]+1 > st.quotas[label] {
		return nil, ErrQuotaExhausted
	}

	if commit != nil {
		if err := commit(ctx); err != nil {
			return nil, err
		}
	}

	st.sold[label]++
	if numbered {
		st.seats[seat] = struct{}{}
	}
	return &Sale{EventID: eventID, Type: label, Seat: seat, Seated: numbered}, nil
}

// Release is the inverse of Record: it runs commit (the ticket deletion)
// under the event lock and then decrements the sold count and frees the
// seat. A failed commit leaves the ledger untouched.
func (l *SalesLedger) Release(ctx context.Context, sale *Sale, commit func(context.Context) error) error {
	unlock := l.locks.Lock(sale.EventID)
	defer unlock()

	st, err := l.state(ctx, sale.EventID)
	if err != nil {
		return err
	}

	if commit != nil {
		if err := commit(ctx); err != nil {
			return err
		}
	}

	if st.sold[sale.Type] > 0 {
		st.sold[sale.Type]--
	}
	if sale.Seated {
		delete(st.seats, sale.Seat)
	}
	return nil
}

// Reassign moves an issued ticket from oldSeat to newSeat, re-running the
// uniqueness check while excluding the ticket's own current seat. commit
// persists the new seat and runs before the in-memory swap.
func (l *SalesLedger) Reassign(ctx context.Context, eventID int64, numbered bool, oldSeat, newSeat string, commit func(context.Context) error) error {
	if !numbered {
		return &InvalidArgumentError{Field: "seat_number", Reason: "event does not have numbered seats"}
	}

	unlock := l.locks.Lock(eventID)
	defer unlock()

	st, err := l.state(ctx, eventID)
	if err != nil {
		return err
	}

	newSeat = strings.TrimSpace(newSeat)
	if newSeat == "" {
		return ErrSeatRequired
	}
	if newSeat == oldSeat {
		return nil
	}
	if _, taken := st.seats[newSeat]; taken {
		return ErrSeatTaken
	}

	if commit != nil {
		if err := commit(ctx); err != nil {
			return err
		}
	}

	delete(st.seats, oldSeat)
	st.seats[newSeat] = struct{}{}
	return nil
}

// Remaining reports quota minus sold per type, floored at 0 for display.
func (l *SalesLedger) Remaining(ctx context.Context, eventID int64) (map[string]int, error) {
	unlock := l.locks.Lock(eventID)
	defer unlock()

	st, err := l.state(ctx, eventID)
	if err != nil {
		return nil, err
	}

	remaining := make(map[string]int, len(st.quotas))
	for label, quota := range st.quotas {
		left := quota - st.sold[label]
		if left < 0 {
			left = 0
		}
		remaining[label] = left
	}
	return remaining, nil
}

// IsSeatTaken reports whether the seat is already issued for the event.
// Only meaningful for numbered-seat events.
func (l *SalesLedger) IsSeatTaken(ctx context.Context, eventID int64, seat string) (bool, error) {
	unlock := l.locks.Lock(eventID)
	defer unlock()

	st, err := l.state(ctx, eventID)
	if err != nil {
		return false, err
	}

	_, taken := st.seats[strings.TrimSpace(seat)]
	return taken, nil
}

// UpdateQuota refreshes the cached quota of a type after a catalog change.
// No-op when the event has not been hydrated yet; the next hydration reads
// the persisted value.
func (l *SalesLedger) UpdateQuota(eventID int64, label string, quota int) {
	unlock := l.locks.Lock(eventID)
	defer unlock()

	l.mu.RLock()
	st, ok := l.events[eventID]
	l.mu.RUnlock()
	if !ok {
		return
	}
	st.quotas[label] = quota
}
