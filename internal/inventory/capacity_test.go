package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCapacityStore keeps location ceilings and room capacities in memory.
type fakeCapacityStore struct {
	mu       sync.Mutex
	ceilings map[int64]int
	// rooms[locationID][roomID] = capacity
	rooms map[int64]map[int64]int
}

func newFakeCapacityStore() *fakeCapacityStore {
	return &fakeCapacityStore{
		ceilings: make(map[int64]int),
		rooms:    make(map[int64]map[int64]int),
	}
}

func (f *fakeCapacityStore) Ceiling(ctx context.Context, locationID int64) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ceiling, ok := f.ceilings[locationID]
	return ceiling, ok, nil
}

func (f *fakeCapacityStore) AssignedCapacity(ctx context.Context, locationID, excludeRoomID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for roomID, capacity := range f.rooms[locationID] {
		if roomID == excludeRoomID {
			continue
		}
		total += capacity
	}
	return total, nil
}

func (f *fakeCapacityStore) addRoom(locationID, roomID int64, capacity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rooms[locationID] == nil {
		f.rooms[locationID] = make(map[int64]int)
	}
	f.rooms[locationID][roomID] = capacity
}

func TestTryAssignWithinCeiling(t *testing.T) {
	store := newFakeCapacityStore()
	store.ceilings[1] = 500
	ledger := NewCapacityLedger(store)

	assert.NoError(t, ledger.TryAssign(context.Background(), 1, 300, 0))
}

func TestTryAssignExactlyAtCeiling(t *testing.T) {
	store := newFakeCapacityStore()
	store.ceilings[1] = 500
	store.addRoom(1, 10, 300)
	ledger := NewCapacityLedger(store)

	assert.NoError(t, ledger.TryAssign(context.Background(), 1, 200, 0))
}

func TestTryAssignCapacityExceeded(t *testing.T) {
	store := newFakeCapacityStore()
	store.ceilings[1] = 500
	store.addRoom(1, 10, 300)
	ledger := NewCapacityLedger(store)

	err := ledger.TryAssign(context.Background(), 1, 250, 0)

	var capErr *CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 300, capErr.Current)
	assert.Equal(t, 500, capErr.Max)
	assert.Equal(t, 250, capErr.Requested)
}

func TestResizeExcludesOwnContribution(t *testing.T) {
	// Location at 500, room A holds 300. Room B at 250 does not fit, but
	// after resizing A down to 100 it does.
	store := newFakeCapacityStore()
	store.ceilings[1] = 500
	store.addRoom(1, 10, 300)
	ledger := NewCapacityLedger(store)
	ctx := context.Background()

	err := ledger.TryAssign(ctx, 1, 250, 0)
	var capErr *CapacityExceededError
	require.ErrorAs(t, err, &capErr)

	// Resize room A: its own 300 must not be double-counted.
	require.NoError(t, ledger.TryAssign(ctx, 1, 100, 10))
	store.addRoom(1, 10, 100)

	assert.NoError(t, ledger.TryAssign(ctx, 1, 250, 0))
}

func TestZeroCeilingIsUnconstrained(t *testing.T) {
	store := newFakeCapacityStore()
	store.ceilings[1] = 0
	store.addRoom(1, 10, 100000)
	ledger := NewCapacityLedger(store)

	assert.NoError(t, ledger.TryAssign(context.Background(), 1, 100000, 0))
}

func TestTryAssignInvalidCapacity(t *testing.T) {
	store := newFakeCapacityStore()
	store.ceilings[1] = 500
	ledger := NewCapacityLedger(store)

	assert.True(t, IsInvalidArgument(ledger.TryAssign(context.Background(), 1, 0, 0)))
	assert.True(t, IsInvalidArgument(ledger.TryAssign(context.Background(), 1, -5, 0)))
}

func TestTryAssignLocationNotFound(t *testing.T) {
	ledger := NewCapacityLedger(newFakeCapacityStore())

	err := ledger.TryAssign(context.Background(), 99, 100, 0)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestAssignSerializesPerLocation(t *testing.T) {
	// Two concurrent 300-seat assignments into a 500-seat location: only
	// one may pass.
	store := newFakeCapacityStore()
	store.ceilings[1] = 500
	ledger := NewCapacityLedger(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := int64(1); i <= 2; i++ {
		wg.Add(1)
		go func(roomID int64) {
			defer wg.Done()
			err := ledger.Assign(ctx, 1, 300, 0, func(context.Context) error {
				store.addRoom(1, roomID, 300)
				return nil
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, exceeded int
	for err := range results {
		var capErr *CapacityExceededError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &capErr):
			exceeded++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, exceeded)
}

func TestCapacityExceededErrorMessage(t *testing.T) {
	err := &CapacityExceededError{Current: 300, Max: 500, Requested: 250}
	assert.Equal(t, "location capacity exceeded: 300 assigned + 250 requested > 500 maximum", err.Error())
}
