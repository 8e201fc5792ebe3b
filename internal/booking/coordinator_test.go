package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usher/internal/inventory"
	"usher/internal/models"
)

type fakeEventStore struct {
	events map[int64]*models.Event
}

func (f *fakeEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return f.events[id], nil
}

type fakeTicketStore struct {
	mu        sync.Mutex
	tickets   map[string]*models.Ticket
	insertErr error
	onGet     func() // called after each GetByID read, outside the lock
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: make(map[string]*models.Ticket)}
}

func (f *fakeTicketStore) Insert(ctx context.Context, ticket *models.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketStore) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[id]; !ok {
		return false, nil
	}
	delete(f.tickets, id)
	return true, nil
}

func (f *fakeTicketStore) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	f.mu.Lock()
	var out *models.Ticket
	if t, ok := f.tickets[id]; ok {
		copied := *t
		out = &copied
	}
	f.mu.Unlock()
	if f.onGet != nil {
		f.onGet()
	}
	return out, nil
}

func (f *fakeTicketStore) UpdateSeat(ctx context.Context, id, seat, prevSeat string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || t.SeatNumber == nil || *t.SeatNumber != prevSeat {
		return false, nil
	}
	t.SeatNumber = &seat
	return true, nil
}

type fakeCatalogStore struct {
	entries map[string]*models.TicketType
}

func (f *fakeCatalogStore) UpsertPrice(ctx context.Context, eventID int64, label string, priceCents int64) error {
	return nil
}

func (f *fakeCatalogStore) UpsertQuota(ctx context.Context, eventID int64, label string, quota int) error {
	return nil
}

func (f *fakeCatalogStore) Get(ctx context.Context, eventID int64, label string) (*models.TicketType, error) {
	return f.entries[label], nil
}

func (f *fakeCatalogStore) List(ctx context.Context, eventID int64) ([]models.TicketType, error) {
	return nil, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

type fixture struct {
	coordinator *Coordinator
	tickets     *fakeTicketStore
	ledger      *inventory.SalesLedger
	publisher   *recordingPublisher
}

func newFixture(numbered bool, types map[string]*models.TicketType, quotas map[string]int) *fixture {
	events := &fakeEventStore{events: map[int64]*models.Event{
		1: {ID: 1, Name: "Opening Night", NumberedSeats: numbered},
	}}
	tickets := newFakeTicketStore()
	catalog := inventory.NewCatalog(&fakeCatalogStore{entries: types})
	ledger := inventory.NewSalesLedger(quotaStore(quotas))
	publisher := &recordingPublisher{}

	return &fixture{
		coordinator: NewCoordinator(events, tickets, catalog, ledger, publisher),
		tickets:     tickets,
		ledger:      ledger,
		publisher:   publisher,
	}
}

type quotaStore map[string]int

func (q quotaStore) Quotas(ctx context.Context, eventID int64) (map[string]int, error) {
	return q, nil
}

func (q quotaStore) SoldCounts(ctx context.Context, eventID int64) (map[string]int, error) {
	return nil, nil
}

func (q quotaStore) OccupiedSeats(ctx context.Context, eventID int64) ([]string, error) {
	return nil, nil
}

func vipCatalog(price int64, quota int) map[string]*models.TicketType {
	return map[string]*models.TicketType{
		"VIP": {EventID: 1, Label: "VIP", PriceCents: price, Quota: quota},
	}
}

func TestPurchaseCopiesCatalogPrice(t *testing.T) {
	f := newFixture(false, vipCatalog(12500, 10), map[string]int{"VIP": 10})

	ticket, err := f.coordinator.Purchase(context.Background(), &models.PurchaseTicketRequest{
		EventID: 1,
		Type:    "VIP",
	}, 42)
	require.NoError(t, err)

	assert.Equal(t, int64(12500), ticket.PriceCents)
	assert.Equal(t, int64(42), ticket.UserID)
	assert.Equal(t, "VIP", ticket.TypeLabel)
	assert.Nil(t, ticket.SeatNumber)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, []string{models.EventTicketSold}, f.publisher.subjects)
}

func TestPurchaseEventNotFound(t *testing.T) {
	f := newFixture(false, vipCatalog(100, 1), map[string]int{"VIP": 1})

	_, err := f.coordinator.Purchase(context.Background(), &models.PurchaseTicketRequest{
		EventID: 99,
		Type:    "VIP",
	}, 1)
	assert.ErrorIs(t, err, inventory.ErrEventNotFound)
}

func TestPurchaseUnknownTicketType(t *testing.T) {
	f := newFixture(false, vipCatalog(100, 1), map[string]int{"VIP": 1})

	_, err := f.coordinator.Purchase(context.Background(), &models.PurchaseTicketRequest{
		EventID: 1,
		Type:    "Backstage",
	}, 1)
	assert.ErrorIs(t, err, inventory.ErrUnknownTicketType)
}

func TestPurchaseSeatOnUnnumberedEvent(t *testing.T) {
	f := newFixture(false, vipCatalog(100, 1), map[string]int{"VIP": 1})

	_, err := f.coordinator.Purchase(context.Background(), &models.PurchaseTicketRequest{
		EventID:    1,
		Type:       "VIP",
		SeatNumber: "A1",
	}, 1)
	assert.True(t, inventory.IsInvalidArgument(err))
}

func TestPurchaseQuotaScenario(t *testing.T) {
	// Quota {"VIP": 2}: two purchases succeed, the third is rejected.
	f := newFixture(false, vipCatalog(100, 2), map[string]int{"VIP": 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{EventID: 1, Type: "VIP"}, 1)
		require.NoError(t, err)
	}

	_, err := f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{EventID: 1, Type: "VIP"}, 1)
	assert.ErrorIs(t, err, inventory.ErrQuotaExhausted)
}

func TestPurchaseDuplicateSeatScenario(t *testing.T) {
	f := newFixture(true, vipCatalog(100, 10), map[string]int{"VIP": 10})
	ctx := context.Background()

	_, err := f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: "A1",
	}, 1)
	require.NoError(t, err)

	_, err = f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: "A1",
	}, 2)
	assert.ErrorIs(t, err, inventory.ErrSeatTaken)
}

func TestPurchaseSeatRequiredOnNumberedEvent(t *testing.T) {
	f := newFixture(true, vipCatalog(100, 10), map[string]int{"VIP": 10})

	_, err := f.coordinator.Purchase(context.Background(), &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP",
	}, 1)
	assert.ErrorIs(t, err, inventory.ErrSeatRequired)
}

func TestPurchaseInsertFailureLeavesNoState(t *testing.T) {
	f := newFixture(true, vipCatalog(100, 1), map[string]int{"VIP": 1})
	f.tickets.insertErr = errors.New("connection lost")
	ctx := context.Background()

	_, err := f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: "A1",
	}, 1)
	require.Error(t, err)
	assert.Empty(t, f.publisher.subjects)

	// The failed attempt consumed nothing: quota and seat are still free.
	f.tickets.insertErr = nil
	_, err = f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: "A1",
	}, 1)
	assert.NoError(t, err)
}

func TestCancelRoundTrip(t *testing.T) {
	f := newFixture(true, vipCatalog(100, 1), map[string]int{"VIP": 1})
	ctx := context.Background()

	ticket, err := f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: "A1",
	}, 1)
	require.NoError(t, err)

	require.NoError(t, f.coordinator.Cancel(ctx, ticket.ID))

	remaining, err := f.ledger.Remaining(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining["VIP"])

	taken, err := f.ledger.IsSeatTaken(ctx, 1, "A1")
	require.NoError(t, err)
	assert.False(t, taken)

	stored, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	assert.Equal(t, []string{models.EventTicketSold, models.EventTicketCancelled}, f.publisher.subjects)
}

func TestCancelUnknownTicket(t *testing.T) {
	f := newFixture(false, vipCatalog(100, 1), map[string]int{"VIP": 1})

	err := f.coordinator.Cancel(context.Background(), "no-such-ticket")
	assert.ErrorIs(t, err, inventory.ErrTicketNotFound)
}

func TestReassignSeat(t *testing.T) {
	f := newFixture(true, vipCatalog(100, 10), map[string]int{"VIP": 10})
	ctx := context.Background()

	first, err := f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: "A1",
	}, 1)
	require.NoError(t, err)

	_, err = f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: "A2",
	}, 2)
	require.NoError(t, err)

	// Occupied by another ticket.
	_, err = f.coordinator.ReassignSeat(ctx, first.ID, "A2")
	assert.ErrorIs(t, err, inventory.ErrSeatTaken)

	// Free seat works and releases the old one.
	updated, err := f.coordinator.ReassignSeat(ctx, first.ID, "B5")
	require.NoError(t, err)
	require.NotNil(t, updated.SeatNumber)
	assert.Equal(t, "B5", *updated.SeatNumber)

	taken, err := f.ledger.IsSeatTaken(ctx, 1, "A1")
	require.NoError(t, err)
	assert.False(t, taken)

	// The vacated seat is sellable again.
	_, err = f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: "A1",
	}, 3)
	assert.NoError(t, err)
}

func TestConcurrentPurchasesRespectQuota(t *testing.T) {
	const quota = 2
	const buyers = 8

	f := newFixture(false, vipCatalog(100, quota), map[string]int{"VIP": quota})
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_, err := f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
				EventID: 1, Type: "VIP",
			}, user)
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var ok, exhausted int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, inventory.ErrQuotaExhausted):
			exhausted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, quota, ok)
	assert.Equal(t, buyers-quota, exhausted)
}

func TestConcurrentCancelsReleaseOnce(t *testing.T) {
	f := newFixture(false, vipCatalog(100, 2), map[string]int{"VIP": 2})
	ctx := context.Background()

	ticket, err := f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{EventID: 1, Type: "VIP"}, 1)
	require.NoError(t, err)
	_, err = f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{EventID: 1, Type: "VIP"}, 2)
	require.NoError(t, err)

	// Hold both cancels until each has read the ticket, so they race into
	// the delete with the same stale view.
	var gate sync.WaitGroup
	gate.Add(2)
	f.tickets.onGet = func() {
		gate.Done()
		gate.Wait()
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.coordinator.Cancel(ctx, ticket.ID)
		}()
	}
	wg.Wait()
	close(results)
	f.tickets.onGet = nil

	var ok, notFound int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, inventory.ErrTicketNotFound):
			notFound++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, notFound)

	// Exactly one slot came back: 2 sold, 1 cancelled, 1 remaining.
	remaining, err := f.ledger.Remaining(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining["VIP"])

	_, err = f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{EventID: 1, Type: "VIP"}, 3)
	require.NoError(t, err)
	_, err = f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{EventID: 1, Type: "VIP"}, 4)
	assert.ErrorIs(t, err, inventory.ErrQuotaExhausted)
}

func TestConcurrentReassignsKeepSeatsConsistent(t *testing.T) {
	f := newFixture(true, vipCatalog(100, 10), map[string]int{"VIP": 10})
	ctx := context.Background()

	ticket, err := f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: "A1",
	}, 1)
	require.NoError(t, err)

	var gate sync.WaitGroup
	gate.Add(2)
	f.tickets.onGet = func() {
		gate.Done()
		gate.Wait()
	}

	type outcome struct {
		seat string
		err  error
	}
	var wg sync.WaitGroup
	results := make(chan outcome, 2)
	for _, seat := range []string{"B5", "C3"} {
		wg.Add(1)
		go func(seat string) {
			defer wg.Done()
			_, err := f.coordinator.ReassignSeat(ctx, ticket.ID, seat)
			results <- outcome{seat: seat, err: err}
		}(seat)
	}
	wg.Wait()
	close(results)
	f.tickets.onGet = nil

	var winner, loser string
	for res := range results {
		switch {
		case res.err == nil:
			winner = res.seat
		case errors.Is(res.err, inventory.ErrTicketConflict):
			loser = res.seat
		default:
			t.Fatalf("unexpected error: %v", res.err)
		}
	}
	require.NotEmpty(t, winner)
	require.NotEmpty(t, loser)

	stored, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SeatNumber)
	assert.Equal(t, winner, *stored.SeatNumber)

	// The old seat and the losing target are both sellable; only the
	// winning seat is held.
	for _, seat := range []string{"A1", loser} {
		_, err = f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
			EventID: 1, Type: "VIP", SeatNumber: seat,
		}, 2)
		require.NoError(t, err)
	}
	_, err = f.coordinator.Purchase(ctx, &models.PurchaseTicketRequest{
		EventID: 1, Type: "VIP", SeatNumber: winner,
	}, 3)
	assert.ErrorIs(t, err, inventory.ErrSeatTaken)
}
