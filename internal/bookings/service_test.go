package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ticketly/internal/shared/config"
	"ticketly/internal/tickets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is an in-memory seat counter with the same conditional
// semantics as the SQL ledger
type fakeLedger struct {
	mu        sync.Mutex
	available int
	total     int
	missing   bool
}

func (f *fakeLedger) Reserve(ctx context.Context, ticketID uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing {
		return tickets.ErrPoolNotFound
	}
	if f.available < quantity {
		return tickets.ErrInsufficientSeats
	}
	f.available -= quantity
	return nil
}

func (f *fakeLedger) Release(ctx context.Context, ticketID uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.available+quantity > f.total {
		return tickets.ErrInvariantViolation
	}
	f.available += quantity
	return nil
}

// fakeRepo is an in-memory booking store with conditional transitions
type fakeRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*Booking
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeRepo) Create(ctx context.Context, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	switch to {
	case StatusCancelled:
		now := time.Now()
		booking.CancelledAt = &now
	case StatusConfirmed:
		booking.ReservationDeadline = nil
	}
	return true, nil
}

func (f *fakeRepo) SetArtifactRef(ctx context.Context, id uuid.UUID, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if booking, ok := f.bookings[id]; ok {
		booking.ArtifactRef = ref
	}
	return nil
}

func (f *fakeRepo) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Booking
	for _, b := range f.bookings {
		if b.Status == StatusPending && b.ReservationDeadline != nil && !b.ReservationDeadline.After(now) {
			result = append(result, *b)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (f *fakeRepo) SumConfirmedFreeSeats(ctx context.Context, userID, ticketID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, b := range f.bookings {
		if b.UserID == userID && b.TicketID == ticketID && b.Status == StatusConfirmed {
			total += b.Quantity
		}
	}
	return total, nil
}

type fakeResolver struct {
	ticket *tickets.BookingTicket
	err    error
}

func (f *fakeResolver) ResolveForBooking(ctx context.Context, eventID, ticketID uuid.UUID) (*tickets.BookingTicket, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.ticket
	return &copied, nil
}

type fakePayments struct {
	mu         sync.Mutex
	orderErr   error
	intentErr  error
	orders     int
	intents    int
	lastOrder  string
	lastAmount int64
}

func (f *fakePayments) OpenOrder(ctx context.Context, amount int64, receipt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orderErr != nil {
		return "", f.orderErr
	}
	f.orders++
	f.lastAmount = amount
	f.lastOrder = "order_" + receipt[:8]
	return f.lastOrder, nil
}

func (f *fakePayments) CreateIntent(ctx context.Context, bookingID uuid.UUID, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.intentErr != nil {
		return f.intentErr
	}
	f.intents++
	return nil
}

type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) Issue(ctx context.Context, bookingID uuid.UUID) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "data:image/png;base64,artifact-" + bookingID.String(), nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []uuid.UUID
	expired   []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeNotifier) BookingConfirmed(ctx context.Context, booking *Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, booking.ID)
}

func (f *fakeNotifier) BookingExpired(ctx context.Context, booking *Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = append(f.expired, booking.ID)
}

func (f *fakeNotifier) PaymentFailed(ctx context.Context, booking *Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, booking.ID)
}

type fixture struct {
	service  Service
	repo     *fakeRepo
	ledger   *fakeLedger
	resolver *fakeResolver
	payments *fakePayments
	notifier *fakeNotifier
}

func testConfig() config.BookingConfig {
	return config.BookingConfig{
		ReservationWindow: 5 * time.Minute,
		SweepInterval:     time.Minute,
		SweepBatchSize:    100,
		FreeTicketCap:     5,
	}
}

func newFixture(ticket *tickets.BookingTicket, seats int) *fixture {
	f := &fixture{
		repo:     newFakeRepo(),
		ledger:   &fakeLedger{available: seats, total: seats},
		resolver: &fakeResolver{ticket: ticket},
		payments: &fakePayments{},
		notifier: &fakeNotifier{},
	}
	f.service = NewService(f.repo, f.ledger, f.resolver, f.payments, &fakeIssuer{}, f.notifier, testConfig())
	return f
}

func freeTicket() *tickets.BookingTicket {
	return &tickets.BookingTicket{
		TicketID:       uuid.New(),
		EventID:        uuid.New(),
		Type:           tickets.TypeFree,
		UnitPrice:      0,
		EventPublished: true,
	}
}

func paidTicket(price int64) *tickets.BookingTicket {
	return &tickets.BookingTicket{
		TicketID:       uuid.New(),
		EventID:        uuid.New(),
		Type:           tickets.TypeGeneral,
		UnitPrice:      price,
		EventPublished: true,
	}
}

func TestCreateBooking_FreeConfirmsImmediately(t *testing.T) {
	f := newFixture(freeTicket(), 10)
	userID := uuid.New()

	result, err := f.service.CreateBooking(context.Background(), userID, f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, result.Status)
	assert.False(t, result.PaymentRequired)
	assert.Equal(t, int64(0), result.Amount)
	assert.Empty(t, result.OrderID)
	assert.Equal(t, 8, f.ledger.available)

	stored, err := f.repo.GetByID(context.Background(), result.BookingID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status)
	assert.NotEmpty(t, stored.ArtifactRef)
	assert.Nil(t, stored.ReservationDeadline)

	assert.Contains(t, f.notifier.confirmed, result.BookingID)
	assert.False(t, result.ArtifactPending)
	assert.Equal(t, 0, f.payments.orders, "free bookings must not touch the gateway")
}

func TestCreateBooking_ArtifactFailureKeepsBooking(t *testing.T) {
	f := newFixture(freeTicket(), 10)
	f.service = NewService(f.repo, f.ledger, f.resolver, f.payments,
		&fakeIssuer{err: errors.New("encoder unavailable")}, f.notifier, testConfig())

	result, err := f.service.CreateBooking(context.Background(), uuid.New(), f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 2})
	require.NoError(t, err)

	// The seat was legitimately consumed; only the artifact is outstanding
	assert.Equal(t, StatusConfirmed, result.Status)
	assert.True(t, result.ArtifactPending)
	assert.Equal(t, 8, f.ledger.available, "issuance failure must not release seats")

	stored, _ := f.repo.GetByID(context.Background(), result.BookingID)
	assert.Equal(t, StatusConfirmed, stored.Status)
	assert.Empty(t, stored.ArtifactRef)
}

func TestCreateBooking_FreeTicketCap(t *testing.T) {
	f := newFixture(freeTicket(), 100)
	userID := uuid.New()
	eventID := f.resolver.ticket.EventID
	ticketID := f.resolver.ticket.TicketID

	_, err := f.service.CreateBooking(context.Background(), userID, eventID, ticketID, CreateBookingRequest{Quantity: 4})
	require.NoError(t, err)

	// 4 held, cap 5: one more is fine, two is not
	_, err = f.service.CreateBooking(context.Background(), userID, eventID, ticketID, CreateBookingRequest{Quantity: 2})
	assert.ErrorIs(t, err, ErrFreeTicketCapExceeded)
	assert.Equal(t, 96, f.ledger.available, "rejected booking must not consume seats")

	_, err = f.service.CreateBooking(context.Background(), userID, eventID, ticketID, CreateBookingRequest{Quantity: 1})
	assert.NoError(t, err)

	// Another user is unaffected by the first user's cap
	_, err = f.service.CreateBooking(context.Background(), uuid.New(), eventID, ticketID, CreateBookingRequest{Quantity: 5})
	assert.NoError(t, err)
}

func TestCreateBooking_EventNotPublished(t *testing.T) {
	ticket := freeTicket()
	ticket.EventPublished = false
	f := newFixture(ticket, 10)

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), ticket.EventID, ticket.TicketID, CreateBookingRequest{Quantity: 1})
	assert.ErrorIs(t, err, ErrEventNotPublished)
	assert.Equal(t, 10, f.ledger.available)
}

func TestCreateBooking_InsufficientSeats(t *testing.T) {
	f := newFixture(freeTicket(), 3)

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 4})
	assert.ErrorIs(t, err, ErrSeatsUnavailable)
	assert.Equal(t, 3, f.ledger.available)
}

func TestCreateBooking_PaidOpensPendingReservation(t *testing.T) {
	f := newFixture(paidTicket(150000), 10)
	userID := uuid.New()

	before := time.Now()
	result, err := f.service.CreateBooking(context.Background(), userID, f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, result.Status)
	assert.True(t, result.PaymentRequired)
	assert.Equal(t, int64(450000), result.Amount)
	assert.NotEmpty(t, result.OrderID)
	require.NotNil(t, result.ReservationDeadline)
	assert.True(t, result.ReservationDeadline.After(before.Add(4*time.Minute)))

	assert.Equal(t, 7, f.ledger.available)
	assert.Equal(t, 1, f.payments.orders)
	assert.Equal(t, 1, f.payments.intents)
	assert.Equal(t, int64(450000), f.payments.lastAmount)

	stored, err := f.repo.GetByID(context.Background(), result.BookingID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Empty(t, stored.ArtifactRef, "no artifact before payment")
	assert.Empty(t, f.notifier.confirmed)
}

func TestCreateBooking_GatewayDownReleasesAndWritesNothing(t *testing.T) {
	f := newFixture(paidTicket(100000), 10)
	f.payments.orderErr = errors.New("connection refused")

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 2})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	assert.Equal(t, 10, f.ledger.available, "seats must be returned")
	assert.Empty(t, f.repo.bookings, "no booking row on gateway failure")
	assert.Equal(t, 0, f.payments.intents)
}

func TestCreateBooking_BookingWriteFailureReleases(t *testing.T) {
	f := newFixture(paidTicket(100000), 10)
	f.repo.createErr = errors.New("connection reset")

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 2})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, 10, f.ledger.available)
}

func TestCreateBooking_IntentFailureFailsBookingAndReleases(t *testing.T) {
	f := newFixture(paidTicket(100000), 10)
	f.payments.intentErr = errors.New("duplicate key")

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 2})
	require.Error(t, err)
	assert.Equal(t, 10, f.ledger.available)

	require.Len(t, f.repo.bookings, 1)
	for _, b := range f.repo.bookings {
		assert.Equal(t, StatusFailed, b.Status)
	}
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(paidTicket(100000), 10)
	userID := uuid.New()

	result, err := f.service.CreateBooking(context.Background(), userID, f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 8, f.ledger.available)

	// Wrong user cannot cancel
	err = f.service.CancelBooking(context.Background(), result.BookingID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOwner)

	err = f.service.CancelBooking(context.Background(), result.BookingID, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, f.ledger.available)

	stored, _ := f.repo.GetByID(context.Background(), result.BookingID)
	assert.Equal(t, StatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)

	// Second cancel finds a terminal booking
	err = f.service.CancelBooking(context.Background(), result.BookingID, userID)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.Equal(t, 10, f.ledger.available, "seats must not be released twice")
}

func TestCancelBooking_ConfirmedIsNotCancellable(t *testing.T) {
	f := newFixture(freeTicket(), 10)
	userID := uuid.New()

	result, err := f.service.CreateBooking(context.Background(), userID, f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 1})
	require.NoError(t, err)

	err = f.service.CancelBooking(context.Background(), result.BookingID, userID)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, 9, f.ledger.available)
}

func TestReclaimExpired(t *testing.T) {
	f := newFixture(paidTicket(100000), 20)
	ctx := context.Background()

	elapsed := time.Now().Add(-time.Minute)
	future := time.Now().Add(5 * time.Minute)

	expired := &Booking{
		ID: uuid.New(), UserID: uuid.New(),
		EventID: f.resolver.ticket.EventID, TicketID: f.resolver.ticket.TicketID,
		Quantity: 3, Amount: 300000, PaymentRequired: true,
		Status: StatusPending, ReservationDeadline: &elapsed,
	}
	live := &Booking{
		ID: uuid.New(), UserID: uuid.New(),
		EventID: f.resolver.ticket.EventID, TicketID: f.resolver.ticket.TicketID,
		Quantity: 2, Amount: 200000, PaymentRequired: true,
		Status: StatusPending, ReservationDeadline: &future,
	}
	require.NoError(t, f.repo.Create(ctx, expired))
	require.NoError(t, f.repo.Create(ctx, live))
	f.ledger.available = 15 // 3 + 2 held

	reclaimed, err := f.service.ReclaimExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)
	assert.Equal(t, 18, f.ledger.available, "only the expired hold returns")

	stored, _ := f.repo.GetByID(ctx, expired.ID)
	assert.Equal(t, StatusExpired, stored.Status)

	untouched, _ := f.repo.GetByID(ctx, live.ID)
	assert.Equal(t, StatusPending, untouched.Status)

	assert.Contains(t, f.notifier.expired, expired.ID)

	// A second sweep finds nothing; seats are released exactly once
	reclaimed, err = f.service.ReclaimExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, reclaimed)
	assert.Equal(t, 18, f.ledger.available)
}

func TestConfirmPaid_RaceWithReclaimer(t *testing.T) {
	f := newFixture(paidTicket(100000), 10)
	ctx := context.Background()

	elapsed := time.Now().Add(-time.Minute)
	booking := &Booking{
		ID: uuid.New(), UserID: uuid.New(),
		EventID: f.resolver.ticket.EventID, TicketID: f.resolver.ticket.TicketID,
		Quantity: 2, Amount: 200000, PaymentRequired: true,
		Status: StatusPending, ReservationDeadline: &elapsed,
	}
	require.NoError(t, f.repo.Create(ctx, booking))
	f.ledger.available = 8

	// Reclaimer wins first
	_, err := f.service.ReclaimExpired(ctx)
	require.NoError(t, err)

	applied, current, err := f.service.ConfirmPaid(ctx, booking.ID)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, StatusExpired, current)
	assert.Equal(t, 10, f.ledger.available, "confirm after expiry must not touch seats")
}

func TestConfirmPaid_LateDeadlineExpires(t *testing.T) {
	f := newFixture(paidTicket(100000), 10)
	ctx := context.Background()

	// Deadline elapsed, but the reclaimer has not swept yet
	elapsed := time.Now().Add(-time.Second)
	booking := &Booking{
		ID: uuid.New(), UserID: uuid.New(),
		EventID: f.resolver.ticket.EventID, TicketID: f.resolver.ticket.TicketID,
		Quantity: 2, Amount: 200000, PaymentRequired: true,
		Status: StatusPending, ReservationDeadline: &elapsed,
	}
	require.NoError(t, f.repo.Create(ctx, booking))
	f.ledger.available = 8

	applied, current, err := f.service.ConfirmPaid(ctx, booking.ID)
	require.NoError(t, err)
	assert.False(t, applied, "late payment must not confirm")
	assert.Equal(t, StatusExpired, current)
	assert.Equal(t, 10, f.ledger.available, "expiring the booking returns its seats")

	stored, _ := f.repo.GetByID(ctx, booking.ID)
	assert.Equal(t, StatusExpired, stored.Status)
	assert.Contains(t, f.notifier.expired, booking.ID)

	// The reclaimer finding it later is a no-op
	reclaimed, err := f.service.ReclaimExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, reclaimed)
	assert.Equal(t, 10, f.ledger.available)
}

func TestConfirmPaid_IssuesArtifactAndNotifies(t *testing.T) {
	f := newFixture(paidTicket(100000), 10)
	ctx := context.Background()

	deadline := time.Now().Add(5 * time.Minute)
	booking := &Booking{
		ID: uuid.New(), UserID: uuid.New(),
		EventID: f.resolver.ticket.EventID, TicketID: f.resolver.ticket.TicketID,
		Quantity: 2, Amount: 200000, PaymentRequired: true,
		Status: StatusPending, ReservationDeadline: &deadline,
	}
	require.NoError(t, f.repo.Create(ctx, booking))
	f.ledger.available = 8

	applied, current, err := f.service.ConfirmPaid(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, StatusConfirmed, current)
	assert.Equal(t, 8, f.ledger.available, "confirm keeps the hold")

	stored, _ := f.repo.GetByID(ctx, booking.ID)
	assert.Equal(t, StatusConfirmed, stored.Status)
	assert.Nil(t, stored.ReservationDeadline)
	assert.NotEmpty(t, stored.ArtifactRef)
	assert.Contains(t, f.notifier.confirmed, booking.ID)
}

func TestFailPaid_ReleasesOnce(t *testing.T) {
	f := newFixture(paidTicket(100000), 10)
	ctx := context.Background()

	deadline := time.Now().Add(5 * time.Minute)
	booking := &Booking{
		ID: uuid.New(), UserID: uuid.New(),
		EventID: f.resolver.ticket.EventID, TicketID: f.resolver.ticket.TicketID,
		Quantity: 2, Amount: 200000, PaymentRequired: true,
		Status: StatusPending, ReservationDeadline: &deadline,
	}
	require.NoError(t, f.repo.Create(ctx, booking))
	f.ledger.available = 8

	applied, err := f.service.FailPaid(ctx, booking.ID, "payment signature invalid")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 10, f.ledger.available)
	assert.Contains(t, f.notifier.failed, booking.ID)

	applied, err = f.service.FailPaid(ctx, booking.ID, "payment signature invalid")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 10, f.ledger.available, "second fail must not release again")
}

func TestCreateBooking_ConcurrentNeverOversells(t *testing.T) {
	const seats = 25
	const workers = 100

	f := newFixture(freeTicket(), seats)
	// Cap must not interfere with the concurrency test
	cfg := testConfig()
	cfg.FreeTicketCap = 1000
	f.service = NewService(f.repo, f.ledger, f.resolver, f.payments, &fakeIssuer{}, f.notifier, cfg)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CreateBooking(context.Background(), uuid.New(), f.resolver.ticket.EventID, f.resolver.ticket.TicketID, CreateBookingRequest{Quantity: 1})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, ErrSeatsUnavailable) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, seats, succeeded, "exactly the available seats are sold")
	assert.Equal(t, 0, f.ledger.available)
}
