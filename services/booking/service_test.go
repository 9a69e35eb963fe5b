package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"droply/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// memSlotRepo guards the availability flag with a mutex so the conditional
// flip behaves like the storage layer's single-document update.
type memSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.TimeSlot
}

func newMemSlotRepo(slots ...*models.TimeSlot) *memSlotRepo {
	r := &memSlotRepo{slots: make(map[string]*models.TimeSlot)}
	for _, s := range slots {
		r.slots[s.ID] = s
	}
	return r
}

func (r *memSlotRepo) Create(ctx context.Context, slot *models.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = slot
	return nil
}

func (r *memSlotRepo) CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	return nil, nil
}

func (r *memSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *s
	return &copied, nil
}

func (r *memSlotRepo) DeleteByID(ctx context.Context, providerID, slotID string) error { return nil }

func (r *memSlotRepo) ListByProvider(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeSlot, error) {
	return nil, nil
}

func (r *memSlotRepo) Reserve(ctx context.Context, slotID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok || !s.IsAvailable {
		return false, nil
	}
	s.IsAvailable = false
	return true, nil
}

func (r *memSlotRepo) Release(ctx context.Context, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.IsAvailable = true
	return nil
}

func (r *memSlotRepo) available(slotID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[slotID].IsAvailable
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	invoices []models.Invoice
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *b
	return &copied, nil
}

func (r *memBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ActiveBySlot(ctx context.Context, slotID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.SlotID == slotID && b.Status != models.BookingCancelled {
			copied := *b
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memBookingRepo) ActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) ConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) MarkPaid(ctx context.Context, bookingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.BookingPendingPayment {
		return false, nil
	}
	b.Status = models.BookingConfirmed
	b.PaymentStatus = models.PaymentPaid
	return true, nil
}

func (r *memBookingRepo) Cancel(ctx context.Context, bookingID string, from []models.BookingStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if b.Status == status {
			b.Status = models.BookingCancelled
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) Complete(ctx context.Context, bookingID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.BookingConfirmed || !b.End.Before(now) {
		return false, nil
	}
	b.Status = models.BookingCompleted
	return true, nil
}

func (r *memBookingRepo) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.Status == models.BookingConfirmed && b.End.Before(now) {
			b.Status = models.BookingCompleted
			n++
		}
	}
	return n, nil
}

func (r *memBookingRepo) UpdateMeeting(ctx context.Context, bookingID string, meeting models.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	b.Meeting = meeting
	return nil
}

func (r *memBookingRepo) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = append(r.invoices, *inv)
	return nil
}

type stubPayments struct {
	fail  bool
	calls int
}

func (p *stubPayments) CreateCheckout(ctx context.Context, b *models.Booking, description string) (*models.CheckoutIntent, error) {
	p.calls++
	if p.fail {
		return nil, errors.New("checkout declined")
	}
	return &models.CheckoutIntent{
		SessionID:   "cs_test_" + b.ID,
		RedirectURL: "https://checkout.example/" + b.ID,
	}, nil
}

type stubNotifier struct {
	mu        sync.Mutex
	confirmed int
	cancelled int
}

func (n *stubNotifier) BookingConfirmed(ctx context.Context, b *models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed++
	return nil
}

func (n *stubNotifier) BookingCancelled(ctx context.Context, b *models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled++
	return nil
}

func (n *stubNotifier) SessionReminder(ctx context.Context, b *models.Booking) error { return nil }

func testSlot(price float64) *models.TimeSlot {
	return &models.TimeSlot{
		ID:          "slot-1",
		ProviderID:  "prov-1",
		Title:       "Consultation",
		Start:       time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC),
		Price:       price,
		Currency:    "USD",
		IsAvailable: true,
	}
}

func testRequest() models.ReservationRequest {
	return models.ReservationRequest{
		ClientID:    "client-1",
		ClientName:  "Jordan Kim",
		ClientEmail: "jordan@example.com",
	}
}

func newBookingService(slots *memSlotRepo, bookings *memBookingRepo, payments PaymentProcessor, notifier *stubNotifier) *DefaultBookingService {
	return &DefaultBookingService{
		Slots:    slots,
		Bookings: bookings,
		Payments: payments,
		Notifier: notifier,
		Logger:   zap.NewNop(),
		Now: func() time.Time {
			return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestReservePaidSlotStartsPendingPayment(t *testing.T) {
	slots := newMemSlotRepo(testSlot(80))
	svc := newBookingService(slots, newMemBookingRepo(), &stubPayments{}, &stubNotifier{})

	result, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.NoError(t, err)

	assert.Equal(t, models.BookingPendingPayment, result.Booking.Status)
	assert.Equal(t, models.PaymentPending, result.Booking.PaymentStatus)
	assert.NotEmpty(t, result.CheckoutURL)
	assert.False(t, slots.available("slot-1"))
}

func TestReserveFreeSlotConfirmsImmediately(t *testing.T) {
	notifier := &stubNotifier{}
	payments := &stubPayments{}
	svc := newBookingService(newMemSlotRepo(testSlot(0)), newMemBookingRepo(), payments, notifier)

	result, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.NoError(t, err)

	assert.Equal(t, models.BookingConfirmed, result.Booking.Status)
	assert.Empty(t, result.CheckoutURL)
	assert.Zero(t, payments.calls)
	assert.Equal(t, 1, notifier.confirmed)
}

func TestReserveMissingSlot(t *testing.T) {
	svc := newBookingService(newMemSlotRepo(), newMemBookingRepo(), &stubPayments{}, &stubNotifier{})

	_, err := svc.Reserve(context.Background(), "nope", testRequest())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestReserveCheckoutFailureReleasesSlot(t *testing.T) {
	slots := newMemSlotRepo(testSlot(80))
	svc := newBookingService(slots, newMemBookingRepo(), &stubPayments{fail: true}, &stubNotifier{})

	_, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.Error(t, err)
	assert.True(t, slots.available("slot-1"))
}

// Many clients race for one slot; the conditional update in the slot store
// must admit exactly one.
func TestReserveConcurrentSingleWinner(t *testing.T) {
	const goroutines = 32

	slots := newMemSlotRepo(testSlot(80))
	svc := newBookingService(slots, newMemBookingRepo(), &stubPayments{}, &stubNotifier{})

	var wg sync.WaitGroup
	results := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), "slot-1", testRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrSlotAlreadyReserved):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, goroutines-1, lost)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	notifier := &stubNotifier{}
	bookings := newMemBookingRepo()
	svc := newBookingService(newMemSlotRepo(testSlot(80)), bookings, &stubPayments{}, notifier)

	result, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.NoError(t, err)
	id := result.Booking.ID

	require.NoError(t, svc.ConfirmPayment(context.Background(), id))
	b, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.Equal(t, models.PaymentPaid, b.PaymentStatus)
	assert.Equal(t, 1, notifier.confirmed)

	// A duplicate webhook delivery is swallowed, not escalated.
	require.NoError(t, svc.ConfirmPayment(context.Background(), id))
	assert.Equal(t, 1, notifier.confirmed)
}

func TestConfirmPaymentRecordsInvoiceOnce(t *testing.T) {
	bookings := newMemBookingRepo()
	svc := newBookingService(newMemSlotRepo(testSlot(80)), bookings, &stubPayments{}, &stubNotifier{})

	result, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPayment(context.Background(), result.Booking.ID))
	require.Len(t, bookings.invoices, 1)
	inv := bookings.invoices[0]
	assert.Equal(t, result.Booking.ID, inv.BookingID)
	assert.Equal(t, 80.0, inv.Amount)
	assert.Equal(t, "USD", inv.Currency)
	assert.Equal(t, "paid", inv.Status)
	assert.NotEmpty(t, inv.InvoiceID)

	// The duplicate webhook never produces a second invoice.
	require.NoError(t, svc.ConfirmPayment(context.Background(), result.Booking.ID))
	assert.Len(t, bookings.invoices, 1)
}

func TestConfirmPaymentUnknownBooking(t *testing.T) {
	svc := newBookingService(newMemSlotRepo(), newMemBookingRepo(), &stubPayments{}, &stubNotifier{})
	err := svc.ConfirmPayment(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirmPaymentOnCancelledBooking(t *testing.T) {
	bookings := newMemBookingRepo()
	svc := newBookingService(newMemSlotRepo(testSlot(80)), bookings, &stubPayments{}, &stubNotifier{})

	result, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), result.Booking.ID))

	err = svc.ConfirmPayment(context.Background(), result.Booking.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestCancelReleasesSlotForRebooking(t *testing.T) {
	notifier := &stubNotifier{}
	slots := newMemSlotRepo(testSlot(80))
	svc := newBookingService(slots, newMemBookingRepo(), &stubPayments{}, notifier)

	result, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), result.Booking.ID))
	assert.True(t, slots.available("slot-1"))
	assert.Equal(t, 1, notifier.cancelled)

	// The slot can be claimed again.
	_, err = svc.Reserve(context.Background(), "slot-1", testRequest())
	assert.NoError(t, err)
}

// A slot must stay off the market while any live booking still points at
// it, even if the store somehow holds two bookings for one slot.
func TestCancelKeepsSlotWhileAnotherBookingHoldsIt(t *testing.T) {
	slot := testSlot(80)
	slot.IsAvailable = false
	slots := newMemSlotRepo(slot)
	bookings := newMemBookingRepo()
	svc := newBookingService(slots, bookings, &stubPayments{}, &stubNotifier{})

	first := &models.Booking{
		ID:         "b-1",
		SlotID:     "slot-1",
		ProviderID: "prov-1",
		Start:      slot.Start,
		End:        slot.End,
		Status:     models.BookingConfirmed,
	}
	second := *first
	second.ID = "b-2"
	require.NoError(t, bookings.Create(context.Background(), first))
	require.NoError(t, bookings.Create(context.Background(), &second))

	require.NoError(t, svc.Cancel(context.Background(), "b-1"))
	assert.False(t, slots.available("slot-1"))

	// With the last holder gone the slot reopens.
	require.NoError(t, svc.Cancel(context.Background(), "b-2"))
	assert.True(t, slots.available("slot-1"))
}

func TestCancelAfterStartIsRejected(t *testing.T) {
	slots := newMemSlotRepo(testSlot(80))
	svc := newBookingService(slots, newMemBookingRepo(), &stubPayments{}, &stubNotifier{})

	result, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.NoError(t, err)

	// Move the clock past the session start.
	svc.Now = func() time.Time {
		return time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC)
	}
	err = svc.Cancel(context.Background(), result.Booking.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.False(t, slots.available("slot-1"))
}

func TestCancelCompletedBookingIsRejected(t *testing.T) {
	bookings := newMemBookingRepo()
	svc := newBookingService(newMemSlotRepo(testSlot(0)), bookings, &stubPayments{}, &stubNotifier{})

	result, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.NoError(t, err)

	// End passes, the read lazily completes the booking.
	svc.Now = func() time.Time {
		return time.Date(2024, 6, 3, 16, 0, 0, 0, time.UTC)
	}
	b, err := svc.GetByID(context.Background(), result.Booking.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingCompleted, b.Status)

	err = svc.Cancel(context.Background(), result.Booking.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestCompleteExpiredSweep(t *testing.T) {
	bookings := newMemBookingRepo()
	svc := newBookingService(newMemSlotRepo(testSlot(0)), bookings, &stubPayments{}, &stubNotifier{})

	result, err := svc.Reserve(context.Background(), "slot-1", testRequest())
	require.NoError(t, err)

	svc.Now = func() time.Time {
		return time.Date(2024, 6, 3, 16, 0, 0, 0, time.UTC)
	}
	n, err := svc.CompleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	b, err := svc.GetByID(context.Background(), result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, b.Status)
}
