package schedule

import (
	"context"
	"time"

	"droply/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repositories backing the schedule tests.

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) Update(ctx context.Context, u *models.User) error { return nil }

func (r *fakeUserRepo) SetFCMToken(ctx context.Context, userID, token string) error { return nil }

type fakeAvailabilityRepo struct {
	rules      []models.AvailabilityRule
	exceptions []models.AvailabilityException
}

func (r *fakeAvailabilityRepo) ReplaceRules(ctx context.Context, providerID string, rules []models.AvailabilityRule) error {
	r.rules = rules
	return nil
}

func (r *fakeAvailabilityRepo) ListRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error) {
	return r.rules, nil
}

func (r *fakeAvailabilityRepo) CreateException(ctx context.Context, exc *models.AvailabilityException) error {
	if exc.ID == "" {
		exc.ID = uuid.New().String()
	}
	r.exceptions = append(r.exceptions, *exc)
	return nil
}

func (r *fakeAvailabilityRepo) DeleteException(ctx context.Context, providerID, exceptionID string) error {
	for i, exc := range r.exceptions {
		if exc.ID == exceptionID {
			r.exceptions = append(r.exceptions[:i], r.exceptions[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeAvailabilityRepo) ListExceptions(ctx context.Context, providerID string, from, to time.Time) ([]models.AvailabilityException, error) {
	var out []models.AvailabilityException
	for _, exc := range r.exceptions {
		if exc.Start.Before(to) && exc.End.After(from) {
			out = append(out, exc)
		}
	}
	return out, nil
}

type fakeSlotRepo struct {
	slots map[string]*models.TimeSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]*models.TimeSlot)}
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	r.slots[slot.ID] = slot
	return nil
}

func (r *fakeSlotRepo) CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	ids := make([]string, len(slots))
	for i := range slots {
		s := slots[i]
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		ids[i] = s.ID
		r.slots[s.ID] = &s
	}
	return ids, nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	s, ok := r.slots[slotID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return s, nil
}

func (r *fakeSlotRepo) DeleteByID(ctx context.Context, providerID, slotID string) error {
	if _, ok := r.slots[slotID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.slots, slotID)
	return nil
}

func (r *fakeSlotRepo) ListByProvider(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range r.slots {
		if s.ProviderID == providerID && s.Start.Before(to) && s.End.After(from) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) Reserve(ctx context.Context, slotID string) (bool, error) {
	s, ok := r.slots[slotID]
	if !ok || !s.IsAvailable {
		return false, nil
	}
	s.IsAvailable = false
	return true, nil
}

func (r *fakeSlotRepo) Release(ctx context.Context, slotID string) error {
	s, ok := r.slots[slotID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.IsAvailable = true
	return nil
}

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return b, nil
}

func (r *fakeBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) ListByClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) ActiveBySlot(ctx context.Context, slotID string) (*models.Booking, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *fakeBookingRepo) ActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.Status != models.BookingCancelled &&
			b.Start.Before(to) && b.End.After(from) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) MarkPaid(ctx context.Context, bookingID string) (bool, error) {
	return false, nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, bookingID string, from []models.BookingStatus) (bool, error) {
	return false, nil
}

func (r *fakeBookingRepo) Complete(ctx context.Context, bookingID string, now time.Time) (bool, error) {
	return false, nil
}

func (r *fakeBookingRepo) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeBookingRepo) UpdateMeeting(ctx context.Context, bookingID string, meeting models.Meeting) error {
	return nil
}

func (r *fakeBookingRepo) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	return nil
}
