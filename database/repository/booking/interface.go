// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"droply/database"
	"droply/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repository persists bookings. State transitions are conditional updates
// keyed on the current status so a losing writer observes zero modified
// documents instead of clobbering a concurrent transition.
type Repository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Booking, error)
	// ActiveBySlot returns the non-cancelled booking for a slot, if any.
	ActiveBySlot(ctx context.Context, slotID string) (*models.Booking, error)
	// ActiveInRange returns non-cancelled bookings overlapping [from, to).
	ActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error)
	// ConfirmedStartingBetween returns confirmed bookings across all
	// providers whose start falls in [from, to). Feeds the reminder sweep.
	ConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)

	// MarkPaid transitions pending_payment -> confirmed/paid. Reports false
	// when the booking was not in pending_payment.
	MarkPaid(ctx context.Context, bookingID string) (bool, error)
	// Cancel transitions from any of the given statuses to cancelled.
	Cancel(ctx context.Context, bookingID string, from []models.BookingStatus) (bool, error)
	// Complete flips one confirmed booking whose end passed to completed.
	Complete(ctx context.Context, bookingID string, now time.Time) (bool, error)
	// CompleteExpired flips all confirmed bookings whose end passed to completed.
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)

	UpdateMeeting(ctx context.Context, bookingID string, meeting models.Meeting) error

	// CreateInvoice records the settled payment behind a confirmed booking.
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
}

type mongoBookingRepo struct {
	coll     *mongo.Collection
	invoices *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB-backed Repository.
func NewMongoBookingRepo() Repository {
	db := database.MongoClient.Database(database.Name)
	return &mongoBookingRepo{
		coll:     db.Collection("bookings"),
		invoices: db.Collection("invoices"),
	}
}
