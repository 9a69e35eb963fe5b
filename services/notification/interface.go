package notification

import (
	"context"

	"droply/models"
)

// Service sends push notifications for booking lifecycle events. Delivery
// is best effort: callers log failures and never fail the booking over
// them.
type Service interface {
	BookingConfirmed(ctx context.Context, b *models.Booking) error
	BookingCancelled(ctx context.Context, b *models.Booking) error
	SessionReminder(ctx context.Context, b *models.Booking) error
}
