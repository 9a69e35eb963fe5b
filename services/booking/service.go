package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "droply/database/repository/booking"
	slotRepo "droply/database/repository/slot"
	"droply/models"
	"droply/services/notification"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BookingService drives the reservation lifecycle:
//
//	pending_payment -> confirmed -> completed
//	pending_payment -> cancelled
//	confirmed       -> cancelled
//
// Free slots skip payment and start confirmed.
type BookingService interface {
	Reserve(ctx context.Context, slotID string, req models.ReservationRequest) (*models.ReservationResult, error)
	ConfirmPayment(ctx context.Context, bookingID string) error
	Cancel(ctx context.Context, bookingID string) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]models.Booking, []models.Booking, error)
	CompleteExpired(ctx context.Context) (int64, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Slots    slotRepo.Repository
	Bookings bookingRepo.Repository
	Payments PaymentProcessor
	Notifier notification.Service
	Logger   *zap.Logger
	Now      func() time.Time // defaults to time.Now
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Reserve atomically claims the slot and creates the booking. The claim is
// a single conditional update in the slot store, so of two concurrent
// callers exactly one proceeds; the other gets ErrSlotAlreadyReserved and
// must re-fetch availability.
func (s *DefaultBookingService) Reserve(ctx context.Context, slotID string, req models.ReservationRequest) (*models.ReservationResult, error) {
	slot, err := s.Slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to load slot: %w", err)
	}

	reserved, err := s.Slots.Reserve(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve slot: %w", err)
	}
	if !reserved {
		return nil, ErrSlotAlreadyReserved
	}

	status := models.BookingConfirmed
	if slot.Price > 0 {
		status = models.BookingPendingPayment
	}
	b := &models.Booking{
		ID:            uuid.New().String(),
		SlotID:        slot.ID,
		ProviderID:    slot.ProviderID,
		ClientID:      req.ClientID,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientMessage: req.ClientMessage,
		Start:         slot.Start,
		End:           slot.End,
		Status:        status,
		PaymentStatus: models.PaymentPending,
		Amount:        slot.Price,
		Currency:      slot.Currency,
	}

	var checkoutURL string
	if status == models.BookingPendingPayment {
		intent, payErr := s.Payments.CreateCheckout(ctx, b, slot.Title)
		if payErr != nil {
			s.release(ctx, slot.ID)
			return nil, fmt.Errorf("payment setup failed: %w", payErr)
		}
		b.CheckoutSessionID = intent.SessionID
		b.PaymentIntentID = intent.PaymentIntentID
		checkoutURL = intent.RedirectURL
	}

	if err := s.Bookings.Create(ctx, b); err != nil {
		s.release(ctx, slot.ID)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if b.Status == models.BookingConfirmed {
		s.notifyConfirmed(ctx, b)
	}

	s.Logger.Info("slot reserved",
		zap.String("bookingId", b.ID),
		zap.String("slotId", slot.ID),
		zap.String("status", string(b.Status)))

	return &models.ReservationResult{Booking: *b, CheckoutURL: checkoutURL}, nil
}

// ConfirmPayment applies the asynchronous "payment succeeded" callback.
// The transition is a conditional update on pending_payment, which makes a
// duplicate callback a no-op: it is logged and swallowed, never escalated.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, bookingID string) error {
	confirmed, err := s.Bookings.MarkPaid(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}
	if confirmed {
		if b, gerr := s.Bookings.GetByID(ctx, bookingID); gerr == nil {
			s.recordInvoice(ctx, b)
			s.notifyConfirmed(ctx, b)
		}
		return nil
	}

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to load booking: %w", err)
	}
	if b.PaymentStatus == models.PaymentPaid {
		s.Logger.Info("duplicate payment confirmation ignored", zap.String("bookingId", bookingID))
		return nil
	}
	return fmt.Errorf("%w: cannot confirm payment for %s booking", ErrInvalidStateTransition, b.Status)
}

// Cancel tears a booking down before its start time and re-opens the slot.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID string) error {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to load booking: %w", err)
	}

	if b.Status != models.BookingPendingPayment && b.Status != models.BookingConfirmed {
		return fmt.Errorf("%w: cannot cancel %s booking", ErrInvalidStateTransition, b.Status)
	}
	if !s.now().Before(b.Start) {
		return fmt.Errorf("%w: session already started", ErrInvalidStateTransition)
	}

	cancelled, err := s.Bookings.Cancel(ctx, bookingID,
		[]models.BookingStatus{models.BookingPendingPayment, models.BookingConfirmed})
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if !cancelled {
		// Lost a race against another transition.
		return fmt.Errorf("%w: booking changed state concurrently", ErrInvalidStateTransition)
	}

	// The slot only reopens once no live booking points at it; a stray
	// second booking on the same slot must not resurface it for sale.
	if other, aerr := s.Bookings.ActiveBySlot(ctx, b.SlotID); aerr == nil && other != nil {
		s.Logger.Warn("slot kept reserved, another active booking holds it",
			zap.String("slotId", b.SlotID), zap.String("bookingId", other.ID))
	} else if err := s.Slots.Release(ctx, b.SlotID); err != nil {
		s.Logger.Error("failed to release slot after cancellation",
			zap.String("slotId", b.SlotID), zap.String("bookingId", bookingID), zap.Error(err))
	}

	b.Status = models.BookingCancelled
	if s.Notifier != nil {
		if nerr := s.Notifier.BookingCancelled(ctx, b); nerr != nil {
			s.Logger.Warn("cancellation notification failed", zap.Error(nerr))
		}
	}
	return nil
}

// GetByID loads a booking, lazily completing it when its end has passed.
func (s *DefaultBookingService) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	if b.Status == models.BookingConfirmed && b.End.Before(s.now()) {
		if done, cerr := s.Bookings.Complete(ctx, bookingID, s.now()); cerr == nil && done {
			b.Status = models.BookingCompleted
		}
	}
	return b, nil
}

// ListForUser returns the user's bookings as provider and as client.
func (s *DefaultBookingService) ListForUser(ctx context.Context, userID string) ([]models.Booking, []models.Booking, error) {
	asProvider, err := s.Bookings.ListByProvider(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	asClient, err := s.Bookings.ListByClient(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return asProvider, asClient, nil
}

// CompleteExpired sweeps confirmed bookings whose end time has passed.
// Invoked periodically from the task queue.
func (s *DefaultBookingService) CompleteExpired(ctx context.Context) (int64, error) {
	n, err := s.Bookings.CompleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.Logger.Info("completed expired bookings", zap.Int64("count", n))
	}
	return n, nil
}

func (s *DefaultBookingService) release(ctx context.Context, slotID string) {
	if err := s.Slots.Release(ctx, slotID); err != nil {
		s.Logger.Error("failed to release slot after aborted reservation",
			zap.String("slotId", slotID), zap.Error(err))
	}
}

// recordInvoice writes the audit record for a settled payment. The MarkPaid
// conditional update already deduplicated the webhook, so this runs at most
// once per booking.
func (s *DefaultBookingService) recordInvoice(ctx context.Context, b *models.Booking) {
	inv := &models.Invoice{
		InvoiceID: uuid.New().String(),
		BookingID: b.ID,
		Amount:    b.Amount,
		Currency:  b.Currency,
		Status:    "paid",
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.Bookings.CreateInvoice(ctx, inv); err != nil {
		s.Logger.Error("failed to record invoice",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) notifyConfirmed(ctx context.Context, b *models.Booking) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.BookingConfirmed(ctx, b); err != nil {
		s.Logger.Warn("confirmation notification failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}
