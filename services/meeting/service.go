package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "droply/database/repository/booking"
	"droply/models"
	"droply/services/booking"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNotParticipant rejects join attempts from users outside the booking.
var ErrNotParticipant = errors.New("user is not a participant of this booking")

// ErrJoinWindowClosed rejects joins outside the gated window.
var ErrJoinWindowClosed = errors.New("meeting is not joinable right now")

// JoinResult is returned to a participant admitted into the room.
type JoinResult struct {
	RoomID string `json:"roomId"`
	URL    string `json:"url"`
	Access Access `json:"access"`
}

// MeetingService gates access to a booking's video session.
type MeetingService interface {
	// Access reports the gate verdict without side effects.
	Access(ctx context.Context, bookingID, userID string) (*Access, error)
	// Join admits a participant, allocating the room on first entry.
	Join(ctx context.Context, bookingID, userID string) (*JoinResult, error)
	// End closes the session and records its duration.
	End(ctx context.Context, bookingID, userID string) error
}

// DefaultMeetingService is the production implementation.
type DefaultMeetingService struct {
	Bookings bookingRepo.Repository
	BaseURL  string
	Gate     Gate // client allowance
	HostGate Gate // wider provider allowance
	Logger   *zap.Logger
	Now      func() time.Time // defaults to time.Now
}

func (s *DefaultMeetingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultMeetingService) load(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if userID != b.ProviderID && userID != b.ClientID {
		return nil, ErrNotParticipant
	}
	return b, nil
}

// gateFor gives providers the wider host allowance.
func (s *DefaultMeetingService) gateFor(b *models.Booking, userID string) Gate {
	if userID == b.ProviderID {
		return s.HostGate
	}
	return s.Gate
}

func (s *DefaultMeetingService) Access(ctx context.Context, bookingID, userID string) (*Access, error) {
	b, err := s.load(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	access := s.gateFor(b, userID).ClassifyBooking(b, s.now())
	return &access, nil
}

func (s *DefaultMeetingService) Join(ctx context.Context, bookingID, userID string) (*JoinResult, error) {
	b, err := s.load(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", booking.ErrInvalidStateTransition, b.Status)
	}

	now := s.now()
	access := s.gateFor(b, userID).ClassifyBooking(b, now)
	if !access.CanJoin {
		return nil, ErrJoinWindowClosed
	}

	meeting := b.Meeting
	if meeting.RoomID == "" {
		meeting.RoomID = uuid.New().String()
		meeting.URL = fmt.Sprintf("%s/meet/%s", s.BaseURL, meeting.RoomID)
	}
	if meeting.StartedAt == nil {
		started := now
		meeting.StartedAt = &started
	}
	if err := s.Bookings.UpdateMeeting(ctx, b.ID, meeting); err != nil {
		return nil, fmt.Errorf("failed to record meeting join: %w", err)
	}

	s.Logger.Info("participant joined meeting",
		zap.String("bookingId", b.ID), zap.String("userId", userID), zap.String("roomId", meeting.RoomID))

	return &JoinResult{RoomID: meeting.RoomID, URL: meeting.URL, Access: access}, nil
}

func (s *DefaultMeetingService) End(ctx context.Context, bookingID, userID string) error {
	b, err := s.load(ctx, bookingID, userID)
	if err != nil {
		return err
	}
	if b.Meeting.StartedAt == nil || b.Meeting.EndedAt != nil {
		return nil // never started, or already closed
	}

	now := s.now()
	meeting := b.Meeting
	meeting.EndedAt = &now
	meeting.DurationMinutes = int(now.Sub(*meeting.StartedAt).Round(time.Minute) / time.Minute)
	return s.Bookings.UpdateMeeting(ctx, b.ID, meeting)
}
