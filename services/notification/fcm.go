package notification

import (
	"context"
	"fmt"

	userRepo "droply/database/repository/user"
	"droply/models"
	"droply/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMService is the production implementation, pushing through Firebase
// Cloud Messaging to both sides of a booking.
type FCMService struct {
	Users  userRepo.Repository
	Logger *zap.Logger
}

func (s *FCMService) BookingConfirmed(ctx context.Context, b *models.Booking) error {
	title := "Session confirmed"
	body := fmt.Sprintf("Your session on %s is confirmed.", b.Start.Format("Jan 2 at 15:04 MST"))
	return s.pushBoth(ctx, b, title, body)
}

func (s *FCMService) BookingCancelled(ctx context.Context, b *models.Booking) error {
	title := "Session cancelled"
	body := fmt.Sprintf("The session on %s was cancelled.", b.Start.Format("Jan 2 at 15:04 MST"))
	return s.pushBoth(ctx, b, title, body)
}

func (s *FCMService) SessionReminder(ctx context.Context, b *models.Booking) error {
	title := "Session starting soon"
	body := fmt.Sprintf("Your session starts at %s.", b.Start.Format("15:04 MST"))
	return s.pushBoth(ctx, b, title, body)
}

func (s *FCMService) pushBoth(ctx context.Context, b *models.Booking, title, body string) error {
	data := map[string]string{"bookingId": b.ID, "status": string(b.Status)}

	var firstErr error
	for _, userID := range []string{b.ProviderID, b.ClientID} {
		if userID == "" {
			continue
		}
		if err := s.push(ctx, userID, title, body, data); err != nil {
			s.Logger.Warn("push notification failed",
				zap.String("userId", userID), zap.String("bookingId", b.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *FCMService) push(ctx context.Context, userID, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return nil // push disabled
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		return nil
	}

	msg := &messaging.Message{
		Token:        u.FCMToken,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	}
	_, err = utils.FCMClient.Send(ctx, msg)
	return err
}
