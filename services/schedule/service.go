package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "droply/database/repository/availability"
	bookingRepo "droply/database/repository/booking"
	slotRepo "droply/database/repository/slot"
	userRepo "droply/database/repository/user"
	"droply/models"
)

// ErrInvalidInterval rejects any rule, exception, or slot whose start does
// not precede its end. Validation happens before anything is written.
var ErrInvalidInterval = errors.New("interval start must precede end")

const minutesPerDay = 24 * 60

// ScheduleService manages a provider's availability declarations and
// materializes them into bookable windows.
type ScheduleService interface {
	SetRules(ctx context.Context, providerID string, rules []models.AvailabilityRule) error
	GetRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error)
	AddException(ctx context.Context, exc *models.AvailabilityException) error
	RemoveException(ctx context.Context, providerID, exceptionID string) error
	ListExceptions(ctx context.Context, providerID string, from, to time.Time) ([]models.AvailabilityException, error)

	CreateSlot(ctx context.Context, providerID string, req models.CreateSlotRequest) (*models.TimeSlot, error)
	DeleteSlot(ctx context.Context, providerID, slotID string) error
	ListSlots(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeSlot, error)

	// OpenIntervals derives the bookable windows for [from, to); a pure
	// read of stored state.
	OpenIntervals(ctx context.Context, providerID string, from, to time.Time) ([]models.OpenInterval, error)
	// MaterializeSlots persists the rule-derived windows in [from, to) as
	// reservable TimeSlot records.
	MaterializeSlots(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeSlot, error)
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Availability availabilityRepo.Repository
	Slots        slotRepo.Repository
	Bookings     bookingRepo.Repository
	Users        userRepo.Repository
	Cache        IntervalCache // optional; nil disables read caching
}

func (s *DefaultScheduleService) invalidate(ctx context.Context, providerID string) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, providerID)
	}
}

func (s *DefaultScheduleService) SetRules(ctx context.Context, providerID string, rules []models.AvailabilityRule) error {
	for _, r := range rules {
		if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
			return fmt.Errorf("weekday %d out of range", r.Weekday)
		}
		if r.StartMinute < 0 || r.EndMinute > minutesPerDay || r.StartMinute >= r.EndMinute {
			return ErrInvalidInterval
		}
	}
	if err := s.Availability.ReplaceRules(ctx, providerID, rules); err != nil {
		return err
	}
	s.invalidate(ctx, providerID)
	return nil
}

func (s *DefaultScheduleService) GetRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error) {
	return s.Availability.ListRules(ctx, providerID)
}

func (s *DefaultScheduleService) AddException(ctx context.Context, exc *models.AvailabilityException) error {
	if !exc.End.After(exc.Start) {
		return ErrInvalidInterval
	}
	exc.Start = exc.Start.UTC()
	exc.End = exc.End.UTC()
	if err := s.Availability.CreateException(ctx, exc); err != nil {
		return err
	}
	s.invalidate(ctx, exc.ProviderID)
	return nil
}

func (s *DefaultScheduleService) RemoveException(ctx context.Context, providerID, exceptionID string) error {
	if err := s.Availability.DeleteException(ctx, providerID, exceptionID); err != nil {
		return err
	}
	s.invalidate(ctx, providerID)
	return nil
}

func (s *DefaultScheduleService) ListExceptions(ctx context.Context, providerID string, from, to time.Time) ([]models.AvailabilityException, error) {
	return s.Availability.ListExceptions(ctx, providerID, from.UTC(), to.UTC())
}

func (s *DefaultScheduleService) CreateSlot(ctx context.Context, providerID string, req models.CreateSlotRequest) (*models.TimeSlot, error) {
	if !req.End.After(req.Start) {
		return nil, ErrInvalidInterval
	}
	provider, err := s.Users.GetByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("provider not found: %w", err)
	}

	sessionType := req.SessionType
	if sessionType == "" {
		sessionType = "consultation"
	}
	slot := &models.TimeSlot{
		ProviderID:  providerID,
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start.UTC(),
		End:         req.End.UTC(),
		SessionType: sessionType,
		Price:       req.Price,
		Currency:    provider.Currency,
		IsAvailable: true,
		Origin:      models.SlotOriginManual,
	}
	if err := s.Slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	s.invalidate(ctx, providerID)
	return slot, nil
}

func (s *DefaultScheduleService) DeleteSlot(ctx context.Context, providerID, slotID string) error {
	if err := s.Slots.DeleteByID(ctx, providerID, slotID); err != nil {
		return err
	}
	s.invalidate(ctx, providerID)
	return nil
}

func (s *DefaultScheduleService) ListSlots(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeSlot, error) {
	return s.Slots.ListByProvider(ctx, providerID, from.UTC(), to.UTC())
}
