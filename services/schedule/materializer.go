package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"droply/models"
)

// OpenIntervals converts a provider's recurring rules plus exceptions into
// the bookable windows inside [from, to). Rule minutes are projected into
// concrete instants through the provider's IANA zone, so a rule saying
// "9:00" stays 9:00 local across DST transitions; everything downstream of
// the projection is UTC. The result is ordered by start and mixes
// rule-derived windows with persisted slots, manual slots suppressing any
// derived window they overlap.
func (s *DefaultScheduleService) OpenIntervals(ctx context.Context, providerID string, from, to time.Time) ([]models.OpenInterval, error) {
	if !to.After(from) {
		return nil, nil
	}
	from, to = from.UTC(), to.UTC()

	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, providerID, from, to); ok {
			return cached, nil
		}
	}

	provider, err := s.Users.GetByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("provider not found: %w", err)
	}
	loc := time.UTC
	if provider.Timezone != "" {
		if l, lerr := time.LoadLocation(provider.Timezone); lerr == nil {
			loc = l
		}
	}

	rules, err := s.Availability.ListRules(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	exceptions, err := s.Availability.ListExceptions(ctx, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load exceptions: %w", err)
	}
	slots, err := s.Slots.ListByProvider(ctx, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}
	bookings, err := s.Bookings.ActiveInRange(ctx, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	derived := s.deriveRuleSpans(rules, loc, from, to)

	// Subtract exceptions, intervals already covered by a live booking, and
	// every persisted slot: manual slots take precedence over coinciding
	// derived windows, and already-materialized slots must not be emitted
	// twice.
	blocks := make([]span, 0, len(exceptions)+len(bookings)+len(slots))
	for _, exc := range exceptions {
		blocks = append(blocks, span{start: exc.Start, end: exc.End})
	}
	for _, b := range bookings {
		blocks = append(blocks, span{start: b.Start, end: b.End})
	}
	for _, slot := range slots {
		blocks = append(blocks, span{start: slot.Start, end: slot.End})
	}
	open := subtractSpans(derived, blocks)

	intervals := make([]models.OpenInterval, 0, len(open)+len(slots))
	for _, sp := range open {
		intervals = append(intervals, models.OpenInterval{Start: sp.start, End: sp.end})
	}
	// Persisted slots appear as their own entries while still open, minus
	// any that an exception blacks out.
	for _, slot := range slots {
		if !slot.IsAvailable {
			continue
		}
		if excluded(span{start: slot.Start, end: slot.End}, exceptions) {
			continue
		}
		intervals = append(intervals, models.OpenInterval{
			Start:  slot.Start,
			End:    slot.End,
			SlotID: slot.ID,
			Manual: slot.Origin == models.SlotOriginManual,
		})
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Start.Equal(intervals[j].Start) {
			return intervals[i].End.Before(intervals[j].End)
		}
		return intervals[i].Start.Before(intervals[j].Start)
	})
	if s.Cache != nil {
		s.Cache.Set(ctx, providerID, from, to, intervals)
	}
	return intervals, nil
}

// deriveRuleSpans walks each calendar date of the window in the provider's
// zone and instantiates that weekday's merged rule ranges.
func (s *DefaultScheduleService) deriveRuleSpans(rules []models.AvailabilityRule, loc *time.Location, from, to time.Time) []span {
	if len(rules) == 0 {
		return nil
	}

	byWeekday := make(map[time.Weekday][]minuteRange)
	for day := time.Sunday; day <= time.Saturday; day++ {
		var dayRules []models.AvailabilityRule
		for _, r := range rules {
			if r.Weekday == day {
				dayRules = append(dayRules, r)
			}
		}
		if merged := mergeRuleMinutes(dayRules); len(merged) > 0 {
			byWeekday[day] = merged
		}
	}
	if len(byWeekday) == 0 {
		return nil
	}

	var derived []span
	local := from.In(loc)
	// Start one day early: a local day straddling midnight UTC can begin
	// before `from` and still reach into the window.
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	for !time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc).After(to) {
		for _, mr := range byWeekday[day.Weekday()] {
			sp := span{
				start: time.Date(day.Year(), day.Month(), day.Day(), mr.start/60, mr.start%60, 0, 0, loc).UTC(),
				end:   time.Date(day.Year(), day.Month(), day.Day(), mr.end/60, mr.end%60, 0, 0, loc).UTC(),
			}
			sp = clampSpan(sp, from, to)
			if !sp.empty() {
				derived = append(derived, sp)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return derived
}

// MaterializeSlots persists the currently derived (rule-only) windows as
// reservable TimeSlot records, priced at the provider's hourly rate.
func (s *DefaultScheduleService) MaterializeSlots(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeSlot, error) {
	intervals, err := s.OpenIntervals(ctx, providerID, from, to)
	if err != nil {
		return nil, err
	}

	provider, err := s.Users.GetByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("provider not found: %w", err)
	}

	var created []models.TimeSlot
	for _, iv := range intervals {
		if iv.SlotID != "" {
			continue // already backed by a persisted slot
		}
		created = append(created, models.TimeSlot{
			ProviderID:  providerID,
			Title:       fmt.Sprintf("Session with %s", provider.FullName),
			Start:       iv.Start,
			End:         iv.End,
			SessionType: "consultation",
			Price:       provider.HourlyRate,
			Currency:    provider.Currency,
			IsAvailable: true,
			Origin:      models.SlotOriginGenerated,
		})
	}
	if len(created) == 0 {
		return nil, nil
	}

	ids, err := s.Slots.CreateMany(ctx, created)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, providerID)
	for i := range created {
		created[i].ID = ids[i]
	}
	return created, nil
}

// excluded reports whether the span overlaps any exception.
func excluded(sp span, exceptions []models.AvailabilityException) bool {
	for _, exc := range exceptions {
		if sp.overlaps(span{start: exc.Start, end: exc.End}) {
			return true
		}
	}
	return false
}
