package models

import "time"

// AvailabilityRule is a recurring weekly open-hours declaration. Start and
// end are minutes from midnight in the provider's own timezone; they are
// projected to UTC instants only when the schedule is materialized, so DST
// transitions shift the concrete slots the way the provider expects.
type AvailabilityRule struct {
	ID          string       `bson:"id" json:"id"`
	ProviderID  string       `bson:"providerId" json:"providerId"`
	Weekday     time.Weekday `bson:"weekday" json:"weekday"` // Sunday = 0
	StartMinute int          `bson:"startMinute" json:"startMinute"`
	EndMinute   int          `bson:"endMinute" json:"endMinute"`
}

// AvailabilityException is a one-off override of the recurring rules,
// usually a blackout (vacation, lunch). Start and End are UTC instants.
type AvailabilityException struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	Start      time.Time `bson:"start" json:"start"`
	End        time.Time `bson:"end" json:"end"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// OpenInterval is one bookable window produced by the schedule
// materializer. SlotID is set when the window is backed by a persisted
// TimeSlot; Manual marks provider-authored slots, which take precedence
// over rule-derived windows they overlap.
type OpenInterval struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	SlotID string    `json:"slotId,omitempty"`
	Manual bool      `json:"manual"`
}

// SetAvailabilityRequest replaces a provider's weekly rules wholesale.
type SetAvailabilityRequest struct {
	Rules []AvailabilityRule `json:"rules" binding:"required"`
}
