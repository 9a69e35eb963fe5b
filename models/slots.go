package models

import "time"

// Slot origins.
const (
	SlotOriginManual    = "manual"
	SlotOriginGenerated = "generated"
)

// TimeSlot is a concrete bookable interval owned by a provider. Start and
// End are UTC instants. IsAvailable is flipped to false atomically when the
// slot is reserved and back to true when the booking is cancelled.
type TimeSlot struct {
	ID          string    `bson:"id" json:"id"`
	ProviderID  string    `bson:"providerId" json:"providerId"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Start       time.Time `bson:"start" json:"start"`
	End         time.Time `bson:"end" json:"end"`
	SessionType string    `bson:"sessionType" json:"sessionType"` // consultation, coaching, mentoring
	Price       float64   `bson:"price" json:"price"`
	Currency    string    `bson:"currency" json:"currency"`
	IsAvailable bool      `bson:"isAvailable" json:"isAvailable"`
	Origin      string    `bson:"origin" json:"origin"` // manual or generated
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// CreateSlotRequest is the payload for a provider-authored slot.
type CreateSlotRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
	SessionType string    `json:"sessionType"`
	Price       float64   `json:"price"`
}
