package models

import "time"

// Booking lifecycle states.
type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCompleted      BookingStatus = "completed"
	BookingCancelled      BookingStatus = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Payment states.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Meeting holds the video-session fields attached to a booking. RoomID and
// URL are assigned on first join.
type Meeting struct {
	RoomID          string     `bson:"roomId,omitempty" json:"roomId,omitempty"`
	URL             string     `bson:"url,omitempty" json:"url,omitempty"`
	StartedAt       *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	EndedAt         *time.Time `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
	DurationMinutes int        `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	RecordingURL    string     `bson:"recordingUrl,omitempty" json:"recordingUrl,omitempty"`
}

// Booking is a reservation of a TimeSlot by a client. Start and End are
// denormalized from the slot (UTC instants) so that cancellation cutoffs
// and meeting-access checks never need a join.
type Booking struct {
	ID                string        `bson:"id" json:"id"`
	SlotID            string        `bson:"slotId" json:"slotId"`
	ProviderID        string        `bson:"providerId" json:"providerId"`
	ClientID          string        `bson:"clientId,omitempty" json:"clientId,omitempty"` // empty for anonymous bookings
	ClientName        string        `bson:"clientName" json:"clientName"`
	ClientEmail       string        `bson:"clientEmail" json:"clientEmail"`
	ClientMessage     string        `bson:"clientMessage,omitempty" json:"clientMessage,omitempty"`
	Start             time.Time     `bson:"start" json:"start"`
	End               time.Time     `bson:"end" json:"end"`
	Status            BookingStatus `bson:"status" json:"status"`
	PaymentStatus     PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	Amount            float64       `bson:"amount" json:"amount"`
	Currency          string        `bson:"currency" json:"currency"`
	PaymentIntentID   string        `bson:"paymentIntentId,omitempty" json:"-"`
	CheckoutSessionID string        `bson:"checkoutSessionId,omitempty" json:"-"`
	Meeting           Meeting       `bson:"meeting,omitempty" json:"meeting,omitzero"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// ReservationRequest carries the client side of a Reserve call.
type ReservationRequest struct {
	ClientID      string `json:"clientId"`
	ClientName    string `json:"clientName" binding:"required"`
	ClientEmail   string `json:"clientEmail" binding:"required,email"`
	ClientMessage string `json:"clientMessage"`
}

// ReservationResult is returned by a successful Reserve. CheckoutURL is
// empty for free sessions, which are confirmed immediately.
type ReservationResult struct {
	Booking     Booking `json:"booking"`
	CheckoutURL string  `json:"checkoutUrl,omitempty"`
}
