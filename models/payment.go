package models

import "time"

// CheckoutIntent is what the payment processor hands back after creating a
// checkout for a booking: where to send the client and the processor-side
// identifiers to persist for webhook correlation.
type CheckoutIntent struct {
	SessionID       string `json:"sessionId"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	RedirectURL     string `json:"redirectUrl"`
}

// Invoice records the outcome of a payment for audit purposes.
type Invoice struct {
	InvoiceID string    `bson:"invoiceId" json:"invoiceId"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	Amount    float64   `bson:"amount" json:"amount"`
	Currency  string    `bson:"currency" json:"currency"`
	Status    string    `bson:"status" json:"status"` // pending, paid, refunded
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
