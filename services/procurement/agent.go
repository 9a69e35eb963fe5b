package procurement

import (
	"context"
	"time"

	"droply/models"
)

// EventType routes an event to the agent that owns it.
type EventType string

const (
	EventRFQSubmitted   EventType = "rfq.submitted"
	EventQuoteReceived  EventType = "rfq.quote_received"
	EventOrderDelayed   EventType = "order.delayed"
	EventSupplierReview EventType = "supplier.review"
	EventContractExpiry EventType = "contract.expiry_scan"
)

// Event is one unit of work for the agent pool. Payload carries the typed
// input for the event (see the per-agent payload types).
type Event struct {
	ID         string
	Type       EventType
	ContextID  string
	Payload    any
	EnqueuedAt time.Time
}

// QuotePayload accompanies EventQuoteReceived. Quotes arrive already
// structured; extracting them from emails or PDFs is out of scope.
type QuotePayload struct {
	RFQID string
	Quote models.Quote
}

// OrderPayload accompanies EventOrderDelayed.
type OrderPayload struct {
	OrderID string
}

// SupplierPayload accompanies EventSupplierReview.
type SupplierPayload struct {
	SupplierID string
}

// Agent handles a subset of event types. Agents are stateless between
// events; conversation state lives in the ContextStore.
type Agent interface {
	Name() string
	Handles() []EventType
	Handle(ctx context.Context, ev Event) (any, error)
}
