package models

import "time"

// RFQ statuses.
const (
	RFQStatusOpen      = "open"
	RFQStatusQuoted    = "quoted"
	RFQStatusAwarded   = "awarded"
	RFQStatusCancelled = "cancelled"
)

// RFQ is a request for quotation coordinated by the procurement agents.
type RFQ struct {
	ID             string    `bson:"id" json:"id"`
	RequesterID    string    `bson:"requesterId" json:"requesterId"`
	PartName       string    `bson:"partName" json:"partName"`
	PartCategory   string    `bson:"partCategory" json:"partCategory"`
	Specifications string    `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Quantity       int       `bson:"quantity" json:"quantity"`
	NeededBy       time.Time `bson:"neededBy" json:"neededBy"`
	Status         string    `bson:"status" json:"status"`
	DraftBody      string    `bson:"draftBody,omitempty" json:"draftBody,omitempty"` // generated outreach text
	SupplierIDs    []string  `bson:"supplierIds,omitempty" json:"supplierIds,omitempty"`
	Quotes         []Quote   `bson:"quotes,omitempty" json:"quotes,omitempty"`
	Deadline       time.Time `bson:"deadline" json:"deadline"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// Quote is a structured supplier response to an RFQ. Quotes arrive
// pre-structured; parsing supplier emails or PDFs is out of scope.
type Quote struct {
	SupplierID   string    `bson:"supplierId" json:"supplierId"`
	UnitPrice    float64   `bson:"unitPrice" json:"unitPrice"`
	Currency     string    `bson:"currency" json:"currency"`
	ShippingCost float64   `bson:"shippingCost" json:"shippingCost"`
	DeliveryDays int       `bson:"deliveryDays" json:"deliveryDays"`
	ReceivedAt   time.Time `bson:"receivedAt" json:"receivedAt"`
}

// QuoteComparison ranks the quotes received for an RFQ by landed cost.
type QuoteComparison struct {
	RFQID   string        `json:"rfqId"`
	Ranked  []RankedQuote `json:"ranked"`
	Summary string        `json:"summary,omitempty"` // generated narrative
}

// RankedQuote is one comparison row.
type RankedQuote struct {
	Quote      Quote   `json:"quote"`
	LandedCost float64 `json:"landedCost"`
	Rank       int     `json:"rank"`
}

// PurchaseOrder tracks an awarded RFQ through delivery.
type PurchaseOrder struct {
	ID              string     `bson:"id" json:"id"`
	RFQID           string     `bson:"rfqId,omitempty" json:"rfqId,omitempty"`
	SupplierID      string     `bson:"supplierId" json:"supplierId"`
	PartName        string     `bson:"partName" json:"partName"`
	Quantity        int        `bson:"quantity" json:"quantity"`
	TotalCost       float64    `bson:"totalCost" json:"totalCost"`
	PromisedDate    time.Time  `bson:"promisedDate" json:"promisedDate"`
	DeliveredAt     *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	Status          string     `bson:"status" json:"status"` // placed, in_transit, delayed, delivered
	EscalationLevel int        `bson:"escalationLevel" json:"escalationLevel"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
}

// Supplier carries the rolling performance metrics the supplier agent
// scores against.
type Supplier struct {
	ID                   string    `bson:"id" json:"id"`
	Name                 string    `bson:"name" json:"name"`
	Email                string    `bson:"email" json:"email"`
	Categories           []string  `bson:"categories" json:"categories"`
	TotalOrders          int       `bson:"totalOrders" json:"totalOrders"`
	OnTimeDeliveries     int       `bson:"onTimeDeliveries" json:"onTimeDeliveries"`
	QualityIssues        int       `bson:"qualityIssues" json:"qualityIssues"`
	AvgResponseHours     float64   `bson:"avgResponseHours" json:"avgResponseHours"`
	PriceCompetitiveness float64   `bson:"priceCompetitiveness" json:"priceCompetitiveness"` // 0..1
	Satisfaction         float64   `bson:"satisfaction" json:"satisfaction"`                 // 0..5
	UpdatedAt            time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SupplierReview is the supplier agent's scored assessment.
type SupplierReview struct {
	SupplierID      string   `json:"supplierId"`
	OverallScore    float64  `json:"overallScore"`
	DeliveryScore   float64  `json:"deliveryScore"`
	QualityScore    float64  `json:"qualityScore"`
	PriceScore      float64  `json:"priceScore"`
	Grade           string   `json:"grade"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Contract is a supplier agreement the contract agent watches for expiry.
type Contract struct {
	ID         string    `bson:"id" json:"id"`
	SupplierID string    `bson:"supplierId" json:"supplierId"`
	Title      string    `bson:"title" json:"title"`
	StartDate  time.Time `bson:"startDate" json:"startDate"`
	EndDate    time.Time `bson:"endDate" json:"endDate"`
	AutoRenew  bool      `bson:"autoRenew" json:"autoRenew"`
	Value      float64   `bson:"value" json:"value"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
