package procurement

import (
	"context"
	"fmt"
	"time"

	procurementRepo "droply/database/repository/procurement"
	"droply/services/intelligence"

	"go.uber.org/zap"
)

// OrderAgent watches purchase orders past their promised date and
// escalates in proportion to how late they are.
type OrderAgent struct {
	Repo   procurementRepo.Repository
	Gen    intelligence.TextGenerator
	Logger *zap.Logger
	Now    func() time.Time
}

// DelayReport is the outcome of a delay check on one order.
type DelayReport struct {
	OrderID         string `json:"orderId"`
	DaysLate        int    `json:"daysLate"`
	EscalationLevel int    `json:"escalationLevel"`
	Action          string `json:"action"`
	FollowUpBody    string `json:"followUpBody,omitempty"`
}

func (a *OrderAgent) Name() string { return "order" }

func (a *OrderAgent) Handles() []EventType {
	return []EventType{EventOrderDelayed}
}

func (a *OrderAgent) Handle(ctx context.Context, ev Event) (any, error) {
	p, ok := ev.Payload.(OrderPayload)
	if !ok {
		return nil, fmt.Errorf("order agent: unexpected payload %T", ev.Payload)
	}
	return a.CheckDelay(ctx, p.OrderID)
}

func (a *OrderAgent) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

// CheckDelay measures how far past its promised date an order has run and
// records the matching escalation level.
func (a *OrderAgent) CheckDelay(ctx context.Context, orderID string) (*DelayReport, error) {
	po, err := a.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if po.DeliveredAt != nil {
		return &DelayReport{OrderID: po.ID, Action: "delivered, no action"}, nil
	}

	daysLate := int(a.now().Sub(po.PromisedDate).Hours() / 24)
	if daysLate < 1 {
		return &DelayReport{OrderID: po.ID, Action: "on schedule"}, nil
	}

	report := &DelayReport{OrderID: po.ID, DaysLate: daysLate}
	switch {
	case daysLate <= 2:
		report.EscalationLevel = 1
		report.Action = "noted, supplier grace window"
	case daysLate <= 7:
		report.EscalationLevel = 2
		report.Action = "follow-up sent to supplier"
		prompt := fmt.Sprintf(
			"Write a firm but courteous follow-up to supplier %s: purchase order %s for %d x %s is %d days past its promised delivery date. Ask for a revised delivery date.",
			po.SupplierID, po.ID, po.Quantity, po.PartName, daysLate)
		if body, gerr := a.Gen.Generate(ctx, prompt); gerr == nil {
			report.FollowUpBody = body
		} else {
			a.Logger.Warn("follow-up draft generation failed", zap.Error(gerr))
		}
	default:
		report.EscalationLevel = 3
		report.Action = "flagged for human escalation"
	}

	if report.EscalationLevel > po.EscalationLevel {
		if err := a.Repo.SetOrderStatus(ctx, po.ID, "delayed", report.EscalationLevel); err != nil {
			return nil, fmt.Errorf("failed to escalate order: %w", err)
		}
	}

	a.Logger.Info("order delay checked",
		zap.String("orderId", po.ID),
		zap.Int("daysLate", daysLate),
		zap.Int("escalation", report.EscalationLevel))
	return report, nil
}
