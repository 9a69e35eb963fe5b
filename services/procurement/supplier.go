package procurement

import (
	"context"
	"fmt"

	procurementRepo "droply/database/repository/procurement"
	"droply/models"

	"go.uber.org/zap"
)

// Scoring weights for the supplier review. Delivery and quality dominate.
const (
	weightDelivery     = 0.3
	weightQuality      = 0.3
	weightPrice        = 0.2
	weightResponse     = 0.1
	weightSatisfaction = 0.1
)

// SupplierAgent scores supplier performance from the rolling metrics on
// the supplier record.
type SupplierAgent struct {
	Repo   procurementRepo.Repository
	Logger *zap.Logger
}

func (a *SupplierAgent) Name() string { return "supplier" }

func (a *SupplierAgent) Handles() []EventType {
	return []EventType{EventSupplierReview}
}

func (a *SupplierAgent) Handle(ctx context.Context, ev Event) (any, error) {
	p, ok := ev.Payload.(SupplierPayload)
	if !ok {
		return nil, fmt.Errorf("supplier agent: unexpected payload %T", ev.Payload)
	}
	return a.Review(ctx, p.SupplierID)
}

// Review computes the weighted performance score and letter grade for a
// supplier.
func (a *SupplierAgent) Review(ctx context.Context, supplierID string) (*models.SupplierReview, error) {
	s, err := a.Repo.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier not found: %w", err)
	}

	delivery := 100.0
	quality := 100.0
	if s.TotalOrders > 0 {
		delivery = 100 * float64(s.OnTimeDeliveries) / float64(s.TotalOrders)
		quality = 100 * float64(s.TotalOrders-s.QualityIssues) / float64(s.TotalOrders)
		if quality < 0 {
			quality = 0
		}
	}
	price := 100 * clamp01(s.PriceCompetitiveness)

	// Under 24h response is full marks, degrading to zero at a week.
	response := 100 * clamp01(1-(s.AvgResponseHours-24)/144)
	satisfaction := 100 * clamp01(s.Satisfaction/5)

	overall := weightDelivery*delivery +
		weightQuality*quality +
		weightPrice*price +
		weightResponse*response +
		weightSatisfaction*satisfaction

	review := &models.SupplierReview{
		SupplierID:    s.ID,
		OverallScore:  overall,
		DeliveryScore: delivery,
		QualityScore:  quality,
		PriceScore:    price,
		Grade:         gradeFor(overall),
	}
	if delivery < 80 {
		review.Recommendations = append(review.Recommendations,
			"review delivery commitments before awarding new orders")
	}
	if quality < 80 {
		review.Recommendations = append(review.Recommendations,
			"request a corrective action plan for recent quality issues")
	}
	if s.AvgResponseHours > 48 {
		review.Recommendations = append(review.Recommendations,
			"escalate slow quote responses with the account contact")
	}

	a.Logger.Info("supplier reviewed",
		zap.String("supplierId", s.ID),
		zap.Float64("score", overall),
		zap.String("grade", review.Grade))
	return review, nil
}

func gradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
