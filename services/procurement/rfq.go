package procurement

import (
	"context"
	"fmt"
	"sort"
	"time"

	procurementRepo "droply/database/repository/procurement"
	"droply/models"
	"droply/services/intelligence"

	"go.uber.org/zap"
)

const (
	defaultMaxSuppliers     = 5
	defaultResponseDeadline = 48 * time.Hour
)

// RFQAgent coordinates requests for quotation: it sources suppliers,
// drafts the outreach text, and ranks incoming quotes.
type RFQAgent struct {
	Repo     procurementRepo.Repository
	Gen      intelligence.TextGenerator
	Contexts *ContextStore
	Logger   *zap.Logger

	MaxSuppliers     int
	ResponseDeadline time.Duration
}

func (a *RFQAgent) Name() string { return "rfq" }

func (a *RFQAgent) Handles() []EventType {
	return []EventType{EventRFQSubmitted, EventQuoteReceived}
}

func (a *RFQAgent) Handle(ctx context.Context, ev Event) (any, error) {
	switch ev.Type {
	case EventRFQSubmitted:
		rfq, ok := ev.Payload.(*models.RFQ)
		if !ok {
			return nil, fmt.Errorf("rfq agent: unexpected payload %T", ev.Payload)
		}
		return a.Submit(ctx, rfq, ev.ContextID)
	case EventQuoteReceived:
		p, ok := ev.Payload.(QuotePayload)
		if !ok {
			return nil, fmt.Errorf("rfq agent: unexpected payload %T", ev.Payload)
		}
		if err := a.Repo.AppendQuote(ctx, p.RFQID, p.Quote); err != nil {
			return nil, fmt.Errorf("failed to record quote: %w", err)
		}
		return a.Compare(ctx, p.RFQID)
	default:
		return nil, fmt.Errorf("rfq agent cannot handle %q", ev.Type)
	}
}

// Submit sources suppliers for the part category, drafts the outreach
// body, and persists the RFQ.
func (a *RFQAgent) Submit(ctx context.Context, rfq *models.RFQ, contextID string) (*models.RFQ, error) {
	if rfq.Quantity <= 0 {
		return nil, fmt.Errorf("rfq quantity must be positive")
	}

	maxSuppliers := a.MaxSuppliers
	if maxSuppliers <= 0 {
		maxSuppliers = defaultMaxSuppliers
	}
	suppliers, err := a.Repo.SuppliersByCategory(ctx, rfq.PartCategory, maxSuppliers)
	if err != nil {
		return nil, fmt.Errorf("failed to source suppliers: %w", err)
	}
	for _, s := range suppliers {
		rfq.SupplierIDs = append(rfq.SupplierIDs, s.ID)
	}

	prompt := fmt.Sprintf(
		"Draft a professional request-for-quotation email.\nPart: %s\nCategory: %s\nSpecifications: %s\nQuantity: %d\nNeeded by: %s\nKeep it specific to the part requirements.",
		rfq.PartName, rfq.PartCategory, rfq.Specifications, rfq.Quantity, rfq.NeededBy.Format("2006-01-02"))
	body, err := a.Gen.Generate(ctx, prompt)
	if err != nil {
		// Outreach drafting is best effort; the RFQ still goes out.
		a.Logger.Warn("rfq draft generation failed", zap.Error(err))
		body = fmt.Sprintf("Request for quotation: %d x %s (%s). Please respond with unit price, shipping, and lead time.",
			rfq.Quantity, rfq.PartName, rfq.PartCategory)
	}
	rfq.DraftBody = body

	deadline := a.ResponseDeadline
	if deadline <= 0 {
		deadline = defaultResponseDeadline
	}
	rfq.Deadline = time.Now().UTC().Add(deadline)
	rfq.Status = models.RFQStatusOpen

	if err := a.Repo.CreateRFQ(ctx, rfq); err != nil {
		return nil, fmt.Errorf("failed to create rfq: %w", err)
	}

	if contextID != "" && a.Contexts != nil {
		ac, cerr := a.Contexts.Get(ctx, contextID)
		if cerr == nil {
			ac.RFQID = rfq.ID
			ac.LastEvent = string(EventRFQSubmitted)
			if serr := a.Contexts.Set(ctx, ac); serr != nil {
				a.Logger.Warn("failed to save agent context", zap.Error(serr))
			}
		}
	}

	a.Logger.Info("rfq submitted",
		zap.String("rfqId", rfq.ID),
		zap.Int("suppliers", len(rfq.SupplierIDs)))
	return rfq, nil
}

// Compare ranks the quotes received so far by landed cost, ties broken by
// faster delivery.
func (a *RFQAgent) Compare(ctx context.Context, rfqID string) (*models.QuoteComparison, error) {
	rfq, err := a.Repo.GetRFQ(ctx, rfqID)
	if err != nil {
		return nil, fmt.Errorf("rfq not found: %w", err)
	}

	ranked := make([]models.RankedQuote, 0, len(rfq.Quotes))
	for _, q := range rfq.Quotes {
		ranked = append(ranked, models.RankedQuote{
			Quote:      q,
			LandedCost: q.UnitPrice*float64(rfq.Quantity) + q.ShippingCost,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].LandedCost == ranked[j].LandedCost {
			return ranked[i].Quote.DeliveryDays < ranked[j].Quote.DeliveryDays
		}
		return ranked[i].LandedCost < ranked[j].LandedCost
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	cmp := &models.QuoteComparison{RFQID: rfqID, Ranked: ranked}
	if len(ranked) > 0 {
		prompt := fmt.Sprintf(
			"Summarize this quote comparison for %d x %s in two sentences. Best landed cost: %.2f from supplier %s (%d day delivery). %d quotes total.",
			rfq.Quantity, rfq.PartName, ranked[0].LandedCost, ranked[0].Quote.SupplierID,
			ranked[0].Quote.DeliveryDays, len(ranked))
		if summary, gerr := a.Gen.Generate(ctx, prompt); gerr == nil {
			cmp.Summary = summary
		}
	}
	return cmp, nil
}
