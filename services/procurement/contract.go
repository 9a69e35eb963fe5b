package procurement

import (
	"context"
	"fmt"
	"time"

	procurementRepo "droply/database/repository/procurement"
	"droply/models"
	"droply/services/intelligence"

	"go.uber.org/zap"
)

const defaultExpiryWindow = 30 * 24 * time.Hour

// ContractAgent scans for contracts nearing expiry and drafts renewal
// outreach for those that do not auto-renew.
type ContractAgent struct {
	Repo   procurementRepo.Repository
	Gen    intelligence.TextGenerator
	Logger *zap.Logger
	Now    func() time.Time

	// ExpiryWindow is how far ahead the scan looks. Defaults to 30 days.
	ExpiryWindow time.Duration
}

// ExpiryAlert flags one contract approaching its end date.
type ExpiryAlert struct {
	Contract     models.Contract `json:"contract"`
	DaysLeft     int             `json:"daysLeft"`
	AutoRenews   bool            `json:"autoRenews"`
	RenewalDraft string          `json:"renewalDraft,omitempty"`
}

func (a *ContractAgent) Name() string { return "contract" }

func (a *ContractAgent) Handles() []EventType {
	return []EventType{EventContractExpiry}
}

func (a *ContractAgent) Handle(ctx context.Context, ev Event) (any, error) {
	return a.Scan(ctx)
}

func (a *ContractAgent) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

// Scan returns an alert for every contract ending within the expiry
// window, with a renewal draft attached where renewal needs a human.
func (a *ContractAgent) Scan(ctx context.Context) ([]ExpiryAlert, error) {
	window := a.ExpiryWindow
	if window <= 0 {
		window = defaultExpiryWindow
	}
	now := a.now()
	contracts, err := a.Repo.ContractsExpiringBy(ctx, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("contract expiry scan failed: %w", err)
	}

	alerts := make([]ExpiryAlert, 0, len(contracts))
	for _, c := range contracts {
		if c.EndDate.Before(now) {
			continue
		}
		alert := ExpiryAlert{
			Contract:   c,
			DaysLeft:   int(c.EndDate.Sub(now).Hours() / 24),
			AutoRenews: c.AutoRenew,
		}
		if !c.AutoRenew {
			prompt := fmt.Sprintf(
				"Draft a short renewal inquiry to supplier %s: contract %q (annual value %.2f) ends on %s. Ask whether they want to renew on current terms.",
				c.SupplierID, c.Title, c.Value, c.EndDate.Format("2006-01-02"))
			if body, gerr := a.Gen.Generate(ctx, prompt); gerr == nil {
				alert.RenewalDraft = body
			} else {
				a.Logger.Warn("renewal draft generation failed",
					zap.String("contractId", c.ID), zap.Error(gerr))
			}
		}
		alerts = append(alerts, alert)
	}

	a.Logger.Info("contract expiry scan complete", zap.Int("expiring", len(alerts)))
	return alerts, nil
}
