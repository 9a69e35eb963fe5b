package booking

import (
	"context"
	"fmt"
	"math"
	"strings"

	"droply/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// PaymentProcessor is the boundary to the payment provider: it creates a
// checkout for a booking and hands back the redirect target. Completion
// arrives later as an asynchronous webhook mapped to ConfirmPayment.
type PaymentProcessor interface {
	CreateCheckout(ctx context.Context, b *models.Booking, description string) (*models.CheckoutIntent, error)
}

// StripeProcessor implements PaymentProcessor with Stripe Checkout.
type StripeProcessor struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewStripeProcessor(baseURL string, logger *zap.Logger) *StripeProcessor {
	return &StripeProcessor{BaseURL: baseURL, Logger: logger}
}

func (p *StripeProcessor) CreateCheckout(ctx context.Context, b *models.Booking, description string) (*models.CheckoutIntent, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(b.ID),
		CustomerEmail:     stripe.String(b.ClientEmail),
		SuccessURL:        stripe.String(fmt.Sprintf("%s/bookings/%s?payment=success", p.BaseURL, b.ID)),
		CancelURL:         stripe.String(fmt.Sprintf("%s/bookings/%s?payment=cancelled", p.BaseURL, b.ID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(b.Currency)),
					UnitAmount: stripe.Int64(int64(math.Round(b.Amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
			},
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	p.Logger.Info("checkout session created",
		zap.String("bookingId", b.ID), zap.String("sessionId", sess.ID))

	intent := &models.CheckoutIntent{
		SessionID:   sess.ID,
		RedirectURL: sess.URL,
	}
	if sess.PaymentIntent != nil {
		intent.PaymentIntentID = sess.PaymentIntent.ID
	}
	return intent, nil
}
