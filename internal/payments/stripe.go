package payments

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/client"
)

// StripeClient wraps the card processor SDK behind an injected client so
// handlers never touch the package-level stripe globals.
type StripeClient struct {
	api    *client.API
	logger *logrus.Logger
}

func NewStripeClient(secretKey string, logger *logrus.Logger) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, logger: logger}
}

// CardIntent is the charge intent handed back to the storefront; completion
// is confirmed client-side and reported by the processor asynchronously.
type CardIntent struct {
	IntentID     string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret"`
}

// CreateIntent opens a charge intent for the order total. VND is a
// zero-decimal currency, so the amount is sent as-is, rounded.
func (c *StripeClient) CreateIntent(ctx context.Context, orderID uint, amount float64) (*CardIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(math.Round(amount))),
		Currency:    stripe.String("vnd"),
		Description: stripe.String(fmt.Sprintf("Payment for order #%d", orderID)),
		Metadata: map[string]string{
			"order_id": fmt.Sprintf("%d", orderID),
		},
	}
	params.Context = ctx

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"order_id":  orderID,
		"intent_id": intent.ID,
		"amount":    amount,
	}).Info("Stripe payment intent created")

	return &CardIntent{IntentID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}
