// Package payment talks to the payment provider: it mints hosted checkout
// sessions, verifies them server-side and authenticates webhook deliveries.
package payment

import (
	"context"

	"github.com/arwindpianist/showcase/internal/entity"
)

type CheckoutRequest struct {
	PriceID     string
	ProductType string
	SuccessURL  string
	CancelURL   string
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*entity.CheckoutSession, error)
	// GetSession fetches the session from the provider. The client never
	// supplies anything but the id.
	GetSession(ctx context.Context, sessionID string) (*entity.CheckoutSession, error)
	// ParseWebhook authenticates payload against the signature header and
	// returns entity.ErrSignature when it does not verify.
	ParseWebhook(payload []byte, signature string) (*entity.WebhookEvent, error)
}
