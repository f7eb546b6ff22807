package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/arwindpianist/showcase/internal/entity"
)

const (
	ProviderStripe      = "stripe"
	metadataProductType = "product_type"
)

var ErrNotConfigured = errors.New("payment provider not configured")

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type Stripe struct {
	cfg StripeConfig
	api *client.API
	now func() time.Time
}

// NewStripe builds a provider on the default Stripe backends, or on backends
// when it is non-nil.
func NewStripe(cfg StripeConfig, backends *stripe.Backends) *Stripe {
	api := &client.API{}
	api.Init(cfg.SecretKey, backends)
	return &Stripe{cfg: cfg, api: api, now: time.Now}
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*entity.CheckoutSession, error) {
	if s.cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}
	if req.PriceID == "" {
		return nil, fmt.Errorf("price id is required: %w", entity.ErrInvalid)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(req.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Metadata:   map[string]string{metadataProductType: req.ProductType},
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

func (s *Stripe) GetSession(ctx context.Context, sessionID string) (*entity.CheckoutSession, error) {
	if s.cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required: %w", entity.ErrInvalid)
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return nil, fmt.Errorf("checkout session %s: %w", sessionID, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

func (s *Stripe) ParseWebhook(payload []byte, signature string) (*entity.WebhookEvent, error) {
	if s.cfg.WebhookSecret == "" || signature == "" {
		return nil, entity.ErrSignature
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSignature, err)
	}

	out := &entity.WebhookEvent{
		Provider:    ProviderStripe,
		EventID:     event.ID,
		EventType:   string(event.Type),
		ProcessedAt: s.now(),
	}
	if strings.HasPrefix(out.EventType, "checkout.session.") && event.Data != nil {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", entity.ErrInvalid)
		}
		out.SessionID = sess.ID
		out.PaymentStatus = string(sess.PaymentStatus)
		out.ProductType = sess.Metadata[metadataProductType]
	}
	return out, nil
}

func toCheckoutSession(s *stripe.CheckoutSession) *entity.CheckoutSession {
	return &entity.CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		ProductType:   s.Metadata[metadataProductType],
	}
}

var _ Provider = (*Stripe)(nil)
