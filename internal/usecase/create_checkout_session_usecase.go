package usecase

import (
	"context"
	"fmt"

	"github.com/samber/do"

	"github.com/arwindpianist/showcase/internal/config"
	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/payment"
)

type CreateCheckoutSessionUsecase interface {
	// Execute returns the hosted checkout URL. An empty priceID falls back
	// to the configured price.
	Execute(ctx context.Context, priceID string) (string, error)
}

type createCheckoutSessionUsecaseImpl struct {
	provider       payment.Provider
	siteURL        string
	defaultPriceID string
}

// Execute implements CreateCheckoutSessionUsecase.
func (c *createCheckoutSessionUsecaseImpl) Execute(ctx context.Context, priceID string) (string, error) {
	if priceID == "" {
		priceID = c.defaultPriceID
	}
	if priceID == "" {
		return "", fmt.Errorf("price id is required: %w", entity.ErrInvalid)
	}
	sess, err := c.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		PriceID:     priceID,
		ProductType: entity.ProductTypeGitHubAccess,
		SuccessURL:  c.siteURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   c.siteURL + "/projects",
	})
	if err != nil {
		return "", err
	}
	if sess.URL == "" {
		return "", fmt.Errorf("checkout session %s has no url: %w", sess.ID, entity.ErrUpstream)
	}
	return sess.URL, nil
}

func NewCreateCheckoutSessionUsecase(injector *do.Injector) (CreateCheckoutSessionUsecase, error) {
	cfg := do.MustInvoke[*config.Config](injector)
	return &createCheckoutSessionUsecaseImpl{
		provider:       do.MustInvoke[payment.Provider](injector),
		siteURL:        cfg.SiteURL,
		defaultPriceID: cfg.Stripe.PriceID,
	}, nil
}
