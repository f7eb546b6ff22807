package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/do"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/payment"
)

// VerifyCheckoutSessionUsecase asks the provider whether a session is paid.
// It is always a live provider call; nothing the client sends besides the id
// is consulted.
type VerifyCheckoutSessionUsecase interface {
	Execute(ctx context.Context, sessionID string) (bool, error)
}

type verifyCheckoutSessionUsecaseImpl struct {
	provider payment.Provider
}

// Execute implements VerifyCheckoutSessionUsecase.
func (v *verifyCheckoutSessionUsecaseImpl) Execute(ctx context.Context, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, fmt.Errorf("session id is required: %w", entity.ErrInvalid)
	}
	sess, err := v.provider.GetSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	zerolog.Ctx(ctx).Info().
		Str("session_id", sessionID).
		Str("payment_status", sess.PaymentStatus).
		Msg("verified checkout session")
	return sess.IsPaid(), nil
}

func NewVerifyCheckoutSessionUsecase(injector *do.Injector) (VerifyCheckoutSessionUsecase, error) {
	return &verifyCheckoutSessionUsecaseImpl{
		provider: do.MustInvoke[payment.Provider](injector),
	}, nil
}
