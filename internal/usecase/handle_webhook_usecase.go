package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/do"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/notify"
	"github.com/arwindpianist/showcase/internal/payment"
	"github.com/arwindpianist/showcase/internal/repository"
)

type HandleWebhookUsecase interface {
	// Execute authenticates and processes one delivery. Signature failures
	// return entity.ErrSignature before anything is recorded.
	Execute(ctx context.Context, payload []byte, signature string) (*entity.WebhookEvent, error)
}

type handleWebhookUsecaseImpl struct {
	provider  payment.Provider
	events    repository.WebhookEventRepository
	publisher notify.Publisher
}

// Execute implements HandleWebhookUsecase.
func (h *handleWebhookUsecaseImpl) Execute(ctx context.Context, payload []byte, signature string) (*entity.WebhookEvent, error) {
	ev, err := h.provider.ParseWebhook(payload, signature)
	if err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx).With().Str("event_id", ev.EventID).Str("event_type", ev.EventType).Logger()

	if !ev.GrantsAccess() {
		log.Debug().Msg("ignoring webhook event")
		return ev, nil
	}

	inserted, err := h.events.Record(ctx, ev)
	if err != nil {
		return nil, err
	}
	if !inserted {
		log.Info().Msg("duplicate webhook event")
		return ev, nil
	}

	log.Info().Str("session_id", ev.SessionID).Msg("checkout completed")
	if err := h.publisher.PublishAccessGranted(ctx, notify.AccessGrantedEvent{
		Provider:  ev.Provider,
		EventID:   ev.EventID,
		SessionID: ev.SessionID,
		GrantedAt: ev.ProcessedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		log.Warn().Err(err).Msg("failed to publish access.granted")
	}
	return ev, nil
}

func NewHandleWebhookUsecase(injector *do.Injector) (HandleWebhookUsecase, error) {
	return &handleWebhookUsecaseImpl{
		provider:  do.MustInvoke[payment.Provider](injector),
		events:    do.MustInvoke[repository.WebhookEventRepository](injector),
		publisher: do.MustInvoke[notify.Publisher](injector),
	}, nil
}
