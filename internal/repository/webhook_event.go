package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arwindpianist/showcase/internal/entity"
)

type WebhookEventRepository interface {
	// Record stores ev unless the provider event id is already known.
	// inserted is false for a duplicate delivery.
	Record(ctx context.Context, ev *entity.WebhookEvent) (inserted bool, err error)
	Get(ctx context.Context, provider, eventID string) (*entity.WebhookEvent, error)
	ListBySession(ctx context.Context, sessionID string) ([]*entity.WebhookEvent, error)
	List(ctx context.Context) ([]*entity.WebhookEvent, error)
}

type webhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryImpl{db: db}
}

// Record implements WebhookEventRepository.
func (r *webhookEventRepositoryImpl) Record(ctx context.Context, ev *entity.WebhookEvent) (bool, error) {
	if ev.Provider == "" || ev.EventID == "" {
		return false, fmt.Errorf("webhook event without provider or id: %w", entity.ErrInvalid)
	}
	var model WebhookEvent
	model.FromEntity(ev)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Get implements WebhookEventRepository.
func (r *webhookEventRepositoryImpl) Get(ctx context.Context, provider, eventID string) (*entity.WebhookEvent, error) {
	found, err := gorm.G[WebhookEvent](r.db).
		Where("provider = ? AND event_id = ?", provider, eventID).
		First(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return found.ToEntity(), nil
}

// ListBySession implements WebhookEventRepository.
func (r *webhookEventRepositoryImpl) ListBySession(ctx context.Context, sessionID string) ([]*entity.WebhookEvent, error) {
	founds, err := gorm.G[WebhookEvent](r.db).Where("session_id = ?", sessionID).Order("id").Find(ctx)
	if err != nil {
		return nil, err
	}
	return toEntities(founds), nil
}

// List implements WebhookEventRepository.
func (r *webhookEventRepositoryImpl) List(ctx context.Context) ([]*entity.WebhookEvent, error) {
	founds, err := gorm.G[WebhookEvent](r.db).Order("id").Find(ctx)
	if err != nil {
		return nil, err
	}
	return toEntities(founds), nil
}

func toEntities(models []WebhookEvent) []*entity.WebhookEvent {
	res := make([]*entity.WebhookEvent, len(models))
	for i := range models {
		res[i] = models[i].ToEntity()
	}
	return res
}
