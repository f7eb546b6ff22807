package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/arwindpianist/showcase/internal/entity"
)

// WebhookEvent is one processed provider event. Provider and EventID are
// unique together so a redelivery cannot be recorded twice.
type WebhookEvent struct {
	gorm.Model
	Provider      string `gorm:"size:20;not null;uniqueIndex:ux_webhook_events_provider_event,priority:1"`
	EventID       string `gorm:"size:191;not null;uniqueIndex:ux_webhook_events_provider_event,priority:2"`
	EventType     string `gorm:"size:100;not null;index"`
	SessionID     string `gorm:"size:191;index"`
	PaymentStatus string `gorm:"size:32"`
	ProductType   string `gorm:"size:64"`
	ProcessedAt   time.Time
}

func (w *WebhookEvent) ToEntity() *entity.WebhookEvent {
	return &entity.WebhookEvent{
		Provider:      w.Provider,
		EventID:       w.EventID,
		EventType:     w.EventType,
		SessionID:     w.SessionID,
		PaymentStatus: w.PaymentStatus,
		ProductType:   w.ProductType,
		ProcessedAt:   w.ProcessedAt,
	}
}

func (w *WebhookEvent) FromEntity(e *entity.WebhookEvent) {
	w.Provider = e.Provider
	w.EventID = e.EventID
	w.EventType = e.EventType
	w.SessionID = e.SessionID
	w.PaymentStatus = e.PaymentStatus
	w.ProductType = e.ProductType
	w.ProcessedAt = e.ProcessedAt
}
