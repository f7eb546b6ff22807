// Package notify publishes domain events to RabbitMQ. Publishing is best
// effort: failures are logged and returned, and callers carry on.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const AccessGrantedQueue = "access.granted"

// AccessGrantedEvent is published once per provider event that unlocked access.
type AccessGrantedEvent struct {
	Provider  string `json:"provider"`
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id"`
	GrantedAt string `json:"granted_at"`
}

type Publisher interface {
	PublishAccessGranted(ctx context.Context, ev AccessGrantedEvent) error
}

// NewPublisher returns an AMQP publisher, or a no-op one when url is empty.
func NewPublisher(url string) Publisher {
	if url == "" {
		return Noop{}
	}
	return &AMQP{url: url}
}

type Noop struct{}

func (Noop) PublishAccessGranted(ctx context.Context, ev AccessGrantedEvent) error {
	zerolog.Ctx(ctx).Debug().Str("event_id", ev.EventID).Msg("broker not configured, dropping access.granted")
	return nil
}

// AMQP dials the broker per message; grants are rare enough that a pooled
// connection is not worth its reconnect handling.
type AMQP struct {
	url string
}

func (a *AMQP) PublishAccessGranted(ctx context.Context, ev AccessGrantedEvent) error {
	log := zerolog.Ctx(ctx)

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(a.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq dial failed")
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(AccessGrantedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.EventID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", AccessGrantedQueue, false, false, pub); err != nil {
		log.Warn().Err(err).Msg("rabbitmq publish failed")
		return fmt.Errorf("publish: %w", err)
	}
	log.Info().Str("event_id", ev.EventID).Msg("published access.granted")
	return nil
}
