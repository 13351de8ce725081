package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"asset-marketplace/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// EventPublisher implements ports.EventPublisher over Redis pub/sub.
// Observers (indexers, notification fan-out, dashboards) subscribe to a
// single channel; delivery is fire-and-forget.
type EventPublisher struct {
	client  *goredis.Client
	channel string
}

// NewEventPublisher creates a Redis-backed event publisher.
func NewEventPublisher(client *goredis.Client, channel string) *EventPublisher {
	if channel == "" {
		channel = "marketplace.events"
	}
	return &EventPublisher{
		client:  client,
		channel: channel,
	}
}

// Publish serializes the event to JSON and publishes it on the channel.
func (p *EventPublisher) Publish(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish event: %w", err)
	}
	return nil
}
