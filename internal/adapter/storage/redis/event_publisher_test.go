package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"asset-marketplace/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPublisher_Publish(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	pub := NewEventPublisher(client, "marketplace.events")
	ctx := context.Background()

	sub := goredis.NewClient(&goredis.Options{Addr: s.Addr()}).Subscribe(ctx, "marketplace.events")
	defer sub.Close()
	// Wait for the subscription before publishing.
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	price := int64(1000)
	fee := int64(20)
	sellerID := uuid.New()
	event := &domain.Event{
		Type:       domain.EventListingSold,
		AssetID:    uuid.New(),
		ActorID:    uuid.New(),
		SellerID:   &sellerID,
		Price:      &price,
		Fee:        &fee,
		OccurredAt: time.Now().UTC(),
	}

	require.NoError(t, pub.Publish(ctx, event))

	msgCh := sub.Channel()
	select {
	case msg := <-msgCh:
		var got domain.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, domain.EventListingSold, got.Type)
		assert.Equal(t, event.AssetID, got.AssetID)
		require.NotNil(t, got.Price)
		assert.Equal(t, int64(1000), *got.Price)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestEventPublisher_DefaultChannel(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})

	pub := NewEventPublisher(client, "")
	assert.Equal(t, "marketplace.events", pub.channel)
}
