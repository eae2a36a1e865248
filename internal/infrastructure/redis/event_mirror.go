package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"auction-engine/internal/domain"
)

const eventChannel = "auction_events"

// RedisEventMirror republishes engine events on a redis channel so
// out-of-process consumers (analytics, dashboards) can follow the auction
// without connecting to the engine's websocket.
type RedisEventMirror struct {
	client *redis.Client
}

var _ domain.EventSink = (*RedisEventMirror)(nil)

func NewRedisEventMirror(client *redis.Client) *RedisEventMirror {
	return &RedisEventMirror{client: client}
}

func (m *RedisEventMirror) HandleEvent(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return m.client.Publish(ctx, eventChannel, payload).Err()
}
