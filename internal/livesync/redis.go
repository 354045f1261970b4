package livesync

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBroker fans snapshots out through Redis pub/sub, so a write on
// any API instance is visible to viewers connected to every instance.
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{
		rdb: rdb,
	}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	return b.rdb.Publish(ctx, topic, payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	pubsub := b.rdb.Subscribe(ctx, topics...)

	// Force the subscribe round trip so a failed connection surfaces
	// here instead of as a silently empty feed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	ch := make(chan Message, subscriberBuffer)
	go func() {
		defer close(ch)
		for msg := range pubsub.Channel() {
			select {
			case ch <- Message{Topic: msg.Channel, Payload: []byte(msg.Payload)}:
			default:
			}
		}
	}()

	return newSubscription(ch, func() {
		if err := pubsub.Close(); err != nil {
			zap.L().Warn("failed to close pubsub subscription", zap.Error(err))
		}
	}), nil
}
