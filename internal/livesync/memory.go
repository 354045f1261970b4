package livesync

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// MemoryBroker is a process-local Broker. It backs tests and single
// instance deployments; multi-instance deployments use RedisBroker so
// all instances observe the same stream.
type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[string]map[chan Message]struct{}),
	}
}

func (b *MemoryBroker) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[topic] {
		select {
		case ch <- Message{Topic: topic, Payload: payload}:
		default:
			// Slow subscriber: drop rather than block the publisher.
			// The next snapshot supersedes this one anyway.
		}
	}

	return nil
}

func (b *MemoryBroker) Subscribe(_ context.Context, topics ...string) (*Subscription, error) {
	ch := make(chan Message, subscriberBuffer)

	b.mu.Lock()
	for _, topic := range topics {
		if b.subs[topic] == nil {
			b.subs[topic] = make(map[chan Message]struct{})
		}
		b.subs[topic][ch] = struct{}{}
	}
	b.mu.Unlock()

	return newSubscription(ch, func() {
		b.mu.Lock()
		for _, topic := range topics {
			delete(b.subs[topic], ch)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
		}
		b.mu.Unlock()
		close(ch)
	}), nil
}

// SubscriberCount reports how many live subscriptions a topic has.
func (b *MemoryBroker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[topic])
}
