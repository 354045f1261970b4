// Package livesync propagates state changes to connected viewers. Every
// mutation path publishes a full snapshot of the entity it touched; any
// number of subscribers observe the stream without polling. Snapshots on
// one topic arrive in publish order, nothing is guaranteed across topics.
package livesync

import (
	"context"
	"fmt"
	"sync"
)

// Well-known topics. Quota updates go out on a per-user topic.
const (
	TopicDrivers = "drivers"
	TopicContest = "contest"

	quotaTopicPrefix = "quota:"
)

func QuotaTopic(userID uint) string {
	return fmt.Sprintf("%v%d", quotaTopicPrefix, userID)
}

type Message struct {
	Topic   string
	Payload []byte
}

// Subscription is a live feed over one or more topics. Close must be
// called when the consumer is torn down; an unclosed subscription keeps
// receiving and leaks its delivery goroutine.
type Subscription struct {
	C <-chan Message

	closeOnce sync.Once
	close     func()
}

func newSubscription(ch <-chan Message, close func()) *Subscription {
	return &Subscription{
		C:     ch,
		close: close,
	}
}

func (s *Subscription) Close() {
	s.closeOnce.Do(s.close)
}

type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topics ...string) (*Subscription, error)
}
