package livesync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBroker_PublishSubscribe(t *testing.T) {
	broker := NewMemoryBroker()

	sub, err := broker.Subscribe(context.Background(), TopicDrivers)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, broker.Publish(context.Background(), TopicDrivers, []byte(`[]`)))

	msg := <-sub.C
	assert.Equal(t, TopicDrivers, msg.Topic)
	assert.Equal(t, `[]`, string(msg.Payload))
}

func TestMemoryBroker_TopicIsolation(t *testing.T) {
	broker := NewMemoryBroker()

	sub, err := broker.Subscribe(context.Background(), TopicContest)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, broker.Publish(context.Background(), TopicDrivers, []byte(`[]`)))
	require.NoError(t, broker.Publish(context.Background(), TopicContest, []byte(`{}`)))

	// The drivers message must not leak onto the contest feed.
	msg := <-sub.C
	assert.Equal(t, TopicContest, msg.Topic)
	select {
	case extra := <-sub.C:
		t.Fatalf("unexpected extra message on topic %q", extra.Topic)
	default:
	}
}

func TestMemoryBroker_MultiTopicSubscription(t *testing.T) {
	broker := NewMemoryBroker()

	sub, err := broker.Subscribe(context.Background(), TopicDrivers, QuotaTopic(7))
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, broker.Publish(context.Background(), TopicDrivers, []byte(`[]`)))
	require.NoError(t, broker.Publish(context.Background(), QuotaTopic(7), []byte(`{"votes_used":1}`)))

	first := <-sub.C
	second := <-sub.C
	assert.Equal(t, TopicDrivers, first.Topic)
	assert.Equal(t, QuotaTopic(7), second.Topic)
}

func TestMemoryBroker_FanOut(t *testing.T) {
	broker := NewMemoryBroker()

	subA, err := broker.Subscribe(context.Background(), TopicDrivers)
	require.NoError(t, err)
	defer subA.Close()
	subB, err := broker.Subscribe(context.Background(), TopicDrivers)
	require.NoError(t, err)
	defer subB.Close()

	require.NoError(t, broker.Publish(context.Background(), TopicDrivers, []byte(`[]`)))

	assert.Equal(t, TopicDrivers, (<-subA.C).Topic)
	assert.Equal(t, TopicDrivers, (<-subB.C).Topic)
}

func TestMemoryBroker_CloseUnregisters(t *testing.T) {
	broker := NewMemoryBroker()

	sub, err := broker.Subscribe(context.Background(), TopicDrivers, TopicContest)
	require.NoError(t, err)
	require.Equal(t, 1, broker.SubscriberCount(TopicDrivers))

	sub.Close()

	assert.Equal(t, 0, broker.SubscriberCount(TopicDrivers))
	assert.Equal(t, 0, broker.SubscriberCount(TopicContest))

	// The channel is closed so consumers can range over it.
	_, open := <-sub.C
	assert.False(t, open)

	// Closing twice is a no-op, not a panic.
	sub.Close()
}

func TestMemoryBroker_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	broker := NewMemoryBroker()

	sub, err := broker.Subscribe(context.Background(), TopicDrivers)
	require.NoError(t, err)
	defer sub.Close()

	// Overflow the buffer; Publish must return without blocking.
	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, broker.Publish(context.Background(), TopicDrivers, []byte(`[]`)))
	}

	delivered := 0
	for {
		select {
		case <-sub.C:
			delivered++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, delivered)
}
