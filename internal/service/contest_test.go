package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/livesync"
)

type fakeContestRepo struct {
	conf domain.ContestConfig
}

func (r *fakeContestRepo) GetConfig(_ context.Context) (domain.ContestConfig, error) {
	return r.conf, nil
}

func (r *fakeContestRepo) SetActive(_ context.Context, active bool) (domain.ContestConfig, error) {
	r.conf.IsActive = active

	return r.conf, nil
}

func TestContestService_SetActive(t *testing.T) {
	repo := &fakeContestRepo{conf: domain.ContestConfig{IsActive: true}}
	broker := livesync.NewMemoryBroker()
	svc := NewContestService(repo, NewLivePublisher(broker, newFakeDriverRepo()))

	sub, err := broker.Subscribe(context.Background(), livesync.TopicContest)
	require.NoError(t, err)
	defer sub.Close()

	conf, err := svc.SetActive(context.Background(), false)

	require.NoError(t, err)
	assert.False(t, conf.IsActive)

	// Every viewer learns about the pause immediately.
	msg := <-sub.C
	assert.Equal(t, livesync.TopicContest, msg.Topic)
	assert.Contains(t, string(msg.Payload), `"is_active":false`)

	got, err := svc.GetConfig(context.Background())
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
