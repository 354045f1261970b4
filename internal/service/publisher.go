package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/livesync"
)

// DriverLister is the read side needed to build driver snapshots.
type DriverLister interface {
	FindAll(ctx context.Context, sort string) ([]domain.Driver, error)
}

// LivePublisher pushes full-state snapshots onto the live broker after
// mutations. Publishing is best-effort: a viewer that misses an update
// reconciles on the next snapshot, so failures are logged, never
// propagated into the mutation result.
type LivePublisher struct {
	broker  livesync.Broker
	drivers DriverLister
}

func NewLivePublisher(broker livesync.Broker, drivers DriverLister) *LivePublisher {
	return &LivePublisher{
		broker:  broker,
		drivers: drivers,
	}
}

// PublishDrivers sends the complete driver list, so subscribers always
// hold a consistent snapshot rather than applying diffs.
func (p *LivePublisher) PublishDrivers(ctx context.Context) {
	drivers, err := p.drivers.FindAll(ctx, "")
	if err != nil {
		zap.L().Warn("failed to load drivers for live snapshot", zap.Error(err))
		return
	}

	p.publish(ctx, livesync.TopicDrivers, drivers)
}

func (p *LivePublisher) PublishQuota(ctx context.Context, userID uint, votesUsed int) {
	p.publish(ctx, livesync.QuotaTopic(userID), domain.VoteQuota{
		UserID:    userID,
		VotesUsed: votesUsed,
	})
}

func (p *LivePublisher) PublishContest(ctx context.Context, conf domain.ContestConfig) {
	p.publish(ctx, livesync.TopicContest, conf)
}

func (p *LivePublisher) publish(ctx context.Context, topic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("failed to marshal live snapshot", zap.String("topic", topic), zap.Error(err))
		return
	}

	if err = p.broker.Publish(ctx, topic, payload); err != nil {
		zap.L().Warn("failed to publish live snapshot", zap.String("topic", topic), zap.Error(err))
	}
}
