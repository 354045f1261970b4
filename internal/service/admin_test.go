package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/livesync"
)

type fakeMaintenanceStore struct {
	ids    []uint
	reset  []uint
	failAt uint
}

func (s *fakeMaintenanceStore) AllDriverIDs(_ context.Context) ([]uint, error) {
	return s.ids, nil
}

func (s *fakeMaintenanceStore) ResetDriverVotes(_ context.Context, driverID uint) error {
	if s.failAt != 0 && driverID == s.failAt {
		return errors.New("deadlock detected")
	}

	s.reset = append(s.reset, driverID)

	return nil
}

type fakeQuotaResetStore struct {
	users    []uint
	resetErr error
}

func (s *fakeQuotaResetStore) ResetAll(_ context.Context) ([]uint, error) {
	if s.resetErr != nil {
		return nil, s.resetErr
	}

	return s.users, nil
}

type fakeAdminVoteStore struct {
	events []domain.VoteEvent
}

func (s *fakeAdminVoteStore) FindAll(_ context.Context, limit, offset int) ([]domain.VoteEvent, error) {
	if offset >= len(s.events) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.events) {
		end = len(s.events)
	}

	return s.events[offset:end], nil
}

func (s *fakeAdminVoteStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.events)), nil
}

type fakeAdminDriverStore struct {
	top []domain.Driver
}

func (s *fakeAdminDriverStore) FindTop(_ context.Context, limit int) ([]domain.Driver, error) {
	if limit > len(s.top) {
		limit = len(s.top)
	}

	return s.top[:limit], nil
}

func (s *fakeAdminDriverStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.top)), nil
}

func (s *fakeAdminDriverStore) FindAll(_ context.Context, _ string) ([]domain.Driver, error) {
	return s.top, nil
}

type fakeAdminUserStore struct {
	users []domain.User
}

func (s *fakeAdminUserStore) FindAll(_ context.Context) ([]domain.User, error) {
	return s.users, nil
}

func (s *fakeAdminUserStore) FindRecent(_ context.Context, limit int) ([]domain.User, error) {
	if limit > len(s.users) {
		limit = len(s.users)
	}

	return s.users[:limit], nil
}

func (s *fakeAdminUserStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func newAdminServiceForTest(
	maintenance *fakeMaintenanceStore,
	quotas *fakeQuotaResetStore,
	votes *fakeAdminVoteStore,
	drivers *fakeAdminDriverStore,
	users *fakeAdminUserStore,
) *AdminService {
	publisher := NewLivePublisher(livesync.NewMemoryBroker(), drivers)

	return NewAdminService(maintenance, quotas, votes, drivers, users, publisher)
}

func TestAdminService_ResetAllDriverVotes(t *testing.T) {
	t.Run("resets every driver", func(t *testing.T) {
		maintenance := &fakeMaintenanceStore{ids: []uint{1, 2, 3}}
		svc := newAdminServiceForTest(maintenance, &fakeQuotaResetStore{}, &fakeAdminVoteStore{}, &fakeAdminDriverStore{}, &fakeAdminUserStore{})

		count, err := svc.ResetAllDriverVotes(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, []uint{1, 2, 3}, maintenance.reset)
	})

	t.Run("reports partial progress on failure", func(t *testing.T) {
		maintenance := &fakeMaintenanceStore{ids: []uint{1, 2, 3}, failAt: 3}
		svc := newAdminServiceForTest(maintenance, &fakeQuotaResetStore{}, &fakeAdminVoteStore{}, &fakeAdminDriverStore{}, &fakeAdminUserStore{})

		count, err := svc.ResetAllDriverVotes(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reset stopped after 2 of 3 drivers")
		assert.Equal(t, 2, count)
		assert.Equal(t, []uint{1, 2}, maintenance.reset)
	})

	t.Run("is safe to repeat", func(t *testing.T) {
		maintenance := &fakeMaintenanceStore{ids: []uint{1, 2}}
		svc := newAdminServiceForTest(maintenance, &fakeQuotaResetStore{}, &fakeAdminVoteStore{}, &fakeAdminDriverStore{}, &fakeAdminUserStore{})

		_, err := svc.ResetAllDriverVotes(context.Background())
		require.NoError(t, err)
		count, err := svc.ResetAllDriverVotes(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, count)
	})
}

func TestAdminService_ResetAllUserQuotas(t *testing.T) {
	t.Run("returns the number of affected users", func(t *testing.T) {
		quotas := &fakeQuotaResetStore{users: []uint{10, 20, 30}}
		svc := newAdminServiceForTest(&fakeMaintenanceStore{}, quotas, &fakeAdminVoteStore{}, &fakeAdminDriverStore{}, &fakeAdminUserStore{})

		count, err := svc.ResetAllUserQuotas(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("publishes a zeroed quota per user", func(t *testing.T) {
		quotas := &fakeQuotaResetStore{users: []uint{10, 20}}
		drivers := &fakeAdminDriverStore{}
		broker := livesync.NewMemoryBroker()
		svc := NewAdminService(&fakeMaintenanceStore{}, quotas, &fakeAdminVoteStore{}, drivers, &fakeAdminUserStore{},
			NewLivePublisher(broker, drivers))

		sub, err := broker.Subscribe(context.Background(), livesync.QuotaTopic(10), livesync.QuotaTopic(20))
		require.NoError(t, err)
		defer sub.Close()

		_, err = svc.ResetAllUserQuotas(context.Background())
		require.NoError(t, err)

		topics := map[string]bool{}
		for i := 0; i < 2; i++ {
			msg := <-sub.C
			topics[msg.Topic] = true
			assert.JSONEq(t, `{"user_id":`+msg.Topic[len("quota:"):]+`,"votes_used":0}`, string(msg.Payload))
		}
		assert.True(t, topics[livesync.QuotaTopic(10)])
		assert.True(t, topics[livesync.QuotaTopic(20)])
	})
}

func TestAdminService_GetContestStats(t *testing.T) {
	top := domain.Driver{ID: 1, Name: "Piloto Uno", VoteCount: 42}
	svc := newAdminServiceForTest(
		&fakeMaintenanceStore{},
		&fakeQuotaResetStore{},
		&fakeAdminVoteStore{events: make([]domain.VoteEvent, 5)},
		&fakeAdminDriverStore{top: []domain.Driver{top, {ID: 2, VoteCount: 1}}},
		&fakeAdminUserStore{users: make([]domain.User, 3)},
	)

	stats, err := svc.GetContestStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalDrivers)
	assert.Equal(t, int64(5), stats.TotalVotes)
	require.NotNil(t, stats.TopDriver)
	assert.Equal(t, top.ID, stats.TopDriver.ID)
}

func TestAdminService_GetContestStats_NoDrivers(t *testing.T) {
	svc := newAdminServiceForTest(
		&fakeMaintenanceStore{},
		&fakeQuotaResetStore{},
		&fakeAdminVoteStore{},
		&fakeAdminDriverStore{},
		&fakeAdminUserStore{},
	)

	stats, err := svc.GetContestStats(context.Background())

	require.NoError(t, err)
	assert.Nil(t, stats.TopDriver)
}

func TestAdminService_GetAllVotes(t *testing.T) {
	events := make([]domain.VoteEvent, 7)
	for i := range events {
		events[i].ID = uint(i + 1)
	}
	svc := newAdminServiceForTest(&fakeMaintenanceStore{}, &fakeQuotaResetStore{}, &fakeAdminVoteStore{events: events}, &fakeAdminDriverStore{}, &fakeAdminUserStore{})

	page, err := svc.GetAllVotes(context.Background(), 5, 5)

	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint(6), page[0].ID)
}
