package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/livesync"
	"github.com/concursopilotos/contest-api/internal/repository"
)

type fakeDriverRepo struct {
	drivers map[uint]domain.Driver
	nextID  uint
	deleted []uint
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[uint]domain.Driver)}
}

func (r *fakeDriverRepo) Create(_ context.Context, driver domain.Driver) (domain.Driver, error) {
	for _, d := range r.drivers {
		if d.CompetitorNumber == driver.CompetitorNumber {
			return domain.Driver{}, repository.ErrDriverNumberExists
		}
		if d.Plate == driver.Plate {
			return domain.Driver{}, repository.ErrDriverPlateExists
		}
	}

	r.nextID++
	driver.ID = r.nextID
	r.drivers[driver.ID] = driver

	return driver, nil
}

func (r *fakeDriverRepo) FindByID(_ context.Context, id uint) (domain.Driver, error) {
	driver, ok := r.drivers[id]
	if !ok {
		return domain.Driver{}, repository.ErrDriverNotFound
	}

	return driver, nil
}

func (r *fakeDriverRepo) FindAll(_ context.Context, _ string) ([]domain.Driver, error) {
	result := make([]domain.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		result = append(result, d)
	}

	return result, nil
}

func (r *fakeDriverRepo) Update(_ context.Context, id uint, update domain.DriverUpdate) (domain.Driver, error) {
	driver, ok := r.drivers[id]
	if !ok {
		return domain.Driver{}, repository.ErrDriverNotFound
	}

	if update.Name != nil {
		driver.Name = *update.Name
	}
	if update.CompetitorNumber != nil {
		driver.CompetitorNumber = *update.CompetitorNumber
	}
	if update.Plate != nil {
		driver.Plate = *update.Plate
	}
	if update.ImageURL != nil {
		driver.ImageURL = *update.ImageURL
	}
	r.drivers[id] = driver

	return driver, nil
}

func (r *fakeDriverRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.drivers[id]; !ok {
		return repository.ErrDriverNotFound
	}

	delete(r.drivers, id)
	r.deleted = append(r.deleted, id)

	return nil
}

func newDriverServiceForTest(repo *fakeDriverRepo) *DriverService {
	return NewDriverService(repo, NewLivePublisher(livesync.NewMemoryBroker(), repo))
}

func TestDriverService_AddDriver(t *testing.T) {
	t.Run("creates the driver with a zero vote count", func(t *testing.T) {
		repo := newFakeDriverRepo()
		svc := newDriverServiceForTest(repo)

		created, err := svc.AddDriver(context.Background(), domain.Driver{
			Name:             "Piloto Uno",
			CompetitorNumber: 5,
			Plate:            "ABC-123",
		})

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, 0, created.VoteCount)
	})

	t.Run("rejects a duplicate competitor number", func(t *testing.T) {
		repo := newFakeDriverRepo()
		svc := newDriverServiceForTest(repo)

		_, err := svc.AddDriver(context.Background(), domain.Driver{CompetitorNumber: 5, Plate: "ABC-123"})
		require.NoError(t, err)

		_, err = svc.AddDriver(context.Background(), domain.Driver{CompetitorNumber: 5, Plate: "XYZ-789"})
		require.ErrorIs(t, err, ErrDriverNumberExists)
		assert.Len(t, repo.drivers, 1)
	})

	t.Run("rejects a duplicate plate", func(t *testing.T) {
		repo := newFakeDriverRepo()
		svc := newDriverServiceForTest(repo)

		_, err := svc.AddDriver(context.Background(), domain.Driver{CompetitorNumber: 5, Plate: "ABC-123"})
		require.NoError(t, err)

		_, err = svc.AddDriver(context.Background(), domain.Driver{CompetitorNumber: 6, Plate: "ABC-123"})
		require.ErrorIs(t, err, ErrDriverPlateExists)
	})
}

func TestDriverService_EditDriver(t *testing.T) {
	repo := newFakeDriverRepo()
	svc := newDriverServiceForTest(repo)

	created, err := svc.AddDriver(context.Background(), domain.Driver{
		Name:             "Piloto Uno",
		CompetitorNumber: 5,
		Plate:            "ABC-123",
	})
	require.NoError(t, err)
	repo.drivers[created.ID] = withVotes(repo.drivers[created.ID], 12)

	newName := "Piloto Renombrado"
	updated, err := svc.EditDriver(context.Background(), created.ID, domain.DriverUpdate{Name: &newName})

	require.NoError(t, err)
	assert.Equal(t, "Piloto Renombrado", updated.Name)
	// Untouched fields survive, and the aggregate is never editable.
	assert.Equal(t, 5, updated.CompetitorNumber)
	assert.Equal(t, 12, updated.VoteCount)
}

func TestDriverService_EditDriver_NotFound(t *testing.T) {
	svc := newDriverServiceForTest(newFakeDriverRepo())

	name := "x"
	_, err := svc.EditDriver(context.Background(), 99, domain.DriverUpdate{Name: &name})

	require.ErrorIs(t, err, ErrDriverNotFound)
}

func TestDriverService_DeleteDriver_PublishesSnapshot(t *testing.T) {
	repo := newFakeDriverRepo()
	broker := livesync.NewMemoryBroker()
	svc := NewDriverService(repo, NewLivePublisher(broker, repo))

	created, err := svc.AddDriver(context.Background(), domain.Driver{CompetitorNumber: 1, Plate: "A-1"})
	require.NoError(t, err)

	sub, err := broker.Subscribe(context.Background(), livesync.TopicDrivers)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, svc.DeleteDriver(context.Background(), created.ID))

	msg := <-sub.C
	assert.Equal(t, livesync.TopicDrivers, msg.Topic)
	assert.JSONEq(t, `[]`, string(msg.Payload))
	assert.Equal(t, []uint{created.ID}, repo.deleted)
}

func withVotes(d domain.Driver, votes int) domain.Driver {
	d.VoteCount = votes
	return d
}
