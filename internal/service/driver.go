package service

import (
	"context"
	"fmt"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/repository"
)

var (
	ErrDriverNumberExists = repository.ErrDriverNumberExists
	ErrDriverPlateExists  = repository.ErrDriverPlateExists
)

type DriverRepository interface {
	Create(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	FindByID(ctx context.Context, id uint) (domain.Driver, error)
	FindAll(ctx context.Context, sort string) ([]domain.Driver, error)
	Update(ctx context.Context, id uint, update domain.DriverUpdate) (domain.Driver, error)
	Delete(ctx context.Context, id uint) error
}

type DriverService struct {
	repo      DriverRepository
	publisher *LivePublisher
}

func NewDriverService(repo DriverRepository, publisher *LivePublisher) *DriverService {
	return &DriverService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *DriverService) GetDrivers(ctx context.Context, sort string) ([]domain.Driver, error) {
	drivers, err := s.repo.FindAll(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return drivers, nil
}

func (s *DriverService) GetDriver(ctx context.Context, id uint) (domain.Driver, error) {
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return driver, nil
}

// AddDriver creates a contestant. Competitor-number and plate uniqueness
// are enforced by the store's unique indexes, so two concurrent adds
// with the same number can never both land.
func (s *DriverService) AddDriver(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	created, err := s.repo.Create(ctx, driver)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.publisher.PublishDrivers(ctx)

	return created, nil
}

func (s *DriverService) EditDriver(ctx context.Context, id uint, update domain.DriverUpdate) (domain.Driver, error) {
	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.publisher.PublishDrivers(ctx)

	return updated, nil
}

// DeleteDriver removes the contestant together with its vote events; the
// repository guarantees both or neither.
func (s *DriverService) DeleteDriver(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.publisher.PublishDrivers(ctx)

	return nil
}
