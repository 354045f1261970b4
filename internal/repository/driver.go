package repository

import (
	"context"
	"fmt"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/repository/dao"
)

var (
	ErrDriverNotFound     = dao.ErrDriverNotFound
	ErrDriverNumberExists = dao.ErrDriverNumberExists
	ErrDriverPlateExists  = dao.ErrDriverPlateExists
)

// Whitelisted sort orders for driver listings.
const (
	SortByVotes  = "votes"
	SortByNumber = "number"
)

type DriverDAO interface {
	Insert(ctx context.Context, driver dao.Driver) (dao.Driver, error)
	FindByID(ctx context.Context, id uint) (dao.Driver, error)
	FindAll(ctx context.Context, order string) ([]dao.Driver, error)
	FindTop(ctx context.Context, limit int) ([]dao.Driver, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (dao.Driver, error)
	Delete(ctx context.Context, id uint) error
	IncrementVoteCount(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type DriverRepository struct {
	dao DriverDAO
}

func NewDriverRepository(dao DriverDAO) *DriverRepository {
	return &DriverRepository{
		dao: dao,
	}
}

func (r *DriverRepository) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	created, err := r.dao.Insert(ctx, dao.Driver{
		Name:             driver.Name,
		CompetitorNumber: driver.CompetitorNumber,
		Plate:            driver.Plate,
		ImageURL:         driver.ImageURL,
	})
	if err != nil {
		return domain.Driver{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *DriverRepository) FindByID(ctx context.Context, id uint) (domain.Driver, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *DriverRepository) FindAll(ctx context.Context, sort string) ([]domain.Driver, error) {
	order := "competitor_number"
	if sort == SortByVotes {
		order = "vote_count DESC"
	}

	drivers, err := r.dao.FindAll(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(drivers), nil
}

func (r *DriverRepository) FindTop(ctx context.Context, limit int) ([]domain.Driver, error) {
	drivers, err := r.dao.FindTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTop -> %w", err)
	}

	return r.daosToDomain(drivers), nil
}

func (r *DriverRepository) Update(ctx context.Context, id uint, update domain.DriverUpdate) (domain.Driver, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.CompetitorNumber != nil {
		fields["competitor_number"] = *update.CompetitorNumber
	}
	if update.Plate != nil {
		fields["plate"] = *update.Plate
	}
	if update.ImageURL != nil {
		fields["image_url"] = *update.ImageURL
	}

	updated, err := r.dao.Update(ctx, id, fields)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *DriverRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *DriverRepository) IncrementVoteCount(ctx context.Context, id uint) error {
	if err := r.dao.IncrementVoteCount(ctx, id); err != nil {
		return fmt.Errorf("r.dao.IncrementVoteCount -> %w", err)
	}

	return nil
}

func (r *DriverRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *DriverRepository) daoToDomain(d dao.Driver) domain.Driver {
	return domain.Driver{
		ID:               d.ID,
		Name:             d.Name,
		CompetitorNumber: d.CompetitorNumber,
		Plate:            d.Plate,
		ImageURL:         d.ImageURL,
		VoteCount:        d.VoteCount,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (r *DriverRepository) daosToDomain(drivers []dao.Driver) []domain.Driver {
	result := make([]domain.Driver, len(drivers))
	for i, d := range drivers {
		result[i] = r.daoToDomain(d)
	}

	return result
}
