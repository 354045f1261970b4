package repository

import (
	"context"
	"fmt"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/repository/dao"
)

type ContestConfigDAO interface {
	Get(ctx context.Context) (dao.ContestConfig, error)
	SetActive(ctx context.Context, active bool) (dao.ContestConfig, error)
}

type ContestRepository struct {
	dao ContestConfigDAO
}

func NewContestRepository(dao ContestConfigDAO) *ContestRepository {
	return &ContestRepository{
		dao: dao,
	}
}

func (r *ContestRepository) GetConfig(ctx context.Context) (domain.ContestConfig, error) {
	conf, err := r.dao.Get(ctx)
	if err != nil {
		return domain.ContestConfig{}, fmt.Errorf("r.dao.Get -> %w", err)
	}

	return r.daoToDomain(conf), nil
}

func (r *ContestRepository) SetActive(ctx context.Context, active bool) (domain.ContestConfig, error) {
	conf, err := r.dao.SetActive(ctx, active)
	if err != nil {
		return domain.ContestConfig{}, fmt.Errorf("r.dao.SetActive -> %w", err)
	}

	return r.daoToDomain(conf), nil
}

func (r *ContestRepository) daoToDomain(c dao.ContestConfig) domain.ContestConfig {
	return domain.ContestConfig{
		IsActive:    c.IsActive,
		Description: c.Description,
		StartsAt:    c.StartsAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
