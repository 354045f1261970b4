package repository

import (
	"context"
	"fmt"
)

type QuotaDAO interface {
	GetVotesUsed(ctx context.Context, userID uint) (int, error)
	IncrementVotesUsed(ctx context.Context, userID uint) (int, error)
	ResetAll(ctx context.Context) ([]uint, error)
}

type QuotaRepository struct {
	dao QuotaDAO
}

func NewQuotaRepository(dao QuotaDAO) *QuotaRepository {
	return &QuotaRepository{
		dao: dao,
	}
}

func (r *QuotaRepository) GetVotesUsed(ctx context.Context, userID uint) (int, error) {
	used, err := r.dao.GetVotesUsed(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.GetVotesUsed -> %w", err)
	}

	return used, nil
}

func (r *QuotaRepository) IncrementVotesUsed(ctx context.Context, userID uint) (int, error) {
	used, err := r.dao.IncrementVotesUsed(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.IncrementVotesUsed -> %w", err)
	}

	return used, nil
}

func (r *QuotaRepository) ResetAll(ctx context.Context) ([]uint, error) {
	users, err := r.dao.ResetAll(ctx)
	if err != nil {
		return users, fmt.Errorf("r.dao.ResetAll -> %w", err)
	}

	return users, nil
}
