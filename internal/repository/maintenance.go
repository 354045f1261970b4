package repository

import (
	"context"
	"fmt"
)

type MaintenanceDAO interface {
	AllDriverIDs(ctx context.Context) ([]uint, error)
	ResetDriverVotes(ctx context.Context, driverID uint) error
}

type MaintenanceRepository struct {
	dao MaintenanceDAO
}

func NewMaintenanceRepository(dao MaintenanceDAO) *MaintenanceRepository {
	return &MaintenanceRepository{
		dao: dao,
	}
}

func (r *MaintenanceRepository) AllDriverIDs(ctx context.Context) ([]uint, error) {
	ids, err := r.dao.AllDriverIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.AllDriverIDs -> %w", err)
	}

	return ids, nil
}

func (r *MaintenanceRepository) ResetDriverVotes(ctx context.Context, driverID uint) error {
	if err := r.dao.ResetDriverVotes(ctx, driverID); err != nil {
		return fmt.Errorf("r.dao.ResetDriverVotes -> %w", err)
	}

	return nil
}
