package dao

import (
	"context"

	"gorm.io/gorm"
)

// MaintenanceDAO implements the destructive admin bulk operations that
// span drivers and their vote events.
type MaintenanceDAO struct {
	db *gorm.DB
}

func NewMaintenanceDAO(db *gorm.DB) *MaintenanceDAO {
	return &MaintenanceDAO{
		db: db,
	}
}

func (d *MaintenanceDAO) AllDriverIDs(ctx context.Context) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).Model(&Driver{}).Order("id").Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

// ResetDriverVotes zeroes one driver's aggregate and deletes its vote
// events as a single transaction, so the aggregate and the ledger never
// disagree after a reset.
func (d *MaintenanceDAO) ResetDriverVotes(ctx context.Context, driverID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for {
			result := tx.Exec(
				`DELETE FROM vote_events WHERE id IN (SELECT id FROM vote_events WHERE driver_id = ? LIMIT ?)`,
				driverID, deleteBatchSize,
			)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected < deleteBatchSize {
				break
			}
		}

		result := tx.Model(&Driver{}).
			Where("id = ?", driverID).
			UpdateColumn("vote_count", 0)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDriverNotFound
		}

		return nil
	})
}
