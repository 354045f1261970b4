package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// contestConfigID pins the config to a single row so every instance
// reads and writes the same record.
const contestConfigID = 1

type ContestConfig struct {
	ID uint `gorm:"primaryKey"`

	IsActive    bool `gorm:"not null;default:true"`
	Description string
	StartsAt    *time.Time

	UpdatedAt time.Time `gorm:"not null"`
}

type ContestConfigDAO struct {
	db *gorm.DB
}

func NewContestConfigDAO(db *gorm.DB) *ContestConfigDAO {
	return &ContestConfigDAO{
		db: db,
	}
}

// Get returns the singleton config, lazily creating it active. Concurrent
// first reads race on the insert but converge on the same row: the second
// create hits the primary key and re-reads.
func (d *ContestConfigDAO) Get(ctx context.Context) (ContestConfig, error) {
	var conf ContestConfig

	result := d.db.WithContext(ctx).
		Where(ContestConfig{ID: contestConfigID}).
		Attrs(ContestConfig{IsActive: true}).
		FirstOrCreate(&conf)
	if result.Error != nil {
		result = d.db.WithContext(ctx).First(&conf, contestConfigID)
		if result.Error != nil {
			return ContestConfig{}, result.Error
		}
	}

	return conf, nil
}

func (d *ContestConfigDAO) SetActive(ctx context.Context, active bool) (ContestConfig, error) {
	if _, err := d.Get(ctx); err != nil {
		return ContestConfig{}, err
	}

	result := d.db.WithContext(ctx).Model(&ContestConfig{}).
		Where("id = ?", contestConfigID).
		Update("is_active", active)
	if result.Error != nil {
		return ContestConfig{}, result.Error
	}

	var conf ContestConfig
	if err := d.db.WithContext(ctx).First(&conf, contestConfigID).Error; err != nil {
		return ContestConfig{}, err
	}

	return conf, nil
}
