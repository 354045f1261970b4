package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDriverNotFound     = errors.New("driver not found")
	ErrDriverNumberExists = errors.New("competitor number already taken")
	ErrDriverPlateExists  = errors.New("plate already taken")
)

type Driver struct {
	ID uint `gorm:"primaryKey"`

	Name             string `gorm:"not null"`
	CompetitorNumber int    `gorm:"unique;not null"`
	Plate            string `gorm:"unique;not null"`
	ImageURL         string

	// Aggregate vote total. Only ever mutated through the atomic
	// increment below or an admin reset, never read-modify-write.
	VoteCount int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type DriverDAO struct {
	db *gorm.DB
}

func NewDriverDAO(db *gorm.DB) *DriverDAO {
	return &DriverDAO{
		db: db,
	}
}

func (d *DriverDAO) Insert(ctx context.Context, driver Driver) (Driver, error) {
	result := d.db.WithContext(ctx).Create(&driver)
	if result.Error != nil {
		return Driver{}, mapDriverUniqueViolation(result.Error)
	}

	return driver, nil
}

func (d *DriverDAO) FindByID(ctx context.Context, id uint) (Driver, error) {
	var driver Driver

	result := d.db.WithContext(ctx).First(&driver, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Driver{}, ErrDriverNotFound
		}

		return Driver{}, result.Error
	}

	return driver, nil
}

// FindAll returns every driver ordered by the given column, which must be
// one of the whitelisted sort orders resolved by the repository.
func (d *DriverDAO) FindAll(ctx context.Context, order string) ([]Driver, error) {
	var drivers []Driver

	result := d.db.WithContext(ctx).Order(order).Find(&drivers)
	if result.Error != nil {
		return nil, result.Error
	}

	return drivers, nil
}

func (d *DriverDAO) FindTop(ctx context.Context, limit int) ([]Driver, error) {
	var drivers []Driver

	result := d.db.WithContext(ctx).Order("vote_count DESC").Limit(limit).Find(&drivers)
	if result.Error != nil {
		return nil, result.Error
	}

	return drivers, nil
}

// Update applies a partial edit. The vote_count column is never part of
// the update set.
func (d *DriverDAO) Update(ctx context.Context, id uint, fields map[string]interface{}) (Driver, error) {
	if len(fields) == 0 {
		return d.FindByID(ctx, id)
	}

	result := d.db.WithContext(ctx).Model(&Driver{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return Driver{}, mapDriverUniqueViolation(result.Error)
	}
	if result.RowsAffected == 0 {
		return Driver{}, ErrDriverNotFound
	}

	return d.FindByID(ctx, id)
}

// Delete removes the driver and all of its vote events in one
// transaction, so a failed cascade never leaves orphaned events.
func (d *DriverDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("driver_id = ?", id).Delete(&VoteEvent{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Driver{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDriverNotFound
		}

		return nil
	})
}

// IncrementVoteCount bumps the aggregate with a single SQL expression so
// concurrent votes serialize at the store without lost updates.
func (d *DriverDAO) IncrementVoteCount(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Model(&Driver{}).
		Where("id = ?", id).
		UpdateColumn("vote_count", gorm.Expr("vote_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDriverNotFound
	}

	return nil
}

func (d *DriverDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Driver{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func mapDriverUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(pgErr.Message, `unique constraint "uni_drivers_competitor_number"`) {
			return ErrDriverNumberExists
		}
		if strings.Contains(pgErr.Message, `unique constraint "uni_drivers_plate"`) {
			return ErrDriverPlateExists
		}
	}

	return err
}
