package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// deleteBatchSize bounds bulk deletes so a reset over a large ledger is
// issued as a sequence of small statements instead of one long-running
// delete holding locks.
const deleteBatchSize = 500

type VoteEvent struct {
	ID uint `gorm:"primaryKey"`

	DriverID uint   `gorm:"index;not null"`
	UserID   uint   `gorm:"index;not null"`
	UserName string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type VoteEventDAO struct {
	db *gorm.DB
}

func NewVoteEventDAO(db *gorm.DB) *VoteEventDAO {
	return &VoteEventDAO{
		db: db,
	}
}

// Insert appends an event row. The ledger is append-only: repeat votes by
// the same user for the same driver are additional independent rows.
func (d *VoteEventDAO) Insert(ctx context.Context, event VoteEvent) (VoteEvent, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return VoteEvent{}, result.Error
	}

	return event, nil
}

func (d *VoteEventDAO) FindByDriverID(ctx context.Context, driverID uint) ([]VoteEvent, error) {
	var events []VoteEvent

	result := d.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("created_at DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *VoteEventDAO) FindAll(ctx context.Context, limit, offset int) ([]VoteEvent, error) {
	var events []VoteEvent

	result := d.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

type VoterCount struct {
	UserID   uint
	UserName string
	Votes    int
}

// CountByVoter groups a driver's events by voter.
func (d *VoteEventDAO) CountByVoter(ctx context.Context, driverID uint) ([]VoterCount, error) {
	var counts []VoterCount

	result := d.db.WithContext(ctx).Model(&VoteEvent{}).
		Select("user_id, user_name, COUNT(*) AS votes").
		Where("driver_id = ?", driverID).
		Group("user_id, user_name").
		Order("votes DESC").
		Scan(&counts)
	if result.Error != nil {
		return nil, result.Error
	}

	return counts, nil
}

func (d *VoteEventDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&VoteEvent{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

