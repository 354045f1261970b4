package domain

import "time"

// ContestConfig is the single global contest record. IsActive gates
// whether votes may be cast at all.
type ContestConfig struct {
	IsActive    bool       `json:"is_active"`
	Description string     `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ContestStats is the admin dashboard summary.
type ContestStats struct {
	TotalUsers   int64   `json:"total_users"`
	TotalDrivers int64   `json:"total_drivers"`
	TotalVotes   int64   `json:"total_votes"`
	TopDriver    *Driver `json:"top_driver,omitempty"`
}
