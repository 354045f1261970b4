package domain

import "time"

// Driver is a contest participant ("piloto") that users vote for.
// VoteCount is the denormalized aggregate kept on the driver for fast
// ranking reads; it tracks the number of VoteEvent rows for the driver.
type Driver struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	CompetitorNumber int       `json:"competitor_number"`
	Plate            string    `json:"plate"`
	ImageURL         string    `json:"image_url,omitempty"`
	VoteCount        int       `json:"vote_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DriverUpdate carries a partial edit of a driver. Nil fields are left
// untouched. VoteCount is deliberately absent: the aggregate is only
// mutated by vote casting and admin resets.
type DriverUpdate struct {
	Name             *string
	CompetitorNumber *int
	Plate            *string
	ImageURL         *string
}
