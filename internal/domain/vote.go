package domain

import "time"

// VoteEvent is one recorded instance of a user voting for a driver.
// The user's display name is denormalized at cast time. Repeat votes by
// the same user for the same driver are independent rows.
type VoteEvent struct {
	ID        uint      `json:"id"`
	DriverID  uint      `json:"driver_id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// VoterSummary groups a driver's vote events by voter.
type VoterSummary struct {
	UserID   uint   `json:"user_id"`
	UserName string `json:"user_name"`
	Votes    int    `json:"votes"`
}

// VoteReceipt is returned to the caller after a successful cast.
type VoteReceipt struct {
	Event     VoteEvent `json:"event"`
	VotesUsed int       `json:"votes_used"`
	VotesLeft int       `json:"votes_left"`
}
