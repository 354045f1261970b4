package domain

// VoteQuota tracks how many votes a user has consumed against the fixed
// contest-wide allotment. VotesUsed mirrors the count of the user's
// vote events across all drivers.
type VoteQuota struct {
	UserID    uint `json:"user_id"`
	VotesUsed int  `json:"votes_used"`
}
