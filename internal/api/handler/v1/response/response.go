package response

import "github.com/concursopilotos/contest-api/internal/domain"

// Action is the `{success, message}` shape every mutating contest
// operation answers with, successful or not.
type Action struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type CastVoteResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	VotesUsed int    `json:"votes_used"`
	VotesLeft int    `json:"votes_left"`
}

type QuotaResponse struct {
	UserID    uint `json:"user_id"`
	VotesUsed int  `json:"votes_used"`
	VotesLeft int  `json:"votes_left"`
	MaxVotes  int  `json:"max_votes"`
}

type ResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type DashboardResponse struct {
	Stats       domain.ContestStats `json:"stats"`
	TopDrivers  []domain.Driver     `json:"top_drivers"`
	RecentUsers []domain.User       `json:"recent_users"`
}
