package service

import (
	"context"
	"fmt"

	"github.com/concursopilotos/contest-api/internal/domain"
)

type MaintenanceRepository interface {
	AllDriverIDs(ctx context.Context) ([]uint, error)
	ResetDriverVotes(ctx context.Context, driverID uint) error
}

type QuotaResetRepository interface {
	ResetAll(ctx context.Context) ([]uint, error)
}

type AdminVoteRepository interface {
	FindAll(ctx context.Context, limit, offset int) ([]domain.VoteEvent, error)
	Count(ctx context.Context) (int64, error)
}

type AdminDriverRepository interface {
	FindTop(ctx context.Context, limit int) ([]domain.Driver, error)
	Count(ctx context.Context) (int64, error)
}

type AdminUserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindRecent(ctx context.Context, limit int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// AdminService implements the destructive bulk maintenance operations
// and the dashboard reads. Confirmation is the calling UI's problem;
// these execute immediately.
type AdminService struct {
	maintenance MaintenanceRepository
	quotas      QuotaResetRepository
	votes       AdminVoteRepository
	drivers     AdminDriverRepository
	users       AdminUserRepository
	publisher   *LivePublisher
}

func NewAdminService(
	maintenance MaintenanceRepository,
	quotas QuotaResetRepository,
	votes AdminVoteRepository,
	drivers AdminDriverRepository,
	users AdminUserRepository,
	publisher *LivePublisher,
) *AdminService {
	return &AdminService{
		maintenance: maintenance,
		quotas:      quotas,
		votes:       votes,
		drivers:     drivers,
		users:       users,
		publisher:   publisher,
	}
}

// ResetAllDriverVotes zeroes every driver's aggregate and clears its
// ledger, one atomic reset per driver. A mid-loop failure reports how
// far the reset got instead of pretending nothing happened.
func (s *AdminService) ResetAllDriverVotes(ctx context.Context) (int, error) {
	ids, err := s.maintenance.AllDriverIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("s.maintenance.AllDriverIDs -> %w", err)
	}

	for i, id := range ids {
		if err = s.maintenance.ResetDriverVotes(ctx, id); err != nil {
			s.publisher.PublishDrivers(ctx)
			return i, fmt.Errorf("reset stopped after %d of %d drivers -> %w", i, len(ids), err)
		}
	}

	s.publisher.PublishDrivers(ctx)

	return len(ids), nil
}

// ResetAllUserQuotas zeroes every quota counter. Safe to repeat: a
// second run sets the same counters to 0 again.
func (s *AdminService) ResetAllUserQuotas(ctx context.Context) (int, error) {
	users, err := s.quotas.ResetAll(ctx)
	if err != nil {
		return len(users), fmt.Errorf("s.quotas.ResetAll -> %w", err)
	}

	for _, userID := range users {
		s.publisher.PublishQuota(ctx, userID, 0)
	}

	return len(users), nil
}

func (s *AdminService) GetAllVotes(ctx context.Context, limit, offset int) ([]domain.VoteEvent, error) {
	votes, err := s.votes.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.votes.FindAll -> %w", err)
	}

	return votes, nil
}

func (s *AdminService) GetUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.users.FindAll -> %w", err)
	}

	return users, nil
}

func (s *AdminService) GetTopDrivers(ctx context.Context, limit int) ([]domain.Driver, error) {
	drivers, err := s.drivers.FindTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.drivers.FindTop -> %w", err)
	}

	return drivers, nil
}

func (s *AdminService) GetRecentUsers(ctx context.Context, limit int) ([]domain.User, error) {
	users, err := s.users.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.users.FindRecent -> %w", err)
	}

	return users, nil
}

func (s *AdminService) GetContestStats(ctx context.Context) (domain.ContestStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return domain.ContestStats{}, fmt.Errorf("s.users.Count -> %w", err)
	}

	totalDrivers, err := s.drivers.Count(ctx)
	if err != nil {
		return domain.ContestStats{}, fmt.Errorf("s.drivers.Count -> %w", err)
	}

	totalVotes, err := s.votes.Count(ctx)
	if err != nil {
		return domain.ContestStats{}, fmt.Errorf("s.votes.Count -> %w", err)
	}

	stats := domain.ContestStats{
		TotalUsers:   totalUsers,
		TotalDrivers: totalDrivers,
		TotalVotes:   totalVotes,
	}

	top, err := s.drivers.FindTop(ctx, 1)
	if err != nil {
		return domain.ContestStats{}, fmt.Errorf("s.drivers.FindTop -> %w", err)
	}
	if len(top) > 0 {
		stats.TopDriver = &top[0]
	}

	return stats, nil
}
