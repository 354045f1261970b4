package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/repository"
)

var (
	ErrDriverNotFound = repository.ErrDriverNotFound

	// ErrContestPaused rejects votes while the global gate is off.
	ErrContestPaused = errors.New("contest is paused")
	// ErrQuotaExceeded rejects votes once the user's allotment is spent.
	ErrQuotaExceeded = errors.New("vote quota exhausted")
	// ErrVoteIncomplete reports that a vote failed after some of its
	// writes landed. Retrying is safe: repeat votes are allowed, so the
	// worst case is one extra recorded vote rather than a lost one.
	ErrVoteIncomplete = errors.New("vote could not be fully recorded")
)

type VoteDriverRepository interface {
	IncrementVoteCount(ctx context.Context, id uint) error
}

type VoteLedgerRepository interface {
	Record(ctx context.Context, driverID, userID uint, userName string) (domain.VoteEvent, error)
	FindByDriverID(ctx context.Context, driverID uint) ([]domain.VoteEvent, error)
	SummarizeVoters(ctx context.Context, driverID uint) ([]domain.VoterSummary, error)
}

type QuotaRepository interface {
	GetVotesUsed(ctx context.Context, userID uint) (int, error)
	IncrementVotesUsed(ctx context.Context, userID uint) (int, error)
}

type ContestGate interface {
	GetConfig(ctx context.Context) (domain.ContestConfig, error)
}

// VoteService orchestrates a vote attempt: gate check, quota check, then
// the three writes (aggregate increment, quota increment, ledger append)
// in that fixed order. The checks and writes are separate store calls,
// so two in-flight votes from one user can both pass the quota check;
// the window is bounded by the in-flight request count and the quota
// counter itself never loses an update.
type VoteService struct {
	drivers   VoteDriverRepository
	ledger    VoteLedgerRepository
	quotas    QuotaRepository
	contest   ContestGate
	publisher *LivePublisher
	maxVotes  func() int
}

func NewVoteService(
	drivers VoteDriverRepository,
	ledger VoteLedgerRepository,
	quotas QuotaRepository,
	contest ContestGate,
	publisher *LivePublisher,
	maxVotes func() int,
) *VoteService {
	return &VoteService{
		drivers:   drivers,
		ledger:    ledger,
		quotas:    quotas,
		contest:   contest,
		publisher: publisher,
		maxVotes:  maxVotes,
	}
}

func (s *VoteService) MaxVotes() int {
	return s.maxVotes()
}

// CastVote runs one vote attempt for the given user. Rejections happen
// before any write; once writing starts, a failure is reported as
// ErrVoteIncomplete and surfaced to the caller as retryable.
func (s *VoteService) CastVote(ctx context.Context, driverID uint, user domain.User) (domain.VoteReceipt, error) {
	conf, err := s.contest.GetConfig(ctx)
	if err != nil {
		return domain.VoteReceipt{}, fmt.Errorf("s.contest.GetConfig -> %w", err)
	}
	if !conf.IsActive {
		return domain.VoteReceipt{}, ErrContestPaused
	}

	used, err := s.quotas.GetVotesUsed(ctx, user.ID)
	if err != nil {
		return domain.VoteReceipt{}, fmt.Errorf("s.quotas.GetVotesUsed -> %w", err)
	}
	if used >= s.maxVotes() {
		return domain.VoteReceipt{}, ErrQuotaExceeded
	}

	if err = s.drivers.IncrementVoteCount(ctx, driverID); err != nil {
		// First write: nothing has landed yet, reject cleanly.
		if errors.Is(err, repository.ErrDriverNotFound) {
			return domain.VoteReceipt{}, ErrDriverNotFound
		}

		return domain.VoteReceipt{}, fmt.Errorf("s.drivers.IncrementVoteCount -> %w", err)
	}

	votesUsed, err := s.quotas.IncrementVotesUsed(ctx, user.ID)
	if err != nil {
		return domain.VoteReceipt{}, fmt.Errorf("s.quotas.IncrementVotesUsed -> %w: %w", err, ErrVoteIncomplete)
	}

	event, err := s.ledger.Record(ctx, driverID, user.ID, user.DisplayName())
	if err != nil {
		return domain.VoteReceipt{}, fmt.Errorf("s.ledger.Record -> %w: %w", err, ErrVoteIncomplete)
	}

	s.publisher.PublishDrivers(ctx)
	s.publisher.PublishQuota(ctx, user.ID, votesUsed)

	return domain.VoteReceipt{
		Event:     event,
		VotesUsed: votesUsed,
		VotesLeft: s.maxVotes() - votesUsed,
	}, nil
}

func (s *VoteService) GetVotesUsed(ctx context.Context, userID uint) (domain.VoteQuota, error) {
	used, err := s.quotas.GetVotesUsed(ctx, userID)
	if err != nil {
		return domain.VoteQuota{}, fmt.Errorf("s.quotas.GetVotesUsed -> %w", err)
	}

	return domain.VoteQuota{UserID: userID, VotesUsed: used}, nil
}

func (s *VoteService) GetDriverVotes(ctx context.Context, driverID uint) ([]domain.VoteEvent, error) {
	events, err := s.ledger.FindByDriverID(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("s.ledger.FindByDriverID -> %w", err)
	}

	return events, nil
}

func (s *VoteService) GetDriverVoters(ctx context.Context, driverID uint) ([]domain.VoterSummary, error) {
	voters, err := s.ledger.SummarizeVoters(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("s.ledger.SummarizeVoters -> %w", err)
	}

	return voters, nil
}
