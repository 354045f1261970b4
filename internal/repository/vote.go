package repository

import (
	"context"
	"fmt"

	"github.com/concursopilotos/contest-api/internal/domain"
	"github.com/concursopilotos/contest-api/internal/repository/dao"
)

type VoteEventDAO interface {
	Insert(ctx context.Context, event dao.VoteEvent) (dao.VoteEvent, error)
	FindByDriverID(ctx context.Context, driverID uint) ([]dao.VoteEvent, error)
	FindAll(ctx context.Context, limit, offset int) ([]dao.VoteEvent, error)
	CountByVoter(ctx context.Context, driverID uint) ([]dao.VoterCount, error)
	Count(ctx context.Context) (int64, error)
}

type VoteRepository struct {
	dao VoteEventDAO
}

func NewVoteRepository(dao VoteEventDAO) *VoteRepository {
	return &VoteRepository{
		dao: dao,
	}
}

func (r *VoteRepository) Record(ctx context.Context, driverID, userID uint, userName string) (domain.VoteEvent, error) {
	created, err := r.dao.Insert(ctx, dao.VoteEvent{
		DriverID: driverID,
		UserID:   userID,
		UserName: userName,
	})
	if err != nil {
		return domain.VoteEvent{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *VoteRepository) FindByDriverID(ctx context.Context, driverID uint) ([]domain.VoteEvent, error) {
	events, err := r.dao.FindByDriverID(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByDriverID -> %w", err)
	}

	return r.daosToDomain(events), nil
}

func (r *VoteRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.VoteEvent, error) {
	events, err := r.dao.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(events), nil
}

func (r *VoteRepository) SummarizeVoters(ctx context.Context, driverID uint) ([]domain.VoterSummary, error) {
	counts, err := r.dao.CountByVoter(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByVoter -> %w", err)
	}

	summaries := make([]domain.VoterSummary, len(counts))
	for i, c := range counts {
		summaries[i] = domain.VoterSummary{
			UserID:   c.UserID,
			UserName: c.UserName,
			Votes:    c.Votes,
		}
	}

	return summaries, nil
}

func (r *VoteRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *VoteRepository) daoToDomain(e dao.VoteEvent) domain.VoteEvent {
	return domain.VoteEvent{
		ID:        e.ID,
		DriverID:  e.DriverID,
		UserID:    e.UserID,
		UserName:  e.UserName,
		CreatedAt: e.CreatedAt,
	}
}

func (r *VoteRepository) daosToDomain(events []dao.VoteEvent) []domain.VoteEvent {
	result := make([]domain.VoteEvent, len(events))
	for i, e := range events {
		result[i] = r.daoToDomain(e)
	}

	return result
}
