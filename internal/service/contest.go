package service

import (
	"context"
	"fmt"

	"github.com/concursopilotos/contest-api/internal/domain"
)

type ContestRepository interface {
	GetConfig(ctx context.Context) (domain.ContestConfig, error)
	SetActive(ctx context.Context, active bool) (domain.ContestConfig, error)
}

// ContestService owns the single global contest gate.
type ContestService struct {
	repo      ContestRepository
	publisher *LivePublisher
}

func NewContestService(repo ContestRepository, publisher *LivePublisher) *ContestService {
	return &ContestService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ContestService) GetConfig(ctx context.Context) (domain.ContestConfig, error) {
	conf, err := s.repo.GetConfig(ctx)
	if err != nil {
		return domain.ContestConfig{}, fmt.Errorf("s.repo.GetConfig -> %w", err)
	}

	return conf, nil
}

func (s *ContestService) SetActive(ctx context.Context, active bool) (domain.ContestConfig, error) {
	conf, err := s.repo.SetActive(ctx, active)
	if err != nil {
		return domain.ContestConfig{}, fmt.Errorf("s.repo.SetActive -> %w", err)
	}

	s.publisher.PublishContest(ctx, conf)

	return conf, nil
}
