package service

import (
	"context"

	"miniblog/internal/repository"
)

type Stats struct {
	Users int `json:"users"`
	Posts int `json:"posts"`
}

type StatsService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (t *statsService) GetStats(ctx context.Context) (*Stats, error) {
	users, err := t.statsRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := t.statsRepo.CountPosts(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{Users: users, Posts: posts}, nil
}
