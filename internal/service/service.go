package service

import (
	"time"

	"miniblog/internal/config"
	"miniblog/internal/repository"
	"miniblog/internal/storage"
)

type Service struct {
	Auth  AuthService
	User  UserService
	Post  PostService
	Stats StatsService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		Auth:  NewAuthService(rep.User, cfg, time.Now),
		User:  NewUserService(rep.User, rep.Post, storage, cfg),
		Post:  NewPostService(rep.Post),
		Stats: NewStatsService(rep.Stats),
	}
}
