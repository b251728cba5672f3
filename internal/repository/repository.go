package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"miniblog/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateTheme(ctx context.Context, userID, theme string) error
	UpdateAvatar(ctx context.Context, userID, filename string) error
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetByAuthorID(ctx context.Context, authorID string) ([]models.Post, error)
	GetAll(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID string) error
}

type StatsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	CountPosts(ctx context.Context) (int, error)
}

type Repository struct {
	User  UserRepository
	Post  PostRepository
	Stats StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:  NewUserRepository(db),
		Post:  NewPostRepository(db),
		Stats: NewStatsRepository(db),
	}
}
