package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"miniblog/internal/auth"
	"miniblog/internal/config"
	"miniblog/internal/models"
	"miniblog/internal/repository"
	"miniblog/internal/storage"
)

type UserService interface {
	GetProfile(ctx context.Context, username string) (*models.User, []models.Post, error)
	UpdateTheme(ctx context.Context, userID, theme string) error
	UpdatePassword(ctx context.Context, userID, newPassword string) error
	UpdateAvatar(ctx context.Context, userID, fileName string, file io.Reader, size int64) (string, error)
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository, storage storage.Storage, cfg *config.Config) UserService {
	return &userService{
		userRepo: userRepo,
		postRepo: postRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

// GetProfile возвращает публичный профиль и посты пользователя, новые сверху
func (s *userService) GetProfile(ctx context.Context, username string) (*models.User, []models.Post, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.postRepo.GetByAuthorID(ctx, user.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, posts, nil
}

func (s *userService) UpdateTheme(ctx context.Context, userID, theme string) error {
	if !slices.Contains(models.AllowedThemes, theme) {
		return fmt.Errorf("недопустимая тема %q: %w", theme, models.ErrValidation)
	}

	return s.userRepo.UpdateTheme(ctx, userID, theme)
}

func (s *userService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if utf8.RuneCountInString(newPassword) < 6 {
		return fmt.Errorf("пароль должен быть не менее 6 символов: %w", models.ErrValidation)
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, userID, passwordHash)
}

// UpdateAvatar загружает файл аватара в хранилище и сохраняет имя объекта
// в профиле. Загрузка в хранилище идет до записи в БД и в транзакцию
// не входит: в БД хранится только имя файла.
func (s *userService) UpdateAvatar(ctx context.Context, userID, fileName string, file io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(s.cfg.AllowedImageExt, ext) {
		return "", fmt.Errorf("недопустимый тип файла %q: %w", ext, models.ErrValidation)
	}

	if size > s.cfg.MaxUploadSize {
		return "", fmt.Errorf("файл больше %d байт: %w", s.cfg.MaxUploadSize, models.ErrValidation)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	objectName, err := s.storage.UploadAvatar(ctx, userID, fileName, file, size)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки аватара в хранилище: %w", err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, objectName); err != nil {
		// запись в БД не прошла, подчищаем уже загруженный объект
		if delErr := s.storage.DeleteAvatar(ctx, objectName); delErr != nil {
			log.Printf("Предупреждение: не удалось удалить аватар из хранилища: %v", delErr)
		}
		return "", err
	}

	// старый аватар больше не нужен
	if user.AvatarFilename != nil && *user.AvatarFilename != "" {
		if err := s.storage.DeleteAvatar(ctx, *user.AvatarFilename); err != nil {
			log.Printf("Предупреждение: не удалось удалить старый аватар: %v", err)
		}
	}

	return objectName, nil
}

// DeleteUser удаляет аккаунт. Посты пользователя удаляет каскад в БД.
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}

	if user.AvatarFilename != nil && *user.AvatarFilename != "" {
		if err := s.storage.DeleteAvatar(ctx, *user.AvatarFilename); err != nil {
			log.Printf("Предупреждение: не удалось удалить аватар из хранилища: %v", err)
		}
	}

	return nil
}
