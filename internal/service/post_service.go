package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"miniblog/internal/models"
	"miniblog/internal/repository"
)

// CanModify решает, может ли действующий пользователь изменить или удалить пост:
// только автор поста или админ. Чистая функция без побочных эффектов.
func CanModify(actor *models.User, post *models.Post) bool {
	return actor != nil && (actor.UserID == post.AuthorID || actor.IsAdmin)
}

type PostService interface {
	CreatePost(ctx context.Context, author *models.User, title, content string) (*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	UpdatePost(ctx context.Context, actor *models.User, postID, title, content string) (*models.Post, error)
	DeletePost(ctx context.Context, actor *models.User, postID string) error
	GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	GetFeed(ctx context.Context) ([]models.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (p *postService) CreatePost(ctx context.Context, author *models.User, title, content string) (*models.Post, error) {
	if author == nil {
		return nil, models.ErrForbidden
	}

	title = strings.TrimSpace(title)
	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: author.UserID,
		Title:    title,
		Content:  content,
	}

	err := p.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return p.postRepo.GetByID(ctx, postID)
}

// UpdatePost обновляет пост после проверки прав.
// Автор поста не меняется никогда.
func (p *postService) UpdatePost(ctx context.Context, actor *models.User, postID, title, content string) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !CanModify(actor, post) {
		return nil, models.ErrForbidden
	}

	title = strings.TrimSpace(title)
	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content

	err = p.postRepo.Update(ctx, post)
	if err != nil {
		return nil, err
	}

	return post, nil
}

// DeletePost удаляет пост безвозвратно после проверки прав
func (p *postService) DeletePost(ctx context.Context, actor *models.User, postID string) error {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if !CanModify(actor, post) {
		return models.ErrForbidden
	}

	return p.postRepo.Delete(ctx, postID)
}

func (p *postService) GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return p.postRepo.GetByAuthorID(ctx, authorID)
}

func (p *postService) GetFeed(ctx context.Context) ([]models.Post, error) {
	return p.postRepo.GetAll(ctx)
}

func validatePost(title, content string) error {
	titleLen := utf8.RuneCountInString(title)
	if titleLen < 1 || titleLen > 200 {
		return fmt.Errorf("заголовок должен быть от 1 до 200 символов: %w", models.ErrValidation)
	}

	if content == "" {
		return fmt.Errorf("текст поста не может быть пустым: %w", models.ErrValidation)
	}

	return nil
}
