package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"miniblog/internal/config"
	"miniblog/internal/models"
	"miniblog/internal/repository"
	"miniblog/internal/service"
)

type Handlers struct {
	AuthService  service.AuthService
	UserService  service.UserService
	PostService  service.PostService
	StatsService service.StatsService
	UserRepo     repository.UserRepository
	Cfg          *config.Config
	Validate     *validator.Validate
}

func NewHandlers(repo *repository.Repository, service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:  service.Auth,
		UserService:  service.User,
		PostService:  service.Post,
		StatsService: service.Stats,
		UserRepo:     repo.User,
		Cfg:          config,
		Validate:     validator.New(),
	}
}

// currentUser достает действующего пользователя по userID из контекста запроса.
// Данные всегда свежие из БД, а не из claims токена.
func (h *Handlers) currentUser(r *http.Request) (*models.User, error) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		return nil, models.ErrInvalidToken
	}

	return h.UserRepo.GetUserByID(r.Context(), userID)
}
