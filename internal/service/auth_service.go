package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"miniblog/internal/auth"
	"miniblog/internal/config"
	"miniblog/internal/models"
	"miniblog/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	ParseAccessToken(tokenString string) (string, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	cfg         *config.Config
	resetTokens *auth.ResetTokenManager
	now         func() time.Time
}

// NewAuthService принимает часы явно: тесты подменяют их фиксированным временем
func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, now func() time.Time) AuthService {
	return &authService{
		userRepo:    userRepo,
		cfg:         cfg,
		resetTokens: auth.NewResetTokenManager(cfg.SecretKey, cfg.PasswordSalt, cfg.ResetTokenMaxAge),
		now:         now,
	}
}

// Register создает нового пользователя. Предварительная проверка
// уникальности совещательная: решающее слово за ограничением БД,
// его нарушение репозиторий возвращает как models.ErrDuplicate.
func (s *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке уникальности: %w", err)
	}
	if exists {
		return nil, models.ErrDuplicate
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Theme:        "light",
	}

	err = s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login аутентифицирует пользователя по имени и паролю.
// Неизвестное имя и неверный пароль для вызывающего неразличимы:
// оба случая - models.ErrInvalidCredentials. Поврежденный хеш в БД
// несовпадением не считается и уходит наверх отдельной ошибкой.
func (s *authService) Login(ctx context.Context, username, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", "", models.ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, models.ErrPasswordMismatch) {
			return nil, "", "", models.ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", fmt.Errorf("ошибка генерации access token: %w", err)
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	err = s.userRepo.UpdateRefreshToken(ctx, user.UserID, refreshToken, refreshTokenExpiry)
	if err != nil {
		return nil, "", "", fmt.Errorf("ошибка сохранения refresh token: %w", err)
	}

	return user, accessToken, refreshToken, nil
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, "", "", fmt.Errorf("недействительный refresh token: %w", err)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", fmt.Errorf("ошибка генерации access token: %w", err)
	}

	newRefreshToken, refreshTokenExpiry := s.generateRefreshToken()

	err = s.userRepo.UpdateRefreshToken(ctx, user.UserID, newRefreshToken, refreshTokenExpiry)
	if err != nil {
		return nil, "", "", fmt.Errorf("ошибка обновления refresh token: %w", err)
	}

	return user, accessToken, newRefreshToken, nil
}

// RequestPasswordReset выпускает токен сброса для указанного email.
// Для неизвестного email возвращается пустой токен без ошибки:
// ответ наружу одинаковый, перебор email по ответам не работает.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := s.resetTokens.Issue(user.UserID, s.now())
	if err != nil {
		return "", fmt.Errorf("ошибка выпуска токена сброса: %w", err)
	}

	return token, nil
}

// ResetPassword устанавливает новый пароль по токену сброса.
// Подделанный, просроченный и указывающий на несуществующего
// пользователя токен дают один и тот же models.ErrInvalidToken.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.resetTokens.Verify(token, s.now())
	if err != nil {
		return err
	}

	if utf8.RuneCountInString(newPassword) < 6 {
		return fmt.Errorf("пароль должен быть не менее 6 символов: %w", models.ErrValidation)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInvalidToken
		}
		return err
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, user.UserID, passwordHash)
}

// ParseAccessToken проверяет подпись и срок действия access token
// и возвращает userId из claims. Единственное место в сервисе,
// где разбирается access token.
func (s *authService) ParseAccessToken(tokenString string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil || !token.Valid {
		return "", models.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.ErrInvalidToken
	}

	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", models.ErrInvalidToken
	}

	return userID, nil
}

func (s *authService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	// данные берем из БД, а не из claims: флаг админа мог измениться
	// за время жизни токена
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"userId":   user.UserID,
		"username": user.Username,
		"isAdmin":  user.IsAdmin,
		"exp":      s.now().Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":      s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

func (s *authService) generateRefreshToken() (string, time.Time) {
	return uuid.New().String(), s.now().Add(s.cfg.RefreshTokenDuration)
}

func validateRegistration(username, email, password string) error {
	nameLen := utf8.RuneCountInString(username)
	if nameLen < 3 || nameLen > 80 {
		return fmt.Errorf("имя пользователя должно быть от 3 до 80 символов: %w", models.ErrValidation)
	}

	if !emailPattern.MatchString(email) {
		return fmt.Errorf("неверный формат email: %w", models.ErrValidation)
	}

	if utf8.RuneCountInString(password) < 6 {
		return fmt.Errorf("пароль должен быть не менее 6 символов: %w", models.ErrValidation)
	}

	return nil
}
