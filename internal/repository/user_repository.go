package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"miniblog/internal/models"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser сохраняет нового пользователя. Подсчет пользователей и вставка
// идут в одной транзакции: самый первый зарегистрированный становится админом.
// Уникальность username/email гарантируют ограничения БД, нарушение
// ограничения возвращается как models.ErrDuplicate.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return fmt.Errorf("ошибка при подсчете пользователей: %w", err)
	}

	// правило бутстрапа: админом становится пользователь,
	// зарегистрированный при пустой таблице
	user.IsAdmin = count == 0

	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.Theme == "" {
		user.Theme = "light"
	}

	query := `
		INSERT INTO users (user_id, username, email, password_hash, is_admin, theme, avatar_filename, refresh_token, refresh_token_expiry_time)
		VALUES (:user_id, :username, :email, :password_hash, :is_admin, :theme, :avatar_filename, :refresh_token, :refresh_token_expiry_time)
	`

	_, err = tx.NamedExecContext(ctx, query, user)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return models.ErrDuplicate
		}
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с ID %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE username = $1`

	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь %s: %w", username, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с email %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}

	return &user, nil
}

// ExistsByUsernameOrEmail - предварительная проверка уникальности перед вставкой.
// Проверка совещательная: гонку между проверкой и вставкой закрывает
// ограничение уникальности в самой БД.
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int

	query := `SELECT COUNT(*) FROM users WHERE username = $1 OR email = $2`

	err := r.db.GetContext(ctx, &count, query, username, email)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке уникальности: %w", err)
	}

	return count > 0, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE user_id = $2`

	return r.execForUser(ctx, query, passwordHash, userID)
}

func (r *userRepository) UpdateTheme(ctx context.Context, userID, theme string) error {
	query := `UPDATE users SET theme = $1 WHERE user_id = $2`

	return r.execForUser(ctx, query, theme, userID)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID, filename string) error {
	query := `UPDATE users SET avatar_filename = $1 WHERE user_id = $2`

	return r.execForUser(ctx, query, filename, userID)
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1, refresh_token_expiry_time = $2
		WHERE user_id = $3
	`

	_, err := r.db.ExecContext(ctx, query, refreshToken, expiryTime, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении refresh token: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	var user models.User

	query := `
		SELECT * FROM users
		WHERE refresh_token = $1
		AND refresh_token_expiry_time > CURRENT_TIMESTAMP
	`

	err := r.db.GetContext(ctx, &user, query, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("недействительный или просроченный refresh token: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по refresh token: %w", err)
	}

	return &user, nil
}

// DeleteUser удаляет пользователя. Его посты удаляет каскад по внешнему ключу.
func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE user_id = $1`

	return r.execForUser(ctx, query, userID)
}

// execForUser выполняет запрос по одному пользователю и проверяет,
// что строка действительно была затронута
func (r *userRepository) execForUser(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке затронутых строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пользователь: %w", models.ErrNotFound)
	}

	return nil
}
