package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"miniblog/internal/models"
)

// HashPassword хеширует пароль через bcrypt. Открытый пароль нигде не сохраняется.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("ошибка при хешировании пароля: %w", err)
	}

	return string(hashedPassword), nil
}

// CheckPassword сравнивает пароль с сохраненным хешем.
// Несовпадение возвращается как models.ErrPasswordMismatch.
// Поврежденный хеш в БД - отдельная ошибка целостности данных,
// она НЕ считается несовпадением и доходит до вызывающего как есть.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return models.ErrPasswordMismatch
	}

	return fmt.Errorf("поврежденный хеш пароля: %w", err)
}
