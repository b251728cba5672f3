package models

import "errors"

// Типовые ошибки доменного слоя. Обработчики сопоставляют их
// с HTTP статусами через errors.Is.
var (
	ErrDuplicate          = errors.New("пользователь с таким именем или email уже существует")
	ErrValidation         = errors.New("неверные данные")
	ErrNotFound           = errors.New("не найдено")
	ErrForbidden          = errors.New("доступ запрещен")
	ErrInvalidToken       = errors.New("недействительный или просроченный токен")
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	ErrPasswordMismatch   = errors.New("неверный пароль")
)
