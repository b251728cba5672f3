package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"miniblog/internal/models"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteJSON - функция для успешных ответов
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteDomainError сопоставляет доменную ошибку с HTTP статусом.
// Все, что не входит в таксономию - 500 без деталей наружу.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidCredentials):
		WriteError(w, models.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrInvalidToken):
		WriteError(w, models.ErrInvalidToken.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, models.ErrForbidden.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrDuplicate):
		WriteError(w, models.ErrDuplicate.Error(), http.StatusConflict)
	default:
		log.Printf("Внутренняя ошибка: %v", err)
		WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
