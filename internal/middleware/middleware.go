package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	handlers "miniblog/internal/handler"
	"miniblog/internal/service"
)

type Middleware func(http.Handler) http.Handler

// isPublicPath определяет эндпоинты, доступные без токена:
// регистрация и вход, сброс пароля, лента и просмотр постов и профилей
func isPublicPath(r *http.Request) bool {
	switch r.URL.Path {
	case "/", "/health", "/stats":
		return true
	}

	if strings.HasPrefix(r.URL.Path, "/api/auth/") {
		return true
	}

	if r.Method == http.MethodGet &&
		(strings.HasPrefix(r.URL.Path, "/api/posts") || strings.HasPrefix(r.URL.Path, "/api/users/")) {
		return true
	}

	return false
}

// AuthMiddleware verifies the JWT token and adds user data to the context.
// Разбор токена делегируется auth-сервису: парсинг живет в одном месте.
func AuthMiddleware(auth service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r) {
				next.ServeHTTP(w, r)
				return
			}

			// Extracting the token from the header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
				return
			}

			// Checking the "Bearer <token>" format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				handlers.WriteError(w, "Неверный формат токена", http.StatusUnauthorized)
				return
			}

			userID, err := auth.ParseAccessToken(parts[1])
			if err != nil {
				handlers.WriteError(w, "Недействительный токен", http.StatusUnauthorized)
				return
			}

			// Adding user data to the context
			ctx := context.WithValue(r.Context(), "userID", userID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORSMiddleware - middleware для CORS
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware - middleware для логирования запросов
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
