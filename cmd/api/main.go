package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"miniblog/cmd/app"
	"miniblog/internal/config"
	handlers "miniblog/internal/handler"
	"miniblog/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, repo, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(repo, services, cfg)

	router := mux.NewRouter()

	// setting up routes
	router.HandleFunc("/", handler.GetFeed).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/stats", handler.StatsHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/refresh-token", handler.RefreshToken).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/reset-request", handler.ResetRequest).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/reset-confirm", handler.ResetConfirm).Methods(http.MethodPost)

	router.HandleFunc("/api/me", handler.GetCurrentUser).Methods(http.MethodGet)
	router.HandleFunc("/api/me", handler.DeleteAccount).Methods(http.MethodDelete)
	router.HandleFunc("/api/me/theme", handler.UpdateTheme).Methods(http.MethodPut)
	router.HandleFunc("/api/me/password", handler.UpdatePassword).Methods(http.MethodPut)
	router.HandleFunc("/api/me/avatar", handler.UploadAvatar).Methods(http.MethodPost)

	router.HandleFunc("/api/users/{username}", handler.GetProfile).Methods(http.MethodGet)

	router.HandleFunc("/api/posts", handler.GetFeed).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", handler.CreatePost).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{postId}", handler.GetPost).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{postId}", handler.UpdatePost).Methods(http.MethodPut)
	router.HandleFunc("/api/posts/{postId}", handler.DeletePost).Methods(http.MethodDelete)

	handlerChain := middleware.Chain(
		router,
		middleware.AuthMiddleware(services.Auth),
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Сервер запущен на %s", addr)
	log.Printf("База данных: %s", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
