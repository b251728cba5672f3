package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"miniblog/internal/models"
)

type UserResponse struct {
	UserID         string  `json:"userId"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	IsAdmin        bool    `json:"isAdmin"`
	Theme          string  `json:"theme"`
	AvatarFilename *string `json:"avatarFilename"`
}

// ProfileResponse - публичный профиль, без email
type ProfileResponse struct {
	Username       string        `json:"username"`
	AvatarFilename *string       `json:"avatarFilename"`
	Posts          []models.Post `json:"posts"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		UserID:         user.UserID,
		Username:       user.Username,
		Email:          user.Email,
		IsAdmin:        user.IsAdmin,
		Theme:          user.Theme,
		AvatarFilename: user.AvatarFilename,
	}
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, newUserResponse(user), http.StatusOK)
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, posts, err := h.UserService.GetProfile(r.Context(), username)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	response := ProfileResponse{
		Username:       user.Username,
		AvatarFilename: user.AvatarFilename,
		Posts:          posts,
	}

	WriteJSON(w, response, http.StatusOK)
}

func (h *Handlers) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	var req struct {
		Theme string `json:"theme" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	if err := h.UserService.UpdateTheme(r.Context(), user.UserID, req.Theme); err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, MessageResponse{Message: "Тема обновлена"}, http.StatusOK)
}

func (h *Handlers) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	var req struct {
		Password string `json:"password" validate:"required,min=6"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Пароль должен быть не менее 6 символов", http.StatusBadRequest)
		return
	}

	if err := h.UserService.UpdatePassword(r.Context(), user.UserID, req.Password); err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, MessageResponse{Message: "Пароль обновлен"}, http.StatusOK)
}

// UploadAvatar принимает multipart файл, кладет его в хранилище
// и сохраняет имя объекта в профиле
func (h *Handlers) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Файл слишком большой или неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		WriteError(w, "Файл не выбран", http.StatusBadRequest)
		return
	}
	defer file.Close()

	objectName, err := h.UserService.UpdateAvatar(r.Context(), user.UserID, header.Filename, file, header.Size)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response := map[string]string{
		"message":        "Аватар обновлен",
		"avatarFilename": objectName,
	}

	WriteJSON(w, response, http.StatusOK)
}

// DeleteAccount удаляет аккаунт вместе со всеми постами пользователя
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), user.UserID); err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, MessageResponse{Message: "Аккаунт удален"}, http.StatusOK)
}
