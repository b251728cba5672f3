package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"miniblog/internal/models"
)

type PostRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type PostResponse struct {
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newPostResponse(post *models.Post) PostResponse {
	return PostResponse{
		PostID:    post.PostID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// GetFeed возвращает общую ленту, новые посты сверху
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.GetFeed(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	WriteJSON(w, posts, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	post, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, newPostResponse(post), http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), user, req.Title, req.Content)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, newPostResponse(post), http.StatusCreated)
}

// UpdatePost меняет пост. Право на это есть только у автора и админа,
// чужая попытка получает 403, а не тихий отказ.
func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	postID := mux.Vars(r)["postId"]

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), user, postID, req.Title, req.Content)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, newPostResponse(post), http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	postID := mux.Vars(r)["postId"]

	if err := h.PostService.DeletePost(r.Context(), user, postID); err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, MessageResponse{Message: "Пост удален"}, http.StatusOK)
}
