package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"schoolhub-backend-go/internal/services"
	"schoolhub-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type UserCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Store.Collection(store.Users).Find(nil)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]store.Record, 0, len(users))
	for _, user := range users {
		items = append(items, services.SanitizeUser(user))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || strings.TrimSpace(req.Password) == "" || !services.ValidRole(req.Role) {
		WriteError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	_, exists, err := services.UserByEmail(s.Store, email)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "User already exists")
		return
	}
	hash, err := s.Tokens.HashPassword(req.Password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	user, err := s.Store.Collection(store.Users).Insert(store.Record{
		"name":         name,
		"email":        email,
		"passwordHash": hash,
		"role":         req.Role,
		"classes":      []any{},
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, services.SanitizeUser(user))
}

func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var req UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	patch := store.Record{}
	if req.Name != nil {
		patch["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		patch["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		if !services.ValidRole(*req.Role) {
			WriteError(w, http.StatusBadRequest, "Unknown role")
			return
		}
		patch["role"] = *req.Role
	}
	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		hash, err := s.Tokens.HashPassword(*req.Password)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		patch["passwordHash"] = hash
	}
	user, found, err := s.Store.Collection(store.Users).Update(userID, patch)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, services.SanitizeUser(user))
}

func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	removed, err := s.Store.Collection(store.Users).Remove(userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !removed {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
