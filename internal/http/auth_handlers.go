package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"schoolhub-backend-go/internal/services"
	"schoolhub-backend-go/internal/store"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    int64        `json:"expiresAt"`
	User         store.Record `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || strings.TrimSpace(req.Password) == "" || req.Role == "" {
		WriteError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !services.ValidRole(req.Role) {
		WriteError(w, http.StatusBadRequest, "Unknown role")
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
	pair, err := s.Tokens.CreateTokenPair(user.ID(), email, req.Role)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         services.SanitizeUser(user),
	})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	user, found, err := services.UserByEmail(s.Store, email)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	hash, _ := user["passwordHash"].(string)
	if hash == "" || !s.Tokens.VerifyPassword(req.Password, hash) {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	role, _ := user["role"].(string)
	pair, err := s.Tokens.CreateTokenPair(user.ID(), email, role)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         services.SanitizeUser(user),
	})
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Authentication failed")
		return
	}
	token, claims, err := s.Tokens.ParseToken(req.RefreshToken)
	if err != nil || !token.Valid || claims["typ"] != "refresh" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	userID, _ := claims["sub"].(string)
	user, found, err := services.UserByID(s.Store, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	email, _ := user["email"].(string)
	role, _ := user["role"].(string)
	pair, err := s.Tokens.CreateTokenPair(userID, email, role)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         services.SanitizeUser(user),
	})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ValidateToken returns the authenticated caller's current record.
func (s *Server) ValidateToken(w http.ResponseWriter, r *http.Request) {
	user, found, err := services.UserByID(s.Store, CurrentUserID(r))
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
