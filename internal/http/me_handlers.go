package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"schoolhub-backend-go/internal/store"
)

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		WriteError(w, http.StatusBadRequest, "New password is required")
		return
	}
	hash, err := s.Tokens.HashPassword(req.NewPassword)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	_, found, err := s.Store.Collection(store.Users).Update(CurrentUserID(r), store.Record{"passwordHash": hash})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
