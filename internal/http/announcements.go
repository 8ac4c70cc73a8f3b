package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"schoolhub-backend-go/internal/services"
	"schoolhub-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type AnnouncementCreateRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsGlobal bool   `json:"isGlobal"`
	ClassID  string `json:"classId"`
}

var announcementRefs = []store.Ref{
	{Field: "author", Collection: store.Users, Select: "name"},
	{Field: "class", Collection: store.Classes, Select: "name"},
}

// ListAnnouncements is public: anonymous callers see global announcements
// only; a valid bearer token widens the view to the caller's classes.
func (s *Server) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements := s.Store.Collection(store.Announcements)
	pred := store.Where(store.Eq("isGlobal", true))

	if userID := s.optionalUserID(r); userID != "" {
		classes, err := services.MemberClasses(s.Store, userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		pred = store.Where(store.Or(
			store.Where(store.Eq("isGlobal", true)),
			store.Where(store.InStrings("class", services.ClassIDs(classes))),
		))
	}

	matched, err := announcements.Find(pred)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]store.Record, 0, len(matched))
	for _, announcement := range matched {
		items = append(items, s.Store.Populate(announcement, announcementRefs))
	}
	sortByTimeDesc(items, "createdAt")
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		WriteError(w, http.StatusBadRequest, "Title and content are required")
		return
	}
	var class any
	if req.ClassID != "" {
		class = req.ClassID
	}
	announcement, err := s.Store.Collection(store.Announcements).Insert(store.Record{
		"title":    req.Title,
		"content":  req.Content,
		"author":   CurrentUserID(r),
		"isGlobal": req.IsGlobal,
		"class":    class,
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, announcement)
}

func (s *Server) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcementID := chi.URLParam(r, "announcementId")
	removed, err := s.Store.Collection(store.Announcements).Remove(announcementID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !removed {
		WriteError(w, http.StatusNotFound, "Announcement not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

// optionalUserID extracts the caller's id from a bearer token when one is
// present and valid; an absent or invalid token is not an error here.
func (s *Server) optionalUserID(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	token, claims, err := s.Tokens.ParseToken(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
	if err != nil || !token.Valid || claims["typ"] != "access" {
		return ""
	}
	userID, _ := claims["sub"].(string)
	return userID
}
