package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"schoolhub-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type EventCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

var eventRefs = []store.Ref{
	{Field: "author", Collection: store.Users, Select: "name"},
}

func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.Store.Collection(store.Events).Find(nil)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]store.Record, 0, len(events))
	for _, event := range events {
		items = append(items, s.Store.Populate(event, eventRefs))
	}
	sortByTimeAsc(items, "date")
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.Date == "" {
		WriteError(w, http.StatusBadRequest, "Title and date are required")
		return
	}
	event, err := s.Store.Collection(store.Events).Insert(store.Record{
		"title":       req.Title,
		"description": req.Description,
		"date":        req.Date,
		"author":      CurrentUserID(r),
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, event)
}

func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	removed, err := s.Store.Collection(store.Events).Remove(eventID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !removed {
		WriteError(w, http.StatusNotFound, "Event not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}
