package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"schoolhub-backend-go/internal/services"
	"schoolhub-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type ClassCreateRequest struct {
	Name     string   `json:"name"`
	Teachers []string `json:"teachers"`
}

type ClassUpdateRequest struct {
	Name     *string  `json:"name"`
	Teachers []string `json:"teachers"`
	Students []string `json:"students"`
}

var classRefs = []store.Ref{
	{Field: "teacher", Collection: store.Users, Select: "name email"},
	{Field: "teachers", Collection: store.Users, Select: "name email"},
	{Field: "students", Collection: store.Users, Select: "name email"},
}

func (s *Server) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := services.ClassesForRole(s.Store, CurrentUserID(r), CurrentRole(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]store.Record, 0, len(classes))
	for _, class := range classes {
		items = append(items, s.Store.Populate(class, classRefs))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateClass(w http.ResponseWriter, r *http.Request) {
	var req ClassCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "Class name is required")
		return
	}
	userID := CurrentUserID(r)
	teachers := []any{userID}
	for _, teacher := range req.Teachers {
		if teacher != "" && teacher != userID {
			teachers = append(teachers, teacher)
		}
	}
	class, err := s.Store.Collection(store.Classes).Insert(store.Record{
		"name":     strings.TrimSpace(req.Name),
		"teacher":  userID,
		"teachers": teachers,
		"students": []any{},
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, s.Store.Populate(class, classRefs))
}

func (s *Server) UpdateClass(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "classId")
	class, found, err := s.Store.Collection(store.Classes).Get(classID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "Class not found")
		return
	}
	role := CurrentRole(r)
	isClassTeacher := role == services.RoleTeacher && services.IsClassTeacher(class, CurrentUserID(r))
	if role != services.RoleAdmin && !isClassTeacher {
		WriteError(w, http.StatusForbidden, "Not allowed")
		return
	}
	var req ClassUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	patch := store.Record{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		patch["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Teachers != nil {
		patch["teachers"] = toAnySlice(req.Teachers)
	}
	if req.Students != nil {
		patch["students"] = toAnySlice(req.Students)
	}
	updated, _, err := s.Store.Collection(store.Classes).Update(classID, patch)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, s.Store.Populate(updated, classRefs))
}

func (s *Server) DeleteClass(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "classId")
	removed, err := s.Store.Collection(store.Classes).Remove(classID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !removed {
		WriteError(w, http.StatusNotFound, "Class not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Class deleted"})
}

func (s *Server) ClassAssignments(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "classId")
	assignments, err := s.Store.Collection(store.Assignments).Find(store.Where(store.Eq("class", classID)))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]store.Record, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, s.Store.Populate(assignment, assignmentRefs))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) ClassAnnouncements(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "classId")
	announcements, err := s.Store.Collection(store.Announcements).Find(store.Where(store.Or(
		store.Where(store.Eq("class", classID)),
		store.Where(store.Eq("isGlobal", true)),
	)))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]store.Record, 0, len(announcements))
	for _, announcement := range announcements {
		items = append(items, s.Store.Populate(announcement, announcementRefs))
	}
	sortByTimeDesc(items, "createdAt")
	WriteJSON(w, http.StatusOK, items)
}

func toAnySlice(values []string) []any {
	boxed := make([]any, len(values))
	for i, value := range values {
		boxed[i] = value
	}
	return boxed
}
