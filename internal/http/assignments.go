package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"schoolhub-backend-go/internal/services"
	"schoolhub-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type AssignmentCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ClassID     string `json:"classId"`
	DueDate     string `json:"dueDate"`
}

type AssignmentUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
}

type GradeRequest struct {
	AssignmentID string `json:"assignmentId"`
	StudentID    string `json:"studentId"`
	Grade        any    `json:"grade"`
}

var assignmentRefs = []store.Ref{
	{Field: "class", Collection: store.Classes, Select: "name"},
	{Field: "teacher", Collection: store.Users, Select: "name"},
}

func (s *Server) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments := s.Store.Collection(store.Assignments)
	var matched []store.Record
	var err error
	if CurrentRole(r) == services.RoleStudent {
		classes, cerr := services.ClassesForRole(s.Store, CurrentUserID(r), services.RoleStudent)
		if cerr != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		classIDs := services.ClassIDs(classes)
		if len(classIDs) == 0 {
			WriteJSON(w, http.StatusOK, []store.Record{})
			return
		}
		matched, err = assignments.Find(store.Where(store.InStrings("class", classIDs)))
	} else {
		matched, err = assignments.Find(nil)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]store.Record, 0, len(matched))
	for _, assignment := range matched {
		items = append(items, s.Store.Populate(assignment, assignmentRefs))
	}
	sortByTimeAsc(items, "dueDate")
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req AssignmentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.ClassID == "" {
		WriteError(w, http.StatusBadRequest, "Title and class are required")
		return
	}
	assignment, err := s.Store.Collection(store.Assignments).Insert(store.Record{
		"title":       req.Title,
		"description": req.Description,
		"class":       req.ClassID,
		"teacher":     CurrentUserID(r),
		"dueDate":     req.DueDate,
		"submissions": []any{},
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, assignment)
}

// SubmitAssignment stores the caller's submission, replacing any previous
// one for the same assignment. A resubmission without a new file keeps the
// previously uploaded file reference.
func (s *Server) SubmitAssignment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(100 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	assignmentID := r.FormValue("assignmentId")
	if assignmentID == "" {
		WriteError(w, http.StatusBadRequest, "Assignment id is required")
		return
	}
	assignment, found, err := s.Store.Collection(store.Assignments).Get(assignmentID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "Assignment not found")
		return
	}

	var fileURL any
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		url, err := services.SaveUpload(s.Config.UploadStoragePath, header.Filename, file)
		if mapServiceError(w, err) {
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		fileURL = url
	}

	userID := CurrentUserID(r)
	submission := store.Record{
		"student":     userID,
		"submission":  r.FormValue("submission"),
		"fileUrl":     fileURL,
		"submittedAt": time.Now().UTC().Format(time.RFC3339),
	}

	submissions, _ := assignment["submissions"].([]any)
	replaced := false
	for i, raw := range submissions {
		existing, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if student, _ := existing["student"].(string); student != userID {
			continue
		}
		if fileURL == nil {
			submission["fileUrl"] = existing["fileUrl"]
		}
		if grade, ok := existing["grade"]; ok {
			submission["grade"] = grade
		}
		submissions[i] = map[string]any(submission)
		replaced = true
		break
	}
	if !replaced {
		submissions = append(submissions, map[string]any(submission))
	}

	if _, _, err := s.Store.Collection(store.Assignments).Update(assignmentID, store.Record{"submissions": submissions}); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Submitted successfully"})
}

func (s *Server) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentId")
	assignment, found, err := s.Store.Collection(store.Assignments).Get(assignmentID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	owner, _ := assignment["teacher"].(string)
	if CurrentRole(r) != services.RoleAdmin && owner != CurrentUserID(r) {
		WriteError(w, http.StatusForbidden, "Not allowed")
		return
	}
	var req AssignmentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	patch := store.Record{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.DueDate != nil {
		patch["dueDate"] = *req.DueDate
	}
	updated, _, err := s.Store.Collection(store.Assignments).Update(assignmentID, patch)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentId")
	removed, err := s.Store.Collection(store.Assignments).Remove(assignmentID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !removed {
		WriteError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

// ListSubmissions returns an assignment's submissions with each student
// reference resolved; a deleted student degrades to the raw id.
func (s *Server) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentId")
	assignment, found, err := s.Store.Collection(store.Assignments).Get(assignmentID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	submissions, _ := assignment["submissions"].([]any)
	studentRef := []store.Ref{{Field: "student", Collection: store.Users, Select: "id name email"}}
	items := make([]store.Record, 0, len(submissions))
	for _, raw := range submissions {
		submission, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, s.Store.Populate(store.Record(submission), studentRef))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) GradeSubmission(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.AssignmentID == "" || req.StudentID == "" {
		WriteError(w, http.StatusBadRequest, "Assignment and student are required")
		return
	}
	assignment, found, err := s.Store.Collection(store.Assignments).Get(req.AssignmentID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	submissions, _ := assignment["submissions"].([]any)
	for i, raw := range submissions {
		submission, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if student, _ := submission["student"].(string); student != req.StudentID {
			continue
		}
		submission["grade"] = req.Grade
		submissions[i] = submission
		if _, _, err := s.Store.Collection(store.Assignments).Update(req.AssignmentID, store.Record{"submissions": submissions}); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"message": "Graded"})
		return
	}
	WriteError(w, http.StatusNotFound, "Submission not found")
}
