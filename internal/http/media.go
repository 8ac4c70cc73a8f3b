package httpapi

import (
	"net/http"
	"time"

	"schoolhub-backend-go/internal/services"
	"schoolhub-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
)

var mediaRefs = []store.Ref{
	{Field: "author", Collection: store.Users, Select: "name"},
}

func (s *Server) ListMedia(w http.ResponseWriter, r *http.Request) {
	media, err := s.Store.Collection(store.Media).Find(nil)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]store.Record, 0, len(media))
	for _, item := range media {
		items = append(items, s.Store.Populate(item, mediaRefs))
	}
	sortByTimeDesc(items, "createdAt")
	WriteJSON(w, http.StatusOK, items)
}

// CreateMedia stores an uploaded file and records it in the media gallery.
func (s *Server) CreateMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(100 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()
	url, err := services.SaveUpload(s.Config.UploadStoragePath, header.Filename, file)
	if mapServiceError(w, err) {
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = "Untitled"
	}
	mediaType := r.FormValue("type")
	if mediaType == "" {
		mediaType = "file"
	}
	date := r.FormValue("date")
	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}
	media, err := s.Store.Collection(store.Media).Insert(store.Record{
		"title":  title,
		"type":   mediaType,
		"url":    url,
		"date":   date,
		"author": CurrentUserID(r),
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, media)
}

func (s *Server) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "mediaId")
	removed, err := s.Store.Collection(store.Media).Remove(mediaID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !removed {
		WriteError(w, http.StatusNotFound, "Media not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}
