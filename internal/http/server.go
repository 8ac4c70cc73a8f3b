package httpapi

import (
	"net/http"
	"time"

	"schoolhub-backend-go/internal/config"
	"schoolhub-backend-go/internal/services"
	"schoolhub-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Server struct {
	Store      *store.Store
	Config     config.Config
	Tokens     services.TokenService
	MetricsHub *services.MetricsHub
}

func NewServer(st *store.Store, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		Store:      st,
		Config:     cfg,
		Tokens:     tokens,
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.Health)

		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/logout", s.Logout)
		api.With(WithAuth(s.Tokens)).Get("/auth/validate", s.ValidateToken)

		api.Route("/me", func(me chi.Router) {
			me.Use(WithAuth(s.Tokens))
			me.Put("/password", s.ChangePassword)
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(WithAuth(s.Tokens))
			users.With(RequireAnyRole(services.RoleAdmin, services.RoleTeacher)).Get("/", s.ListUsers)
			users.With(RequireRole(services.RoleAdmin)).Post("/", s.CreateUser)
			users.With(RequireRole(services.RoleAdmin)).Put("/{userId}", s.UpdateUser)
			users.With(RequireRole(services.RoleAdmin)).Delete("/{userId}", s.DeleteUser)
		})

		api.Route("/classes", func(classes chi.Router) {
			classes.Use(WithAuth(s.Tokens))
			classes.Get("/", s.ListClasses)
			classes.With(RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).Post("/", s.CreateClass)
			classes.Put("/{classId}", s.UpdateClass)
			classes.With(RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).Delete("/{classId}", s.DeleteClass)
			classes.Get("/{classId}/assignments", s.ClassAssignments)
			classes.Get("/{classId}/announcements", s.ClassAnnouncements)
		})

		api.Route("/announcements", func(announcements chi.Router) {
			announcements.Get("/", s.ListAnnouncements)
			announcements.With(WithAuth(s.Tokens), RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).
				Post("/", s.CreateAnnouncement)
			announcements.With(WithAuth(s.Tokens), RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).
				Delete("/{announcementId}", s.DeleteAnnouncement)
		})

		api.Route("/assignments", func(assignments chi.Router) {
			assignments.Use(WithAuth(s.Tokens))
			assignments.Get("/", s.ListAssignments)
			assignments.With(RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).Post("/", s.CreateAssignment)
			assignments.Post("/submit", s.SubmitAssignment)
			assignments.With(RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).Post("/grade", s.GradeSubmission)
			assignments.Put("/{assignmentId}", s.UpdateAssignment)
			assignments.With(RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).Delete("/{assignmentId}", s.DeleteAssignment)
			assignments.With(RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).Get("/{assignmentId}/submissions", s.ListSubmissions)
		})

		api.Route("/events", func(events chi.Router) {
			events.Get("/", s.ListEvents)
			events.With(WithAuth(s.Tokens), RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).Post("/", s.CreateEvent)
			events.With(WithAuth(s.Tokens), RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).Delete("/{eventId}", s.DeleteEvent)
		})

		api.Route("/media", func(media chi.Router) {
			media.Get("/", s.ListMedia)
			media.With(WithAuth(s.Tokens), RequireAnyRole(services.RoleTeacher, services.RoleAdmin)).Post("/", s.CreateMedia)
			media.With(WithAuth(s.Tokens), RequireRole(services.RoleAdmin)).Delete("/{mediaId}", s.DeleteMedia)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireRole(services.RoleAdmin))
			admin.Get("/metrics/history", s.MetricsHistory)
		})
	})

	r.Get("/ws/metrics", s.MetricsSocket)

	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.Config.UploadStoragePath)))
	r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
		uploads.ServeHTTP(w, r)
	})

	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Server is running with file-based storage",
	})
}
