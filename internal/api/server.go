// Package api exposes the job-board workflows over a small JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/common/config"
	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/common/validation"
	"jobboard/internal/models"
	"jobboard/internal/realtime"
	"jobboard/internal/store"
)

// JobSearcher is the full-text index behind GET /api/jobs?q=; optional.
type JobSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

type Server struct {
	cfg      config.ServerConfig
	tokens   *auth.TokenManager
	jobs     *store.JobStore
	apps     *store.ApplicationStore
	notifs   *store.NotificationStore
	profiles *store.ProfileStore
	searcher JobSearcher
	indexer  JobIndexer
	submit   Submitter
	fanout   StatusNotifier
	hub      EventSource
	logger   logger.Logger
}

// JobIndexer keeps the search index in sync with posting mutations.
type JobIndexer interface {
	Index(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, jobID string) error
}

// Submitter runs the application submission workflow.
type Submitter interface {
	Submit(ctx context.Context, sess *auth.Session, jobID string, form *validation.ApplicationForm) (*models.Application, error)
}

// StatusNotifier writes the applicant notification after a status change.
type StatusNotifier interface {
	StatusChanged(ctx context.Context, app *models.Application, newStatus string) error
}

// EventSource exposes the shared realtime subscription for SSE streaming.
type EventSource interface {
	Subscribe(recipientID string) (<-chan realtime.Event, func())
}

type Deps struct {
	Config   config.ServerConfig
	Tokens   *auth.TokenManager
	Jobs     *store.JobStore
	Apps     *store.ApplicationStore
	Notifs   *store.NotificationStore
	Profiles *store.ProfileStore
	Searcher JobSearcher
	Indexer  JobIndexer
	Submit   Submitter
	Fanout   StatusNotifier
	Hub      EventSource
	Logger   logger.Logger
}

func NewServer(d Deps) *Server {
	return &Server{
		cfg:      d.Config,
		tokens:   d.Tokens,
		jobs:     d.Jobs,
		apps:     d.Apps,
		notifs:   d.Notifs,
		profiles: d.Profiles,
		searcher: d.Searcher,
		indexer:  d.Indexer,
		submit:   d.Submit,
		fanout:   d.Fanout,
		hub:      d.Hub,
		logger:   d.Logger.WithFields(map[string]interface{}{"component": "api"}),
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/auth/signout", s.handleSignOut)

	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("POST /api/jobs", s.requireAdmin(s.handleCreateJob))
	mux.HandleFunc("PUT /api/jobs/{id}", s.requireAdmin(s.handleUpdateJob))
	mux.HandleFunc("POST /api/jobs/{id}/toggle", s.requireAdmin(s.handleToggleJob))
	mux.HandleFunc("DELETE /api/jobs/{id}", s.requireAdmin(s.handleDeleteJob))

	mux.HandleFunc("POST /api/jobs/{id}/apply", s.requireAuth(s.handleApply))

	mux.HandleFunc("GET /api/applications", s.requireAdmin(s.handleListApplications))
	mux.HandleFunc("GET /api/applications/mine", s.requireAuth(s.handleMyApplications))
	mux.HandleFunc("GET /api/applications/{id}", s.requireAdmin(s.handleGetApplication))
	mux.HandleFunc("PATCH /api/applications/{id}/status", s.requireAdmin(s.handleUpdateStatus))

	mux.HandleFunc("GET /api/notifications", s.requireAuth(s.handleListNotifications))
	mux.HandleFunc("GET /api/notifications/unread-count", s.requireAuth(s.handleUnreadCount))
	mux.HandleFunc("POST /api/notifications/{id}/read", s.requireAuth(s.handleMarkRead))
	mux.HandleFunc("POST /api/notifications/read-all", s.requireAuth(s.handleMarkAllRead))
	mux.HandleFunc("GET /api/notifications/stream", s.requireAuth(s.handleStream))

	mux.HandleFunc("POST /api/admins", s.requireAdmin(s.handleCreateAdmin))

	return mux
}

// --- middleware ---

type ctxKey int

const sessionKey ctxKey = 0

func sessionFrom(r *http.Request) *auth.Session {
	sess, _ := r.Context().Value(sessionKey).(*auth.Session)
	return sess
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, apperrors.NewUnauthenticatedError())
			return
		}
		sess, err := s.tokens.CurrentSession(token)
		if err != nil {
			s.writeError(w, apperrors.NewUnauthenticatedError())
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r).IsAdmin() {
			s.writeJSONStatus(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

// --- response helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	s.writeJSONStatus(w, http.StatusOK, v)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var se *apperrors.StandardError
	if errors.As(err, &se) {
		s.writeJSONStatus(w, statusForCode(se.Code), se)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSONStatus(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	s.logger.WithError(err).Error("internal error", nil)
	s.writeJSONStatus(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case apperrors.ErrCodeValidationFailed, apperrors.ErrCodeInvalidStatus:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// --- misc ---

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
