// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/testsdaw/backend/internal/auth"
	"github.com/testsdaw/backend/internal/service"
	"github.com/testsdaw/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Every handler method receives its dependencies through this struct.
type Handler struct {
	selection *service.SelectionService
	scoring   *service.ScoringService
	stats     *service.StatsService
	catalog   *service.CatalogService
	accounts  *service.AccountService
	db        Pinger
	logger    *slog.Logger
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Selection *service.SelectionService
	Scoring   *service.ScoringService
	Stats     *service.StatsService
	Catalog   *service.CatalogService
	Accounts  *service.AccountService
	DB        Pinger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	return &Handler{
		selection: svc.Selection,
		scoring:   svc.Scoring,
		stats:     svc.Stats,
		catalog:   svc.Catalog,
		accounts:  svc.Accounts,
		db:        svc.DB,
		logger:    logger,
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// currentUser returns the verified user id placed in the context by
// RequireAuth. It writes a 401 and returns false if there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return id, true
}

// handleError maps service and store errors to HTTP responses.
// Returns true if an error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}

	var unknown *service.UnknownQuestionError
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrInvalidFilter):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidSubmission):
		respondError(w, http.StatusBadRequest, "invalid submission")
	case errors.As(err, &unknown):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "unknown question",
			Details: map[string]string{"questionId": formatID(unknown.QuestionID)},
		})
	case errors.Is(err, store.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		h.logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
		)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
