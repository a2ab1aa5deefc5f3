package api

import (
	"context"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/testsdaw/backend/internal/metrics"
)

// RegisterRoutes mounts the public and authenticated API routes on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler, tokens TokenVerifier) {
	authed := RequireAuth(tokens)
	protect := func(fn http.HandlerFunc) http.Handler {
		return authed(fn)
	}

	// Public
	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)

	// Catalog
	mux.Handle("GET /api/subjects", protect(h.listSubjects))
	mux.Handle("GET /api/subjects/{subjectCode}/topics", protect(h.listTopics))

	// Questions
	mux.Handle("GET /api/questions", protect(h.listQuestions))
	mux.Handle("GET /api/questions/count", protect(h.countQuestions))

	// Attempts
	mux.Handle("POST /api/attempts", protect(h.submitAttempt))
	mux.Handle("GET /api/attempts/stats", protect(h.getStats))

	// Ranking
	mux.Handle("GET /api/ranking", protect(h.getRanking))

	// Operations
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("/", notFound)
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

const healthTimeout = 2 * time.Second

// health godoc
// @Summary      Readiness check
// @Description  Reports ok when the database answers a ping.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /api/health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", "error", err, "request_id", RequestID(r.Context()))
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Timestamp: time.Now().UTC()})
			return
		}
	}
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now().UTC()})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "route not found")
}
