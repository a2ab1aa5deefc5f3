package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AttemptsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_scored_total",
			Help: "Total number of attempts scored and stored",
		},
		[]string{"subject"},
	)

	AttemptScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_attempt_score",
			Help:    "Distribution of attempt scores (0-100)",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	UnknownQuestions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_unknown_question_submissions_total",
			Help: "Submissions rejected because they referenced a question missing from the catalog",
		},
	)

	QuestionsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_questions_served_total",
			Help: "Questions handed out for tests, by selection mode",
		},
		[]string{"mode"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
