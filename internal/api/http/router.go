package http

import (
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/velles/review-cycle-service/internal/metrics"
)

func NewRouter(server *Server, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	if m != nil {
		r.Use(requestMetrics(m))
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/healthz", server.HealthCheck)

	r.Post("/cards/transition", server.HandleCardTransition)

	r.Post("/evaluations/submit", server.HandleEvaluationSubmit)

	r.Get("/cycles/summary", server.HandleCycleSummary)
	r.Get("/projects/summary", server.HandleProjectSummary)

	r.Get("/dimensions", server.HandleDimensionList)
	r.Post("/dimensions/create", server.HandleDimensionCreate)
	r.Post("/dimensions/update", server.HandleDimensionUpdate)

	r.Post("/users/upsert", server.HandleUsersUpsert)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// requestMetrics counts every served request under its chi route pattern so
// path parameters don't explode label cardinality.
func requestMetrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			endpoint := chi.RouteContext(r.Context()).RoutePattern()
			if endpoint == "" {
				endpoint = "unmatched"
			}
			m.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(rec.status))
		})
	}
}
