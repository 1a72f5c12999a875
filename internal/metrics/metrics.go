// Package metrics provides Prometheus metrics for the review-cycle engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "review_engine"

// Metrics holds every counter the engine records. One instance is built in
// main and injected where needed.
type Metrics struct {
	registry *prometheus.Registry

	transitionsApplied     prometheus.Counter
	cyclesOpened           prometheus.Counter
	cyclesClosed           prometheus.Counter
	transientCyclesDeleted prometheus.Counter
	cardsLocked            prometheus.Counter
	cardsReopened          prometheus.Counter
	evaluationsSubmitted   prometheus.Counter

	httpRequests *prometheus.CounterVec
}

// New builds a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		transitionsApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_applied_total",
			Help:      "Card-list transitions processed by the lifecycle manager.",
		}),
		cyclesOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_opened_total",
			Help:      "Review cycles opened.",
		}),
		cyclesClosed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_closed_total",
			Help:      "Review cycles closed.",
		}),
		transientCyclesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transient_cycles_deleted_total",
			Help:      "Review cycles deleted under the transient-cycle rule.",
		}),
		cardsLocked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_locked_total",
			Help:      "Cards whose cycles were locked on reaching a done list.",
		}),
		cardsReopened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_reopened_total",
			Help:      "Cards whose cycles were unlocked after leaving a done list.",
		}),
		evaluationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_submitted_total",
			Help:      "Evaluations stored, including resubmissions.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status.",
		}, []string{"endpoint", "method", "status"}),
	}
}

// Handler exposes the registry for a /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordTransition counts one processed transition and its effects.
func (m *Metrics) RecordTransition(opened, closed, transientDeleted, locked, unlocked bool) {
	m.transitionsApplied.Inc()
	if opened {
		m.cyclesOpened.Inc()
	}
	if closed {
		m.cyclesClosed.Inc()
	}
	if transientDeleted {
		m.transientCyclesDeleted.Inc()
	}
	if locked {
		m.cardsLocked.Inc()
	}
	if unlocked {
		m.cardsReopened.Inc()
	}
}

// RecordEvaluation counts one stored evaluation.
func (m *Metrics) RecordEvaluation() {
	m.evaluationsSubmitted.Inc()
}

// RecordHTTPRequest counts one served request.
func (m *Metrics) RecordHTTPRequest(endpoint, method, status string) {
	m.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}
