package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	AuthEventSignup = "signup"
	AuthEventLogin  = "login"
	AuthEventLogout = "logout"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics owns its registry so tests can build as many as they like without
// colliding on the global default registerer.
type Metrics struct {
	registry *prometheus.Registry

	// httpRequests counts finished requests.
	// Labels: method, route (the matched pattern, never the raw path), status
	httpRequests *prometheus.CounterVec

	// httpDuration measures handler latency.
	// Labels: method, route
	httpDuration *prometheus.HistogramVec

	// authEvents counts signup, login and logout attempts.
	// Labels: event, outcome (success, failure)
	authEvents *prometheus.CounterVec

	// noteOperations counts committed note mutations.
	// Labels: operation (create, update, delete)
	noteOperations *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Authentication events by kind and outcome",
		}, []string{"event", "outcome"}),
		noteOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "note_operations_total",
			Help: "Committed note mutations by operation",
		}, []string{"operation"}),
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) AuthEvent(event string, ok bool) {
	outcome := OutcomeFailure
	if ok {
		outcome = OutcomeSuccess
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) NoteOperation(operation string) {
	m.noteOperations.WithLabelValues(operation).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
