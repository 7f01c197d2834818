// Package metrics exposes Prometheus collectors for the page shell.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render outcomes recorded by ObserveRender.
const (
	OutcomeShell        = "shell"
	OutcomeRoutedError  = "routed_error"
	OutcomeGenericError = "generic_error"
	OutcomeUnknownError = "unknown_error"
)

// Session lookup results recorded by ObserveSessionLookup.
const (
	LookupAuthenticated = "authenticated"
	LookupAnonymous     = "anonymous"
	LookupError         = "error"
)

// Metrics holds the collectors for one registry. A nil *Metrics is a no-op
// so callers never need to guard.
type Metrics struct {
	registry *prometheus.Registry

	renders         *prometheus.CounterVec
	sessionLookups  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates a registry with Go and process collectors plus the shell metrics.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shell",
			Name:      "renders_total",
			Help:      "Documents rendered, by outcome (shell or error boundary branch).",
		}, []string{"outcome"}),
		sessionLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shell",
			Name:      "session_lookups_total",
			Help:      "Session loader calls, by result.",
		}, []string{"result"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRender counts one rendered document.
func (m *Metrics) ObserveRender(outcome string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(outcome).Inc()
}

// ObserveSessionLookup counts one session loader call.
func (m *Metrics) ObserveSessionLookup(result string) {
	if m == nil {
		return
	}
	m.sessionLookups.WithLabelValues(result).Inc()
}

// ObserveRequest records one HTTP request's latency.
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}
