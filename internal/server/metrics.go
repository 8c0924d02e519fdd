package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/missioncontrol/internal/intake"
)

// metricsNamespace prefixes every exported metric name.
const metricsNamespace = "missioncontrol"

// Rejection reasons for the intake_rejected_total metric.
const (
	reasonInvalidBody = "invalid_body"
	reasonEmptyInput  = "empty_input"
	reasonTooLarge    = "too_large"
)

// assumptionLabels maps catalogue entries to short metric label values.
var assumptionLabels = map[string]string{
	intake.AssumptionImplementationTask: "implementation_task",
	intake.AssumptionWrittenOutput:      "written_output",
	intake.AssumptionNoFixedDeadline:    "no_fixed_deadline",
}

// metrics holds the collectors for one Server.
// Each Server has its own registry so that several servers can coexist in
// one process.
type metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rejected    *prometheus.CounterVec
	assumptions *prometheus.CounterVec
}

// newMetrics creates and registers the server collectors.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "intake",
			Name:      "rejected_total",
			Help:      "Intake requests rejected at the boundary, by reason.",
		}, []string{"reason"}),
		assumptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "intake",
			Name:      "assumptions_total",
			Help:      "Assumptions attached to orchestrated requests.",
		}, []string{"assumption"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.rejected,
		m.assumptions,
	)

	return m
}

// instrument wraps h with request counting and latency observation.
func (m *metrics) instrument(route string, h http.Handler) http.Handler {
	labels := prometheus.Labels{"route": route}
	return promhttp.InstrumentHandlerDuration(
		m.duration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(m.requests.MustCurryWith(labels), h),
	)
}

// handler serves the registry in the Prometheus exposition format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// observeRejection counts a request rejected at the boundary.
func (m *metrics) observeRejection(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// observeAssumptions counts the assumptions of one result.
func (m *metrics) observeAssumptions(assumptions []string) {
	for _, a := range assumptions {
		label, ok := assumptionLabels[a]
		if !ok {
			label = "other"
		}
		m.assumptions.WithLabelValues(label).Inc()
	}
}
