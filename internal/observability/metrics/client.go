package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics tracks outbound API traffic and the domain workflows
// driven by it. Everything registers on a dedicated registry so the
// handler only ever exposes our own series.
type ClientMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
	requestFailures *prometheus.CounterVec

	sessionTransitions *prometheus.CounterVec
	uploadJobsTotal    *prometheus.CounterVec
	chatTurnsTotal     *prometheus.CounterVec
	listRefreshesTotal *prometheus.CounterVec
}

func NewClientMetrics(service string) *ClientMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healytics",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total outbound API requests by result status.",
		},
		[]string{"service", "method", "operation", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "healytics",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Outbound API request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "operation"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "healytics",
			Subsystem: "api",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight outbound API requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	requestFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healytics",
			Subsystem: "api",
			Name:      "request_failures_total",
			Help:      "Total failed outbound API requests by failure origin.",
		},
		[]string{"service", "operation", "origin"},
	)
	sessionTransitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healytics",
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Total session status transitions.",
		},
		[]string{"service", "status"},
	)
	uploadJobsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healytics",
			Subsystem: "upload",
			Name:      "jobs_total",
			Help:      "Total completed upload submissions by outcome.",
		},
		[]string{"service", "outcome"},
	)
	chatTurnsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healytics",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total completed chat turns by outcome.",
		},
		[]string{"service", "outcome"},
	)
	listRefreshesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healytics",
			Subsystem: "listing",
			Name:      "refreshes_total",
			Help:      "Total list refreshes by collection and response shape.",
		},
		[]string{"service", "collection", "source"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		requestFailures,
		sessionTransitions,
		uploadJobsTotal,
		chatTurnsTotal,
		listRefreshesTotal,
	)

	return &ClientMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		requestFailures:    requestFailures,
		sessionTransitions: sessionTransitions,
		uploadJobsTotal:    uploadJobsTotal,
		chatTurnsTotal:     chatTurnsTotal,
		listRefreshesTotal: listRefreshesTotal,
	}
}

func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ClientMetrics) RequestStarted() func(service, method, operation string, status int, duration time.Duration) {
	if m == nil {
		return func(string, string, string, int, time.Duration) {}
	}
	m.requestInFlight.Inc()
	return func(service, method, operation string, status int, duration time.Duration) {
		m.requestInFlight.Dec()
		m.requestTotal.WithLabelValues(service, method, operation, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(service, method, operation).Observe(duration.Seconds())
	}
}

func (m *ClientMetrics) RecordRequestFailure(service, operation, origin string) {
	if m == nil {
		return
	}
	if origin == "" {
		origin = "unknown"
	}
	m.requestFailures.WithLabelValues(service, operation, origin).Inc()
}

func (m *ClientMetrics) RecordSessionTransition(service, status string) {
	if m == nil {
		return
	}
	m.sessionTransitions.WithLabelValues(service, status).Inc()
}

func (m *ClientMetrics) RecordUploadJob(service, outcome string) {
	if m == nil {
		return
	}
	m.uploadJobsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *ClientMetrics) RecordChatTurn(service, outcome string) {
	if m == nil {
		return
	}
	m.chatTurnsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *ClientMetrics) RecordListRefresh(service, collection, source string) {
	if m == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.listRefreshesTotal.WithLabelValues(service, collection, source).Inc()
}
