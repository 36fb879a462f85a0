package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/forgetbench/internal/orchestration"
)

// Metrics holds the Prometheus instruments for experiment execution. Each
// Metrics owns its own registry so repeated construction never collides on
// registration.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	activeExperiments prometheus.Gauge
	experimentsTotal  *prometheus.CounterVec
	duration          *prometheus.HistogramVec

	activeRequests prometheus.Gauge
	requestsTotal  prometheus.Counter
}

// NewMetrics creates the instrument set, including Go runtime collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		activeExperiments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forgetbench_active_experiments",
			Help: "Number of experiments currently running.",
		}),
		experimentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forgetbench_experiments_total",
			Help: "Total experiments executed, by terminal status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forgetbench_experiment_duration_seconds",
			Help:    "Wall-clock duration of experiment executions.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"experiment"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forgetbench_active_requests",
			Help: "Number of HTTP requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forgetbench_requests_total",
			Help: "Total HTTP requests served.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.activeExperiments,
		m.experimentsTotal,
		m.duration,
		m.activeRequests,
		m.requestsTotal,
	)

	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// ExperimentStarted marks one more experiment in flight.
func (m *Metrics) ExperimentStarted(_ string, _, _ int) {
	m.activeExperiments.Inc()
}

// ExperimentFinished records the terminal status and duration of an
// experiment and marks it no longer in flight.
func (m *Metrics) ExperimentFinished(o orchestration.Outcome, _, _ int) {
	m.activeExperiments.Dec()
	status := "completed"
	if !o.Completed() {
		status = "failed"
	}
	m.experimentsTotal.WithLabelValues(status).Inc()
	m.duration.WithLabelValues(o.ID).Observe(o.Duration.Seconds())
}

// IncrementActiveRequests marks one more HTTP request in flight.
func (m *Metrics) IncrementActiveRequests() {
	m.activeRequests.Inc()
	m.requestsTotal.Inc()
}

// DecrementActiveRequests marks an HTTP request as finished.
func (m *Metrics) DecrementActiveRequests() {
	m.activeRequests.Dec()
}

// WritePrometheus serves the metrics in Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
