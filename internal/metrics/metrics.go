// Package metrics holds the Prometheus instruments for the shelter
// components. Every method is safe on a nil *Metrics, so components and tests
// can run without instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	ResidentsAdded     prometheus.Counter
	DuplicatesRejected prometheus.Counter
	ServicesLogged     prometheus.Counter
	ReportsGenerated   *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates the metrics on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ResidentsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelter_residents_added_total",
			Help: "Total number of residents added",
		}),
		DuplicatesRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelter_duplicate_residents_rejected_total",
			Help: "Total number of resident additions rejected as duplicates",
		}),
		ServicesLogged: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelter_services_logged_total",
			Help: "Total number of services logged",
		}),
		ReportsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shelter_reports_generated_total",
			Help: "Total number of reports generated, by kind",
		}, []string{"kind"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelter_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Registry returns the registry the metrics are registered on.
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
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncResidentsAdded counts one added resident.
func (m *Metrics) IncResidentsAdded() {
	if m == nil {
		return
	}
	m.ResidentsAdded.Inc()
}

// IncDuplicatesRejected counts one rejected duplicate.
func (m *Metrics) IncDuplicatesRejected() {
	if m == nil {
		return
	}
	m.DuplicatesRejected.Inc()
}

// IncServicesLogged counts one logged service.
func (m *Metrics) IncServicesLogged() {
	if m == nil {
		return
	}
	m.ServicesLogged.Inc()
}

// IncReportsGenerated counts one report of the given kind ("monthly", "system").
func (m *Metrics) IncReportsGenerated(kind string) {
	if m == nil {
		return
	}
	m.ReportsGenerated.WithLabelValues(kind).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
