// Package metrics exposes registration pipeline metrics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	OutcomeReserved = "reserved"
	OutcomeFull     = "full"
	OutcomeError    = "error"
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
)

// Metrics holds the collectors on a private registry
type Metrics struct {
	reg *prometheus.Registry

	reservations   *prometheus.CounterVec
	registrations  *prometheus.CounterVec
	compensations  *prometheus.CounterVec
	uploadDuration prometheus.Histogram
	capacityDrift  *prometheus.GaugeVec
	httpRequests   *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		reservations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "techfest_reservations_total",
			Help: "Capacity reservation attempts by outcome.",
		}, []string{"outcome"}),
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "techfest_registrations_total",
			Help: "Registration requests by outcome code.",
		}, []string{"outcome"}),
		compensations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "techfest_compensations_total",
			Help: "Reservation rollbacks by outcome.",
		}, []string{"outcome"}),
		uploadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "techfest_upload_duration_seconds",
			Help:    "Time spent uploading payment proofs.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		}),
		capacityDrift: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "techfest_capacity_drift",
			Help: "registered_count minus stored registrations, per event.",
		}, []string{"slug"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "techfest_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
	}
}

// Reservation counts one reservation attempt
func (m *Metrics) Reservation(outcome string) {
	m.reservations.WithLabelValues(outcome).Inc()
}

// Registration counts one finished registration request
func (m *Metrics) Registration(outcome string) {
	m.registrations.WithLabelValues(outcome).Inc()
}

// Compensation counts one rollback
func (m *Metrics) Compensation(outcome string) {
	m.compensations.WithLabelValues(outcome).Inc()
}

// ObserveUpload records the duration of a proof upload
func (m *Metrics) ObserveUpload(d time.Duration) {
	m.uploadDuration.Observe(d.Seconds())
}

// SetDrift records the counter drift of one event
func (m *Metrics) SetDrift(slug string, drift int) {
	m.capacityDrift.WithLabelValues(slug).Set(float64(drift))
}

// HTTPRequest counts one served request
func (m *Metrics) HTTPRequest(method, route, status string) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
