// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the metrics surface used by the attendance services.
type Collector interface {
	RecordEvent(kind string)
	RecordDuplicateRejected(kind string)
	RecordInvalidPair()
	RecordCorrection()
}

// PrometheusCollector registers and updates the attendance counters.
type PrometheusCollector struct {
	eventsRecorded     *prometheus.CounterVec
	duplicatesRejected *prometheus.CounterVec
	invalidPairs       prometheus.Counter
	corrections        prometheus.Counter
}

// NewCollector creates a PrometheusCollector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		eventsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendly_events_recorded_total",
			Help: "Attendance events accepted, by kind",
		}, []string{"kind"}),
		duplicatesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendly_duplicate_events_rejected_total",
			Help: "Inserts rejected by the duplicate-event guard, by kind",
		}, []string{"kind"}),
		invalidPairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendly_invalid_pairs_total",
			Help: "Check-in/check-out pairs discarded during aggregation",
		}),
		corrections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendly_event_corrections_total",
			Help: "Administrative event timestamp corrections applied",
		}),
	}

	reg.MustRegister(
		c.eventsRecorded,
		c.duplicatesRejected,
		c.invalidPairs,
		c.corrections,
	)

	return c
}

func (c *PrometheusCollector) RecordEvent(kind string) {
	c.eventsRecorded.WithLabelValues(kind).Inc()
}

func (c *PrometheusCollector) RecordDuplicateRejected(kind string) {
	c.duplicatesRejected.WithLabelValues(kind).Inc()
}

func (c *PrometheusCollector) RecordInvalidPair() {
	c.invalidPairs.Inc()
}

func (c *PrometheusCollector) RecordCorrection() {
	c.corrections.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NopCollector discards all metrics. Used by tests.
type NopCollector struct{}

func (NopCollector) RecordEvent(string)             {}
func (NopCollector) RecordDuplicateRejected(string) {}
func (NopCollector) RecordInvalidPair()             {}
func (NopCollector) RecordCorrection()              {}
