// Package metrics exposes render and request counters for prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mpgscenes"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	requests       *prometheus.CounterVec
	exports        *prometheus.CounterVec
	records        prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_renders_total",
			Help:      "Scenes drawn, by scene name.",
		}, []string{"scene"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scene_render_duration_seconds",
			Help:      "Time spent drawing a scene onto a surface.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"scene"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Stat exports by format.",
		}, []string{"format"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the loaded dataset.",
		}),
	}
	m.registry.MustRegister(
		m.renders, m.renderDuration, m.requests, m.exports, m.records,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRender matches scene.Observer.
func (m *Metrics) ObserveRender(scene string, elapsed time.Duration) {
	m.renders.WithLabelValues(scene).Inc()
	m.renderDuration.WithLabelValues(scene).Observe(elapsed.Seconds())
}

// ObserveRequest counts one HTTP response.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveExport counts one export in format.
func (m *Metrics) ObserveExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}

// SetRecords records the dataset size.
func (m *Metrics) SetRecords(n int) {
	m.records.Set(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
