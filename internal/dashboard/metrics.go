package dashboard

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/banshee-data/bikeshare.report/internal/filter"
)

// Result label values of bikeshare_view_requests_total.
const (
	resultRows  = "rows"
	resultEmpty = "empty"
)

// Metrics counts engine runs per view. Each WebServer owns a private
// registry so tests can build servers side by side.
type Metrics struct {
	registry       *prometheus.Registry
	viewRequests   *prometheus.CounterVec
	filterDuration *prometheus.HistogramVec
}

// NewMetrics creates the view metrics plus the Go and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		viewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_view_requests_total",
			Help: "Filter runs by view and whether any rows matched.",
		}, []string{"view", "result"}),
		filterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_filter_duration_seconds",
			Help:    "Time spent filtering the table per view.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"view"}),
	}
	registry.MustRegister(m.viewRequests)
	registry.MustRegister(m.filterDuration)
	return m
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(view string, res filter.Result, d time.Duration) {
	result := resultRows
	if res.Empty() {
		result = resultEmpty
	}
	m.viewRequests.WithLabelValues(view, result).Inc()
	m.filterDuration.WithLabelValues(view).Observe(d.Seconds())
}
