package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "facility_dashboard"

// Metrics holds the Prometheus collectors for render passes and their
// supporting adapters.
type Metrics struct {
	RenderPasses   *prometheus.CounterVec // labels: outcome={success,error}
	RenderDuration prometheus.Histogram

	// Warehouse load metrics.
	LoadDuration *prometheus.HistogramVec // labels: driver
	LoadErrors   *prometheus.CounterVec   // labels: kind={authentication,query,data_shape,internal}
	DatasetRows  prometheus.Gauge
	FilteredRows prometheus.Gauge

	// Dataset cache metrics.
	CacheLookups *prometheus.CounterVec // labels: backend, result={hit,miss,error}

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Render event publishing.
	EventsPublished prometheus.Counter
	EventsFailed    prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RenderPasses,
		m.RenderDuration,
		m.LoadDuration,
		m.LoadErrors,
		m.DatasetRows,
		m.FilteredRows,
		m.CacheLookups,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.EventsPublished,
		m.EventsFailed,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RenderPasses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_passes_total",
			Help:      "Dashboard render passes by outcome.",
		}, []string{"outcome"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of a complete load-filter-render pass.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Warehouse query and decode duration.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"driver"}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Failed dataset loads by error kind.",
		}, []string{"kind"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Records in the most recently loaded dataset.",
		}),
		FilteredRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filtered_rows",
			Help:      "Records left after the most recent filter.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Dataset cache lookups by backend and result.",
		}, []string{"backend", "result"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Mapbox geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_events_published_total",
			Help:      "Render summaries written to Kafka.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_events_failed_total",
			Help:      "Render summaries that could not be written to Kafka.",
		}),
	}
}
