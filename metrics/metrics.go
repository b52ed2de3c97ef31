package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var msBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000}

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geomap_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"route", "status"})
	HTTPDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geomap_http_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: msBuckets,
	}, []string{"route"})
	StateSavesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geomap_state_saves_total",
		Help: "Total saved game documents",
	})
	StateCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geomap_state_cache_hits_total",
		Help: "Latest-state cache hits",
	})
	StateCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geomap_state_cache_misses_total",
		Help: "Latest-state cache misses",
	})
	RenderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geomap_render_duration_ms",
		Help:    "Path build plus raster duration in milliseconds",
		Buckets: msBuckets,
	})
	ViewEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geomap_view_events_total",
		Help: "Interaction events dispatched by kind",
	}, []string{"kind"})
	ViewSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geomap_view_sessions",
		Help: "Live view sessions",
	})
	HitTestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geomap_hit_tests_total",
		Help: "Hit tests by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPDurationMs)
	prometheus.MustRegister(StateSavesTotal)
	prometheus.MustRegister(StateCacheHitsTotal)
	prometheus.MustRegister(StateCacheMissesTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(ViewEventsTotal)
	prometheus.MustRegister(ViewSessions)
	prometheus.MustRegister(HitTestsTotal)
}

// Handler 暴露 /metrics
func Handler() http.Handler { return promhttp.Handler() }
