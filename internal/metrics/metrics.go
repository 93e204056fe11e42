package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ClusterFetches  *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
	StaleResponses  prometheus.Counter
	RenderCache     *prometheus.CounterVec
	DebounceSettles prometheus.Counter
	InflightFetches prometheus.Gauge
	LocationUpdates *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ClusterFetches: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "heatmap_cluster_fetches_total",
			Help: "Total number of cluster fetches by outcome.",
		}, []string{"status"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heatmap_fetch_duration_seconds",
			Help:    "Duration of requests to the heat-map backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		StaleResponses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "heatmap_stale_responses_total",
			Help: "Backend responses discarded because a newer response was already applied.",
		}),
		RenderCache: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "heatmap_render_cache_lookups_total",
			Help: "Render cache lookups by result (hit or miss).",
		}, []string{"result"}),
		DebounceSettles: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "heatmap_debounce_settles_total",
			Help: "Number of camera settle events that produced a fetch request.",
		}),
		InflightFetches: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "heatmap_inflight_fetches",
			Help: "Current number of backend fetches in flight.",
		}),
		LocationUpdates: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "heatmap_location_updates_total",
			Help: "User location pushes by outcome.",
		}, []string{"status"}),
	}
}
