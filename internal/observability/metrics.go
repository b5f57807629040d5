package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CollectedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotboard_collected_items_total",
		Help: "The total number of trending items collected",
	}, []string{"platform"})

	CollectErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotboard_collect_errors_total",
		Help: "The total number of failed platform fetches",
	}, []string{"platform"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hotboard_analysis_duration_seconds",
		Help:    "Duration of analysis computations",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	AnalysisCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotboard_analysis_cache_total",
		Help: "Analysis cache lookups by outcome",
	}, []string{"kind", "outcome"})

	SnapshotPlatforms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hotboard_snapshot_platforms",
		Help: "Number of platforms with data in the latest snapshot",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotboard_notifications_total",
		Help: "The total number of webhook notifications by status",
	}, []string{"status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hotboard_api_request_duration_seconds",
		Help:    "Duration of API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "status"})
)
