package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation engine Prometheus metrics.
var (
	IndexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "railvoy",
			Name:      "index_builds_total",
			Help:      "Total number of index build attempts",
		},
		[]string{"status"}, // "ok" / "error"
	)

	IndexBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "railvoy",
			Name:      "index_build_duration_seconds",
			Help:      "Index build duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	IndexedItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "railvoy",
			Name:      "indexed_items",
			Help:      "Number of items in the current index",
		},
	)

	SemanticCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "railvoy",
			Name:      "semantic_cache_total",
			Help:      "Semantic query cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "railvoy",
			Name:      "recommendations_total",
			Help:      "Total recommendation requests by outcome",
		},
		[]string{"outcome"}, // "matched" / "relaxed" / "empty"
	)

	SemanticSearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "railvoy",
			Name:      "semantic_search_duration_seconds",
			Help:      "Semantic search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "railvoy",
			Name:      "recommendation_duration_seconds",
			Help:      "End-to-end recommendation duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers Prometheus engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexBuildsTotal)
	prometheus.MustRegister(IndexBuildDuration)
	prometheus.MustRegister(IndexedItems)
	prometheus.MustRegister(SemanticCacheTotal)
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(SemanticSearchDuration)
	prometheus.MustRegister(RecommendationDuration)
	engineMetricsRegistered = true
}
